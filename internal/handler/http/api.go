package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/notify"
	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/pagination"
	"github.com/utafrali/storefront/pkg/validator"
)

// APIHandler serves the JSON API under /api/v1.
type APIHandler struct {
	service *service.Storefront
	toasts  ToastSource
	logger  *slog.Logger
}

// NewAPIHandler creates a new JSON API handler.
func NewAPIHandler(svc *service.Storefront, toasts ToastSource, logger *slog.Logger) *APIHandler {
	return &APIHandler{
		service: svc,
		toasts:  toasts,
		logger:  logger,
	}
}

// --- Request DTOs ---

// AddItemRequest is the JSON request body for adding a product to a list.
type AddItemRequest struct {
	ProductID *int `json:"product_id" validate:"required"`
}

// --- Response DTOs ---

// MutationResponse is returned by every endpoint that changes a list.
type MutationResponse struct {
	Counters      domain.Counters `json:"counters"`
	Notifications []notify.Toast  `json:"notifications"`
}

// CartResponse is the body of GET /api/v1/cart.
type CartResponse struct {
	Items []domain.CartItem `json:"items"`
	Count int               `json:"count"`
}

// WishlistResponse is the body of GET /api/v1/wishlist.
type WishlistResponse struct {
	Items []domain.WishlistItem `json:"items"`
	Count int                   `json:"count"`
}

// --- Handlers ---

// Catalog handles GET /api/v1/catalog?page=&per_page=
func (h *APIHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	params, err := pagination.FromQuery(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: pagination.Slice(h.service.Catalog(), params)})
}

// Counters handles GET /api/v1/counters
func (h *APIHandler) Counters(w http.ResponseWriter, r *http.Request) {
	counters, err := h.service.Counters(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: counters})
}

// GetCart handles GET /api/v1/cart
func (h *APIHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.Cart(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: CartResponse{Items: items, Count: len(items)},
	})
}

// ClearCart handles DELETE /api/v1/cart
func (h *APIHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.service.ClearCart)
}

// AddToCart handles POST /api/v1/cart/items
func (h *APIHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	h.addItem(w, r, h.service.AddToCart)
}

// RemoveFromCart handles DELETE /api/v1/cart/items/{productId}
func (h *APIHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	h.removeItem(w, r, h.service.RemoveFromCart)
}

// GetWishlist handles GET /api/v1/wishlist
func (h *APIHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.Wishlist(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: WishlistResponse{Items: items, Count: len(items)},
	})
}

// ClearWishlist handles DELETE /api/v1/wishlist
func (h *APIHandler) ClearWishlist(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.service.ClearWishlist)
}

// AddToWishlist handles POST /api/v1/wishlist/items
func (h *APIHandler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	h.addItem(w, r, h.service.AddToWishlist)
}

// RemoveFromWishlist handles DELETE /api/v1/wishlist/items/{productId}
func (h *APIHandler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	h.removeItem(w, r, h.service.RemoveFromWishlist)
}

func (h *APIHandler) addItem(w http.ResponseWriter, r *http.Request, op func(context.Context, int) error) {
	var req AddItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.mutate(w, r, func(ctx context.Context) error {
		return op(ctx, *req.ProductID)
	})
}

func (h *APIHandler) removeItem(w http.ResponseWriter, r *http.Request, op func(context.Context, int) error) {
	productID, ok := httputil.ParseID(w, r, "productId", chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	h.mutate(w, r, func(ctx context.Context) error {
		return op(ctx, productID)
	})
}

// mutate runs op and answers with the new counters and the notifications it
// raised. Notifications are handed to the API caller instead of the next page.
func (h *APIHandler) mutate(w http.ResponseWriter, r *http.Request, op func(context.Context) error) {
	ctx := r.Context()

	if err := op(ctx); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	counters, err := h.service.Counters(ctx)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: MutationResponse{Counters: counters, Notifications: h.toasts.Drain(ctx)},
	})
}
