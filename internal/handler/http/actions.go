package http

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/pkg/httputil"
)

// ActionHandler handles the form posts issued by the page buttons. Every
// action redirects back to the page it came from.
type ActionHandler struct {
	service *service.Storefront
	logger  *slog.Logger
}

// NewActionHandler creates a new form action handler.
func NewActionHandler(svc *service.Storefront, logger *slog.Logger) *ActionHandler {
	return &ActionHandler{
		service: svc,
		logger:  logger,
	}
}

// AddToCart handles POST /cart/items/{productId}
func (h *ActionHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, h.service.AddToCart, "/")
}

// RemoveFromCart handles POST /cart/items/{productId}/remove
func (h *ActionHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, h.service.RemoveFromCart, "/cart")
}

// AddToWishlist handles POST /wishlist/items/{productId}
func (h *ActionHandler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, h.service.AddToWishlist, "/")
}

// RemoveFromWishlist handles POST /wishlist/items/{productId}/remove
func (h *ActionHandler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, h.service.RemoveFromWishlist, "/wishlist")
}

func (h *ActionHandler) act(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, productID int) error,
	fallback string,
) {
	productID, ok := httputil.ParseID(w, r, "productId", chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	if err := op(r.Context(), productID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	http.Redirect(w, r, backTo(r, fallback), http.StatusSeeOther)
}

// backTo returns the local path of the Referer, or fallback when the Referer
// is missing or points at another host.
func backTo(r *http.Request, fallback string) string {
	ref := r.Referer()
	if ref == "" {
		return fallback
	}
	u, err := url.Parse(ref)
	if err != nil {
		return fallback
	}
	if u.Host != "" && u.Host != r.Host {
		return fallback
	}
	if u.Path == "" || u.Path[0] != '/' {
		return fallback
	}
	return u.RequestURI()
}
