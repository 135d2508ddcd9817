package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/utafrali/storefront/internal/notify"
	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/internal/view"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/logger"
)

// ToastSource hands out the notifications waiting for the current visitor.
type ToastSource interface {
	Drain(ctx context.Context) []notify.Toast
}

// PageHandler serves the three storefront pages.
type PageHandler struct {
	service  *service.Storefront
	toasts   ToastSource
	renderer *view.Renderer
	logger   *slog.Logger
}

// NewPageHandler creates a new page handler.
func NewPageHandler(svc *service.Storefront, toasts ToastSource, renderer *view.Renderer, logger *slog.Logger) *PageHandler {
	return &PageHandler{
		service:  svc,
		toasts:   toasts,
		renderer: renderer,
		logger:   logger,
	}
}

// Catalog handles GET /
func (h *PageHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, view.CatalogPage)
}

// Cart handles GET /cart
func (h *PageHandler) Cart(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, view.CartPage)
}

// Wishlist handles GET /wishlist
func (h *PageHandler) Wishlist(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, view.WishlistPage)
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, layout view.Layout) {
	ctx := r.Context()

	cart, err := h.service.Cart(ctx)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	wishlist, err := h.service.Wishlist(ctx)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	data := view.NewData(h.service.Catalog(), cart, wishlist, h.toasts.Drain(ctx))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := h.renderer.Render(w, layout, data); err != nil {
		logger.FromContext(ctx).ErrorContext(ctx, "page render failed",
			slog.String("page", layout.Name),
			slog.String("error", err.Error()),
		)
		http.Error(w, "page unavailable", http.StatusInternalServerError)
	}
}
