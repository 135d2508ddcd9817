package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/internal/view"
	"github.com/utafrali/storefront/pkg/health"
	"github.com/utafrali/storefront/pkg/middleware"
)

// serviceName labels HTTP metrics and spans.
const serviceName = "storefront"

// RouterConfig holds the HTTP-layer settings.
type RouterConfig struct {
	CORS       middleware.CORSConfig
	Session    SessionConfig
	PprofCIDRs []string
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	svc *service.Storefront,
	toasts ToastSource,
	renderer *view.Renderer,
	healthHandler *health.Handler,
	cfg RouterConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})
	middleware.RegisterPprof(r, cfg.PprofCIDRs, logger)

	// Page assets
	r.With(middleware.CacheControl(time.Hour)).Handle("/static/*",
		http.StripPrefix("/static/", http.FileServer(http.FS(view.Static()))))

	pages := NewPageHandler(svc, toasts, renderer, logger)
	actions := NewActionHandler(svc, logger)
	api := NewAPIHandler(svc, toasts, logger)

	// Pages and form actions
	r.Group(func(r chi.Router) {
		r.Use(middleware.NoStore)
		r.Use(Session(cfg.Session))

		r.Get("/", pages.Catalog)
		r.Get("/cart", pages.Cart)
		r.Get("/wishlist", pages.Wishlist)

		r.Post("/cart/items/{productId}", actions.AddToCart)
		r.Post("/cart/items/{productId}/remove", actions.RemoveFromCart)
		r.Post("/wishlist/items/{productId}", actions.AddToWishlist)
		r.Post("/wishlist/items/{productId}/remove", actions.RemoveFromWishlist)
	})

	// JSON API
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.CORS(cfg.CORS))
		r.Use(ContentTypeJSON)
		r.Use(middleware.NoStore)
		r.Use(Session(cfg.Session))

		r.Get("/catalog", api.Catalog)
		r.Get("/counters", api.Counters)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", api.GetCart)
			r.Delete("/", api.ClearCart)
			r.Post("/items", api.AddToCart)
			r.Delete("/items/{productId}", api.RemoveFromCart)
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", api.GetWishlist)
			r.Delete("/", api.ClearWishlist)
			r.Post("/items", api.AddToWishlist)
			r.Delete("/items/{productId}", api.RemoveFromWishlist)
		})
	})

	return r
}
