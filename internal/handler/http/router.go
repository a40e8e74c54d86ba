package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/KodyPrograms/RevuMe/internal/service"
	"github.com/KodyPrograms/RevuMe/pkg/health"
	"github.com/KodyPrograms/RevuMe/pkg/middleware"
)

const appName = "revume"

// RouterConfig carries the router-level knobs resolved from config.
type RouterConfig struct {
	CORS              middleware.CORSConfig
	PprofAllowedCIDRs []string
}

// NewRouter creates a chi router with all routes registered.
func NewRouter(
	authService *service.AuthService,
	reviewService *service.ReviewService,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Tracing(appName))
	r.Use(middleware.PrometheusMetrics(appName))

	// Health and observability endpoints
	r.Get("/health", healthHandler.ReadinessHandler())
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	if len(cfg.PprofAllowedCIDRs) > 0 {
		middleware.RegisterPprof(r, cfg.PprofAllowedCIDRs, logger)
	}

	authHandler := NewAuthHandler(authService, logger)
	reviewHandler := NewReviewHandler(reviewService, logger)

	// Public auth endpoints
	r.Group(func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/api/register", authHandler.Register)
		r.Post("/api/login", authHandler.Login)
	})

	// Authenticated endpoints
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(authService.Resolve))

		r.Post("/api/logout", authHandler.Logout)

		r.Route("/api/reviews", func(r chi.Router) {
			r.Get("/", reviewHandler.List)
			r.Post("/", reviewHandler.Create)
			r.Put("/{id}", reviewHandler.Update)
			r.Delete("/{id}", reviewHandler.Delete)
		})
	})

	return r
}
