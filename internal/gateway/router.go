package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sharekit-app/sharekit-backend/api/controllers"
	"github.com/sharekit-app/sharekit-backend/api/middleware"
	"github.com/sharekit-app/sharekit-backend/pkg/config"
	"github.com/sharekit-app/sharekit-backend/pkg/logger"
	"github.com/sharekit-app/sharekit-backend/pkg/metrics"
)

// Deps bundles everything the gateway router needs.
type Deps struct {
	Config    *config.Config
	Logger    *logger.Logger
	Forwarder *Forwarder
	Limiter   *RateLimiter
	Metrics   *metrics.HTTPMetrics
	Registry  *prometheus.Registry
}

// NewRouter wires the gateway tier: the same route surface as the server,
// with request-shape validation and throttling in front of the relay.
// Identity is enforced here too so garbage never reaches the server.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(deps.Logger),
		middleware.RequestID(deps.Logger),
		middleware.Logging(deps.Logger),
		middleware.Metrics(deps.Metrics),
		cors.Handler(cors.Options{
			AllowedOrigins:   deps.Config.Gateway.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", middleware.HeaderUserID},
			AllowCredentials: false,
			MaxAge:           300,
		}),
	)
	if deps.Limiter != nil {
		r.Use(deps.Limiter.Handler)
	}

	identity := middleware.Identity(deps.Logger)
	f := deps.Forwarder

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(deps.Config))
		r.Get("/ready", controllers.HealthReady(deps.Config, nil))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/users", func(r chi.Router) {
		r.Post("/", UserCreate(f, deps.Logger))
		r.Get("/", Forward(f))
		r.Get("/{userId}", Forward(f))
		r.Patch("/{userId}", UserUpdate(f, deps.Logger))
		r.Delete("/{userId}", Forward(f))
	})

	r.Route("/items", func(r chi.Router) {
		r.Get("/search", PagedForward(f, deps.Logger))

		r.Group(func(r chi.Router) {
			r.Use(identity)
			r.Post("/", ItemCreate(f, deps.Logger))
			r.Get("/", PagedForward(f, deps.Logger))
			r.Get("/{itemId}", Forward(f))
			r.Patch("/{itemId}", Forward(f))
			r.Post("/{itemId}/comment", ItemAddComment(f, deps.Logger))
		})
	})

	r.Route("/bookings", func(r chi.Router) {
		r.Use(identity)
		r.Post("/", BookingCreate(f, deps.Logger))
		r.Get("/", BookingListForward(f, deps.Logger))
		r.Get("/owner", BookingListForward(f, deps.Logger))
		r.Get("/{bookingId}", Forward(f))
		r.Patch("/{bookingId}", Forward(f))
	})

	r.Route("/requests", func(r chi.Router) {
		r.Use(identity)
		r.Post("/", RequestCreate(f, deps.Logger))
		r.Get("/", Forward(f))
		r.Get("/all", PagedForward(f, deps.Logger))
		r.Get("/{requestId}", Forward(f))
	})

	return r
}
