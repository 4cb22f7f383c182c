package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sharekit-app/sharekit-backend/api/controllers"
	"github.com/sharekit-app/sharekit-backend/api/middleware"
	"github.com/sharekit-app/sharekit-backend/internal/bookings"
	"github.com/sharekit-app/sharekit-backend/internal/items"
	"github.com/sharekit-app/sharekit-backend/internal/requests"
	"github.com/sharekit-app/sharekit-backend/internal/users"
	"github.com/sharekit-app/sharekit-backend/pkg/config"
	"github.com/sharekit-app/sharekit-backend/pkg/db"
	"github.com/sharekit-app/sharekit-backend/pkg/logger"
	"github.com/sharekit-app/sharekit-backend/pkg/metrics"
)

// Deps bundles everything the server router needs.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       *db.Client
	Metrics  *metrics.HTTPMetrics
	Registry *prometheus.Registry

	Users    users.Service
	Items    items.Service
	Bookings bookings.Service
	Requests requests.Service
}

// NewRouter wires the server tier. Identity is required on every domain
// route except user management and item search, which the original exposed
// without the sharer header.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(deps.Logger),
		middleware.RequestID(deps.Logger),
		middleware.Logging(deps.Logger),
		middleware.Metrics(deps.Metrics),
	)

	identity := middleware.Identity(deps.Logger)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(deps.Config))
		r.Get("/ready", controllers.HealthReady(deps.Config, deps.DB))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/users", func(r chi.Router) {
		r.Post("/", controllers.UserCreate(deps.Users, deps.Logger))
		r.Get("/", controllers.UserList(deps.Users, deps.Logger))
		r.Get("/{userId}", controllers.UserGet(deps.Users, deps.Logger))
		r.Patch("/{userId}", controllers.UserUpdate(deps.Users, deps.Logger))
		r.Delete("/{userId}", controllers.UserDelete(deps.Users, deps.Logger))
	})

	r.Route("/items", func(r chi.Router) {
		r.Get("/search", controllers.ItemSearch(deps.Items, deps.Logger))

		r.Group(func(r chi.Router) {
			r.Use(identity)
			r.Post("/", controllers.ItemCreate(deps.Items, deps.Logger))
			r.Get("/", controllers.ItemList(deps.Items, deps.Logger))
			r.Get("/{itemId}", controllers.ItemGet(deps.Items, deps.Logger))
			r.Patch("/{itemId}", controllers.ItemUpdate(deps.Items, deps.Logger))
			r.Post("/{itemId}/comment", controllers.ItemAddComment(deps.Items, deps.Logger))
		})
	})

	r.Route("/bookings", func(r chi.Router) {
		r.Use(identity)
		r.Post("/", controllers.BookingCreate(deps.Bookings, deps.Logger))
		r.Get("/", controllers.BookingListByBooker(deps.Bookings, deps.Logger))
		r.Get("/owner", controllers.BookingListByOwner(deps.Bookings, deps.Logger))
		r.Get("/{bookingId}", controllers.BookingGet(deps.Bookings, deps.Logger))
		r.Patch("/{bookingId}", controllers.BookingApprove(deps.Bookings, deps.Logger))
	})

	r.Route("/requests", func(r chi.Router) {
		r.Use(identity)
		r.Post("/", controllers.RequestCreate(deps.Requests, deps.Logger))
		r.Get("/", controllers.RequestListOwn(deps.Requests, deps.Logger))
		r.Get("/all", controllers.RequestListOthers(deps.Requests, deps.Logger))
		r.Get("/{requestId}", controllers.RequestGet(deps.Requests, deps.Logger))
	})

	return r
}
