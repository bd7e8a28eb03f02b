package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/urbandrive/storefront/api/controllers"
	"github.com/urbandrive/storefront/api/middleware"
	"github.com/urbandrive/storefront/api/views"
	authsvc "github.com/urbandrive/storefront/internal/auth"
	cartsvc "github.com/urbandrive/storefront/internal/cart"
	paymentsvc "github.com/urbandrive/storefront/internal/payments"
	reservationsvc "github.com/urbandrive/storefront/internal/reservations"
	"github.com/urbandrive/storefront/internal/sagalog"
	usersvc "github.com/urbandrive/storefront/internal/users"
	vehiclesvc "github.com/urbandrive/storefront/internal/vehicles"
	"github.com/urbandrive/storefront/pkg/config"
	"github.com/urbandrive/storefront/pkg/gestion"
	"github.com/urbandrive/storefront/pkg/logger"
	"github.com/urbandrive/storefront/pkg/metrics"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type promotionLister interface {
	ListPromotions(ctx context.Context) ([]gestion.Promotion, error)
}

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Renderer *views.Renderer
	Sessions *middleware.Sessions

	DB    pinger
	Redis pinger

	Promotions promotionLister

	Auth         *authsvc.Service
	Vehicles     *vehiclesvc.Service
	Cart         *cartsvc.Service
	Reservations *reservationsvc.Service
	Payments     *paymentsvc.Service
	Users        *usersvc.Service
	SagaLog      *sagalog.Recorder

	HTTPMetrics *metrics.HTTPMetrics
	Registry    *prometheus.Registry
}

// NewRouter builds the storefront's route tree.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(deps.Logger),
		middleware.RequestID(deps.Logger),
		middleware.Logging(deps.Logger),
		middleware.Metrics(deps.HTTPMetrics),
		deps.Sessions.Loader,
	)

	r.Handle("/static/*", views.StaticHandler())

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(deps.Config))
		r.Get("/ready", controllers.HealthReady(deps.Config, deps.Logger, deps.DB, deps.Redis))
	})
	if deps.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Get("/", controllers.Home(deps.Vehicles, deps.Promotions, deps.Renderer, deps.Logger))
	r.Get("/vehiculos", controllers.VehiclesIndex(deps.Vehicles, deps.Renderer, deps.Logger))
	r.Get("/vehiculos/{id}", controllers.VehicleShow(deps.Vehicles, deps.Renderer, deps.Logger))

	r.Get("/login", controllers.LoginForm(deps.Renderer))
	r.Post("/login", controllers.LoginSubmit(deps.Auth, deps.Sessions, deps.Renderer, deps.Logger))
	r.Get("/registro", controllers.RegisterForm(deps.Renderer))
	r.Post("/registro", controllers.RegisterSubmit(deps.Auth, deps.Sessions, deps.Renderer, deps.Logger))
	r.Post("/logout", controllers.Logout(deps.Sessions))

	// The add endpoint answers JSON so the catalog script can react
	// without a page load; the rest of the cart is plain HTML.
	r.With(middleware.RequireUserJSON(deps.Logger)).
		Post("/carrito/agregar", controllers.CartAdd(deps.Cart, deps.Sessions, deps.Logger))

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser())

		r.Get("/carrito", controllers.CartIndex(deps.Cart, deps.Sessions, deps.Renderer, deps.Logger))
		r.Post("/carrito/item/{id}/eliminar", controllers.CartRemoveItem(deps.Cart, deps.Logger))
		r.Post("/carrito/generar-reserva", controllers.CartCheckout(deps.Cart, deps.Sessions, deps.Renderer, deps.Logger))

		r.Get("/reservas", controllers.ReservationsIndex(deps.Reservations, deps.Sessions, deps.Renderer, deps.Logger))
		r.Get("/reservas/{id}", controllers.ReservationShow(deps.Reservations, deps.Sessions, deps.Renderer, deps.Logger))
		r.Post("/reservas/{id}/pagar", controllers.ReservationPay(deps.Payments, deps.Reservations, deps.Sessions, deps.Renderer, deps.Logger))
		r.Post("/reservas/{id}/cancelar", controllers.ReservationCancel(deps.Payments, deps.Reservations, deps.Sessions, deps.Renderer, deps.Logger))
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireUser())
		r.Use(middleware.RequireAdmin(deps.Renderer))

		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			http.Redirect(w, req, "/admin/vehiculos", http.StatusFound)
		})

		r.Get("/vehiculos", controllers.AdminVehicles(deps.Vehicles, deps.Renderer, deps.Logger))
		r.Get("/vehiculos/nuevo", controllers.AdminVehicleNew(deps.Vehicles, deps.Renderer))
		r.Post("/vehiculos", controllers.AdminVehicleCreate(deps.Vehicles, deps.Renderer, deps.Logger))
		r.Get("/vehiculos/{id}/editar", controllers.AdminVehicleEdit(deps.Vehicles, deps.Renderer, deps.Logger))
		r.Post("/vehiculos/{id}", controllers.AdminVehicleUpdate(deps.Vehicles, deps.Renderer, deps.Logger))
		r.Post("/vehiculos/{id}/eliminar", controllers.AdminVehicleDelete(deps.Vehicles, deps.Renderer, deps.Logger))

		r.Get("/usuarios", controllers.AdminUsers(deps.Users, deps.Renderer, deps.Logger))
		r.Get("/usuarios/nuevo", controllers.AdminUserNew(deps.Renderer))
		r.Post("/usuarios", controllers.AdminUserCreate(deps.Users, deps.Renderer, deps.Logger))
		r.Get("/usuarios/{id}/editar", controllers.AdminUserEdit(deps.Users, deps.Renderer, deps.Logger))
		r.Post("/usuarios/{id}", controllers.AdminUserUpdate(deps.Users, deps.Renderer, deps.Logger))
		r.Post("/usuarios/{id}/eliminar", controllers.AdminUserDelete(deps.Users, deps.Renderer, deps.Logger))

		r.Get("/reservas", controllers.AdminReservations(deps.Reservations, deps.Renderer, deps.Logger))
		if deps.SagaLog != nil {
			r.Get("/reservas/{id}/flujos", controllers.AdminReservationRuns(deps.SagaLog, deps.Renderer, deps.Logger))
		}
	})

	return r
}
