package controllers

import (
	"net/http"

	"github.com/urbandrive/storefront/api/middleware"
	"github.com/urbandrive/storefront/api/views"
	"github.com/urbandrive/storefront/internal/vehicles"
	pkgerrors "github.com/urbandrive/storefront/pkg/errors"
	"github.com/urbandrive/storefront/pkg/gestion"
	"github.com/urbandrive/storefront/pkg/logger"
)

type vehiclesPage struct {
	views.Base
	Vehicles []gestion.Vehicle
}

// VehiclesIndex renders the public catalog.
func VehiclesIndex(catalog *vehicles.Service, renderer *views.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := middleware.SessionState(r.Context())

		fleet, err := catalog.Catalog(r.Context())
		if err != nil {
			renderHTMLError(r, w, renderer, logg, err)
			return
		}

		renderer.Render(r.Context(), w, http.StatusOK, "vehicles_index", vehiclesPage{
			Base:     views.NewBase("Vehiculos", state),
			Vehicles: fleet,
		})
	}
}

type vehiclePage struct {
	views.Base
	Vehicle gestion.Vehicle
}

// VehicleShow renders one vehicle with the add-to-cart form.
func VehicleShow(catalog *vehicles.Service, renderer *views.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := middleware.SessionState(r.Context())

		vehicleID, err := routeID(r, "id")
		if err != nil {
			renderHTMLError(r, w, renderer, logg, err)
			return
		}

		vehicle, err := catalog.Detail(r.Context(), vehicleID)
		if err != nil {
			renderHTMLError(r, w, renderer, logg, err)
			return
		}

		renderer.Render(r.Context(), w, http.StatusOK, "vehicle_show", vehiclePage{
			Base:    views.NewBase(vehicle.Brand+" "+vehicle.Model, state),
			Vehicle: vehicle,
		})
	}
}

type errorPage struct {
	views.Base
	Heading string
	Message string
}

// renderHTMLError maps a coded error onto the error page. Public wording
// stays generic; the full chain goes to the log.
func renderHTMLError(r *http.Request, w http.ResponseWriter, renderer *views.Renderer, logg *logger.Logger, err error) {
	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}
	meta := pkgerrors.MetadataFor(typed.Code())

	message := "Algo salio mal. Intenta nuevamente."
	switch typed.Code() {
	case pkgerrors.CodeNotFound:
		message = "No encontramos lo que buscabas."
	case pkgerrors.CodeDependency:
		message = "No pudimos comunicarnos con el servicio. Intenta mas tarde."
	}

	logg.Error(r.Context(), "page render failed", err)

	sess := middleware.SessionState(r.Context())
	renderer.Render(r.Context(), w, meta.HTTPStatus, "error", errorPage{
		Base:    views.NewBase("Error", sess),
		Heading: "Lo sentimos",
		Message: message,
	})
}
