package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/urbandrive/storefront/api/middleware"
	"github.com/urbandrive/storefront/api/views"
	vehiclesvc "github.com/urbandrive/storefront/internal/vehicles"
	"github.com/urbandrive/storefront/pkg/gestion"
	"github.com/urbandrive/storefront/pkg/logger"
)

type adminVehiclesPage struct {
	views.Base
	Vehicles []gestion.Vehicle
}

// AdminVehicles lists the fleet for the console.
func AdminVehicles(service *vehiclesvc.Service, renderer *views.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := middleware.SessionState(r.Context())

		fleet, err := service.Catalog(r.Context())
		if err != nil {
			renderHTMLError(r, w, renderer, logg, err)
			return
		}

		renderer.Render(r.Context(), w, http.StatusOK, "admin_vehicles", adminVehiclesPage{
			Base:     views.NewBase("Vehiculos", state),
			Vehicles: fleet,
		})
	}
}

type adminVehicleFormPage struct {
	views.Base
	EditID   int64
	Action   string
	Form     vehiclesvc.Form
	Support  vehiclesvc.FormSupport
	Problems []string
}

// AdminVehicleNew renders the empty registration form.
func AdminVehicleNew(service *vehiclesvc.Service, renderer *views.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := middleware.SessionState(r.Context())
		renderer.Render(r.Context(), w, http.StatusOK, "admin_vehicle_form", adminVehicleFormPage{
			Base:    views.NewBase("Registrar vehiculo", state),
			Action:  "/admin/vehiculos",
			Support: service.LoadFormSupport(r.Context()),
		})
	}
}

// AdminVehicleCreate registers a vehicle, re-rendering the form with the
// problem list on validation failure.
func AdminVehicleCreate(service *vehiclesvc.Service, renderer *views.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := middleware.SessionState(r.Context())
		form := vehicleFormFromRequest(r)

		if _, err := service.Create(r.Context(), form); err != nil {
			if problems := problemList(err); len(problems) > 0 {
				renderer.Render(r.Context(), w, http.StatusBadRequest, "admin_vehicle_form", adminVehicleFormPage{
					Base:     views.NewBase("Registrar vehiculo", state),
					Action:   "/admin/vehiculos",
					Form:     form,
					Support:  service.LoadFormSupport(r.Context()),
					Problems: problems,
				})
				return
			}
			renderHTMLError(r, w, renderer, logg, err)
			return
		}

		http.Redirect(w, r, "/admin/vehiculos", http.StatusFound)
	}
}

// AdminVehicleEdit loads the record into the form.
func AdminVehicleEdit(service *vehiclesvc.Service, renderer *views.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := middleware.SessionState(r.Context())

		vehicleID, err := routeID(r, "id")
		if err != nil {
			http.Redirect(w, r, "/admin/vehiculos", http.StatusFound)
			return
		}

		vehicle, err := service.Detail(r.Context(), vehicleID)
		if err != nil {
			renderHTMLError(r, w, renderer, logg, err)
			return
		}

		renderer.Render(r.Context(), w, http.StatusOK, "admin_vehicle_form", adminVehicleFormPage{
			Base:    views.NewBase("Editar vehiculo", state),
			EditID:  vehicleID,
			Action:  "/admin/vehiculos/" + strconv.FormatInt(vehicleID, 10),
			Form:    vehicleFormFromRecord(vehicle),
			Support: service.LoadFormSupport(r.Context()),
		})
	}
}

// AdminVehicleUpdate replaces the record.
func AdminVehicleUpdate(service *vehiclesvc.Service, renderer *views.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := middleware.SessionState(r.Context())

		vehicleID, err := routeID(r, "id")
		if err != nil {
			http.Redirect(w, r, "/admin/vehiculos", http.StatusFound)
			return
		}

		form := vehicleFormFromRequest(r)
		if err := service.Update(r.Context(), vehicleID, form); err != nil {
			if problems := problemList(err); len(problems) > 0 {
				renderer.Render(r.Context(), w, http.StatusBadRequest, "admin_vehicle_form", adminVehicleFormPage{
					Base:     views.NewBase("Editar vehiculo", state),
					EditID:   vehicleID,
					Action:   "/admin/vehiculos/" + strconv.FormatInt(vehicleID, 10),
					Form:     form,
					Support:  service.LoadFormSupport(r.Context()),
					Problems: problems,
				})
				return
			}
			renderHTMLError(r, w, renderer, logg, err)
			return
		}

		http.Redirect(w, r, "/admin/vehiculos", http.StatusFound)
	}
}

// AdminVehicleDelete removes the record.
func AdminVehicleDelete(service *vehiclesvc.Service, renderer *views.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vehicleID, err := routeID(r, "id")
		if err == nil {
			if err := service.Delete(r.Context(), vehicleID); err != nil {
				renderHTMLError(r, w, renderer, logg, err)
				return
			}
		}
		http.Redirect(w, r, "/admin/vehiculos", http.StatusFound)
	}
}

func vehicleFormFromRequest(r *http.Request) vehiclesvc.Form {
	_ = r.ParseForm()
	return vehiclesvc.Form{
		Brand:          r.PostFormValue("marca"),
		Model:          r.PostFormValue("modelo"),
		Year:           r.PostFormValue("anio"),
		CategoryID:     r.PostFormValue("categoria"),
		TransmissionID: transmissionID(r.PostFormValue("transmision")),
		Capacity:       r.PostFormValue("capacidad"),
		PricePerDay:    r.PostFormValue("precio"),
		BranchID:       r.PostFormValue("sucursal"),
		Status:         r.PostFormValue("estado"),
		ImageURL:       r.PostFormValue("imagen"),
		Description:    r.PostFormValue("descripcion"),
	}
}

func vehicleFormFromRecord(vehicle gestion.Vehicle) vehiclesvc.Form {
	return vehiclesvc.Form{
		Brand:          vehicle.Brand,
		Model:          vehicle.Model,
		Year:           strconv.Itoa(vehicle.Year),
		CategoryID:     strconv.FormatInt(vehicle.CategoryID, 10),
		TransmissionID: strconv.FormatInt(vehicle.TransmissionID, 10),
		Capacity:       strconv.Itoa(vehicle.Capacity),
		PricePerDay:    strconv.FormatFloat(vehicle.PricePerDay, 'f', 2, 64),
		BranchID:       strconv.FormatInt(vehicle.BranchID, 10),
		Status:         vehicle.Status,
		ImageURL:       vehicle.ImageURL,
		Description:    vehicle.Description,
	}
}

// transmissionID maps the select's stable codes onto the upstream numeric
// ids; a numeric value passes through untouched.
func transmissionID(value string) string {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "MT":
		return "1"
	case "AT":
		return "2"
	case "CVT":
		return "3"
	}
	return strings.TrimSpace(value)
}
