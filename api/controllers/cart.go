package controllers

import (
	"net/http"

	"github.com/urbandrive/storefront/api/middleware"
	"github.com/urbandrive/storefront/api/responses"
	"github.com/urbandrive/storefront/api/validators"
	"github.com/urbandrive/storefront/api/views"
	cartsvc "github.com/urbandrive/storefront/internal/cart"
	pkgerrors "github.com/urbandrive/storefront/pkg/errors"
	"github.com/urbandrive/storefront/pkg/logger"
)

type cartPage struct {
	views.Base
	Cart  cartsvc.View
	Error string
}

// CartIndex renders the cart. A load failure shows the empty cart with an
// error line instead of a dead page.
func CartIndex(service *cartsvc.Service, sessions *middleware.Sessions, renderer *views.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := middleware.SessionState(r.Context())
		page := cartPage{Base: views.NewBase("Tu carrito", state)}

		view, err := service.Load(r.Context(), state)
		if err != nil {
			logg.Error(r.Context(), "cart load failed", err)
			page.Error = "No se pudo cargar tu carrito. Intenta nuevamente."
			renderer.Render(r.Context(), w, http.StatusInternalServerError, "cart", page)
			return
		}
		page.Cart = view

		// The load may have resolved the cart id into the session.
		if err := sessions.Save(r.Context(), w); err != nil {
			logg.Error(r.Context(), "session save failed after cart load", err)
		}

		renderer.Render(r.Context(), w, http.StatusOK, "cart", page)
	}
}

type addCartItemRequest struct {
	VehicleID int64  `json:"idVehiculo" validate:"required"`
	StartDate string `json:"fechaInicio" validate:"required"`
	EndDate   string `json:"fechaFin" validate:"required"`
}

// CartAdd is the fetch-style add endpoint. Responses always carry the
// ok/mensaje contract the storefront script renders inline.
func CartAdd(service *cartsvc.Service, sessions *middleware.Sessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := middleware.SessionState(r.Context())

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteJSON(w, http.StatusBadRequest, cartsvc.AddResult{
				Message: "Faltan datos obligatorios (vehiculo y fechas).",
			})
			return
		}

		result, err := service.Add(r.Context(), state, payload.VehicleID, payload.StartDate, payload.EndDate)
		if err != nil {
			message := "No se pudo agregar el vehiculo al carrito. Intentalo nuevamente."
			switch typed := pkgerrors.As(err); {
			case typed == nil:
			case typed.Code() == pkgerrors.CodeValidation:
				message = "Faltan datos obligatorios (vehiculo y fechas)."
			case typed.Code() == pkgerrors.CodeConflict:
				message = typed.Message()
			default:
				logg.Error(r.Context(), "cart add failed upstream", err)
			}
			responses.WriteJSON(w, http.StatusBadRequest, cartsvc.AddResult{Message: message})
			return
		}

		if err := sessions.Save(r.Context(), w); err != nil {
			logg.Error(r.Context(), "session save failed after cart add", err)
		}

		responses.WriteJSON(w, http.StatusOK, result)
	}
}

// CartRemoveItem drops one item and reloads the cart view.
func CartRemoveItem(service *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := routeID(r, "id")
		if err == nil {
			service.Remove(r.Context(), itemID)
		}
		http.Redirect(w, r, "/carrito", http.StatusFound)
	}
}

// CartCheckout turns every cart item into a Pendiente reservation and sends
// the user to the reservation list.
func CartCheckout(service *cartsvc.Service, sessions *middleware.Sessions, renderer *views.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := middleware.SessionState(r.Context())
		page := cartPage{Base: views.NewBase("Tu carrito", state)}

		if _, err := service.Checkout(r.Context(), state); err != nil {
			typed := pkgerrors.As(err)
			if typed != nil && typed.Code() == pkgerrors.CodeStateConflict {
				page.Error = "Tu carrito esta vacio."
				renderer.Render(r.Context(), w, http.StatusOK, "cart", page)
				return
			}
			logg.Error(r.Context(), "cart checkout failed", err)
			page.Error = "No se pudo generar la reserva."
			renderer.Render(r.Context(), w, http.StatusInternalServerError, "cart", page)
			return
		}

		if err := sessions.Save(r.Context(), w); err != nil {
			logg.Error(r.Context(), "session save failed after checkout", err)
		}

		http.Redirect(w, r, "/reservas", http.StatusFound)
	}
}
