package controllers

import (
	"net/http"
	"strconv"

	"github.com/urbandrive/storefront/api/middleware"
	"github.com/urbandrive/storefront/api/views"
	paymentsvc "github.com/urbandrive/storefront/internal/payments"
	reservationsvc "github.com/urbandrive/storefront/internal/reservations"
	pkgerrors "github.com/urbandrive/storefront/pkg/errors"
	"github.com/urbandrive/storefront/pkg/gestion"
	"github.com/urbandrive/storefront/pkg/logger"
)

type reservationsPage struct {
	views.Base
	Reservations []gestion.Reservation
}

// ReservationsIndex lists the user's reservations and consumes the one-shot
// flash left by the payment and cancellation flows.
func ReservationsIndex(service *reservationsvc.Service, sessions *middleware.Sessions, renderer *views.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := middleware.SessionState(r.Context())

		page := reservationsPage{Base: views.NewBase("Mis reservas", state)}
		if flash := state.PopFlash(); flash != "" {
			page.Flash = flash
			if err := sessions.Save(r.Context(), w); err != nil {
				logg.Error(r.Context(), "session save failed after flash pop", err)
			}
		}

		list, err := service.ListForUser(r.Context(), state.User.ID)
		if err != nil {
			renderHTMLError(r, w, renderer, logg, err)
			return
		}
		page.Reservations = list

		renderer.Render(r.Context(), w, http.StatusOK, "reservations_index", page)
	}
}

type reservationPage struct {
	views.Base
	Detail      reservationsvc.Detail
	InlineError string
	Cedula      string
	ShowPayForm bool
}

// ReservationShow renders one reservation. A Cancelada record flashes and
// bounces back to the list.
func ReservationShow(service *reservationsvc.Service, sessions *middleware.Sessions, renderer *views.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reservationID, err := routeID(r, "id")
		if err != nil {
			http.Redirect(w, r, "/reservas", http.StatusFound)
			return
		}
		renderReservationDetail(w, r, service, sessions, renderer, logg, reservationID, "", "")
	}
}

// renderReservationDetail is shared by the GET view and the failed POST
// flows that redisplay the page with an inline error.
func renderReservationDetail(
	w http.ResponseWriter,
	r *http.Request,
	service *reservationsvc.Service,
	sessions *middleware.Sessions,
	renderer *views.Renderer,
	logg *logger.Logger,
	reservationID int64,
	inlineError string,
	cedula string,
) {
	state := middleware.SessionState(r.Context())

	detail, err := service.Detail(r.Context(), state, reservationID)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeStateConflict {
			state.Flash = typed.Message()
			if serr := sessions.Save(r.Context(), w); serr != nil {
				logg.Error(r.Context(), "session save failed before redirect", serr)
			}
			http.Redirect(w, r, "/reservas", http.StatusFound)
			return
		}
		renderHTMLError(r, w, renderer, logg, err)
		return
	}

	base := views.NewBase("Reserva #"+strconv.FormatInt(reservationID, 10), state)
	base.Flash = state.PopFlash()

	// Payment recovery may have refreshed the cached summary, and the
	// flash is consumed either way.
	if err := sessions.Save(r.Context(), w); err != nil {
		logg.Error(r.Context(), "session save failed after detail load", err)
	}

	status := http.StatusOK
	if inlineError != "" {
		status = http.StatusBadRequest
	}
	renderer.Render(r.Context(), w, status, "reservation_show", reservationPage{
		Base:        base,
		Detail:      detail,
		InlineError: inlineError,
		Cedula:      cedula,
		ShowPayForm: detail.Payment == nil,
	})
}

// ReservationPay runs the checkout flow and renders the outcome: inline
// errors redisplay the detail, everything else flashes and redirects.
func ReservationPay(
	payments *paymentsvc.Service,
	details *reservationsvc.Service,
	sessions *middleware.Sessions,
	renderer *views.Renderer,
	logg *logger.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := middleware.SessionState(r.Context())

		reservationID, err := routeID(r, "id")
		if err != nil {
			http.Redirect(w, r, "/reservas", http.StatusFound)
			return
		}

		_ = r.ParseForm()
		cedula := r.PostFormValue("cedula")

		outcome, err := payments.Pay(r.Context(), state, reservationID, cedula)
		if err != nil {
			logg.Error(r.Context(), "payment flow failed before the transfer", err)
			state.Flash = "No se pudo completar el pago. Intenta nuevamente."
			if serr := sessions.Save(r.Context(), w); serr != nil {
				logg.Error(r.Context(), "session save failed after payment failure", serr)
			}
			http.Redirect(w, r, "/reservas", http.StatusFound)
			return
		}

		applyOutcome(w, r, outcome, details, sessions, renderer, logg, reservationID, cedula)
	}
}

// ReservationCancel runs the cancellation flow.
func ReservationCancel(
	payments *paymentsvc.Service,
	details *reservationsvc.Service,
	sessions *middleware.Sessions,
	renderer *views.Renderer,
	logg *logger.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := middleware.SessionState(r.Context())

		reservationID, err := routeID(r, "id")
		if err != nil {
			http.Redirect(w, r, "/reservas", http.StatusFound)
			return
		}

		outcome, err := payments.Cancel(r.Context(), state, reservationID)
		if err != nil {
			logg.Error(r.Context(), "cancellation flow failed", err)
			state.Flash = "No se pudo cancelar la reserva. Intenta nuevamente."
			if serr := sessions.Save(r.Context(), w); serr != nil {
				logg.Error(r.Context(), "session save failed after cancellation failure", serr)
			}
			http.Redirect(w, r, "/reservas", http.StatusFound)
			return
		}

		applyOutcome(w, r, outcome, details, sessions, renderer, logg, reservationID, "")
	}
}

// applyOutcome translates a flow outcome into HTTP: inline errors re-render
// the detail page, flashes go through the session and redirect.
func applyOutcome(
	w http.ResponseWriter,
	r *http.Request,
	outcome paymentsvc.Outcome,
	details *reservationsvc.Service,
	sessions *middleware.Sessions,
	renderer *views.Renderer,
	logg *logger.Logger,
	reservationID int64,
	cedula string,
) {
	state := middleware.SessionState(r.Context())

	if outcome.InlineError != "" {
		renderReservationDetail(w, r, details, sessions, renderer, logg, reservationID, outcome.InlineError, cedula)
		return
	}

	if outcome.Flash != "" {
		state.Flash = outcome.Flash
	}
	if err := sessions.Save(r.Context(), w); err != nil {
		logg.Error(r.Context(), "session save failed after flow outcome", err)
	}

	target := outcome.RedirectTo
	if target == "" {
		target = "/reservas"
	}
	http.Redirect(w, r, target, http.StatusFound)
}
