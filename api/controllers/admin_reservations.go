package controllers

import (
	"net/http"

	"github.com/urbandrive/storefront/api/middleware"
	"github.com/urbandrive/storefront/api/views"
	reservationsvc "github.com/urbandrive/storefront/internal/reservations"
	"github.com/urbandrive/storefront/internal/sagalog"
	"github.com/urbandrive/storefront/pkg/gestion"
	"github.com/urbandrive/storefront/pkg/logger"
)

type adminReservationsPage struct {
	views.Base
	Reservations []gestion.Reservation
}

// AdminReservations lists every reservation in the system.
func AdminReservations(service *reservationsvc.Service, renderer *views.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := middleware.SessionState(r.Context())

		list, err := service.ListAll(r.Context())
		if err != nil {
			renderHTMLError(r, w, renderer, logg, err)
			return
		}

		renderer.Render(r.Context(), w, http.StatusOK, "admin_reservations", adminReservationsPage{
			Base:         views.NewBase("Reservas", state),
			Reservations: list,
		})
	}
}

type runWithSteps struct {
	Run   sagalog.Run
	Steps []sagalog.Step
}

type adminRunsPage struct {
	views.Base
	ReservationID int64
	Runs          []runWithSteps
}

// AdminReservationRuns shows the recorded checkout and cancellation runs
// for one reservation, steps included, so partial failures can be audited.
func AdminReservationRuns(recorder *sagalog.Recorder, renderer *views.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := middleware.SessionState(r.Context())

		reservationID, err := routeID(r, "id")
		if err != nil {
			http.Redirect(w, r, "/admin/reservas", http.StatusFound)
			return
		}

		runs, steps, err := recorder.RunsForReservation(r.Context(), reservationID)
		if err != nil {
			renderHTMLError(r, w, renderer, logg, err)
			return
		}

		page := adminRunsPage{
			Base:          views.NewBase("Flujos de la reserva", state),
			ReservationID: reservationID,
		}
		for _, run := range runs {
			page.Runs = append(page.Runs, runWithSteps{Run: run, Steps: steps[run.ID]})
		}

		renderer.Render(r.Context(), w, http.StatusOK, "admin_runs", page)
	}
}
