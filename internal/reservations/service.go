package reservations

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/urbandrive/storefront/internal/session"
	"github.com/urbandrive/storefront/pkg/config"
	"github.com/urbandrive/storefront/pkg/enums"
	pkgerrors "github.com/urbandrive/storefront/pkg/errors"
	"github.com/urbandrive/storefront/pkg/gestion"
	"github.com/urbandrive/storefront/pkg/logger"
)

// bookingClient is the slice of the gestion client the listing and detail
// views need.
type bookingClient interface {
	GetReservation(ctx context.Context, reservationID int64) (gestion.Reservation, error)
	ListReservationsByUser(ctx context.Context, userID int64) ([]gestion.Reservation, error)
	ListReservations(ctx context.Context) ([]gestion.Reservation, error)
	ListPaymentsByReservation(ctx context.Context, reservationID int64) ([]gestion.Payment, error)
	ListInvoices(ctx context.Context) ([]gestion.Invoice, error)
}

// Service renders the reservation listing and detail. The primary fetch is
// authoritative; payment and invoice lookups only enrich the view and
// degrade silently when they fail.
type Service struct {
	bookings bookingClient
	taxRate  float64
	logg     *logger.Logger
}

// NewService wires the reservations service.
func NewService(bookings bookingClient, tax config.TaxConfig, logg *logger.Logger) (*Service, error) {
	if bookings == nil {
		return nil, fmt.Errorf("booking client is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Service{bookings: bookings, taxRate: tax.Rate, logg: logg}, nil
}

// ListForUser returns the logged-in user's reservations.
func (s *Service) ListForUser(ctx context.Context, userID int64) ([]gestion.Reservation, error) {
	return s.bookings.ListReservationsByUser(ctx, userID)
}

// ListAll returns every reservation, for the admin console.
func (s *Service) ListAll(ctx context.Context) ([]gestion.Reservation, error) {
	return s.bookings.ListReservations(ctx)
}

// Detail is the assembled reservation detail view.
type Detail struct {
	Reservation   gestion.Reservation
	Totals        Totals
	Status        enums.ReservationStatus
	CustomerName  string
	CustomerEmail string
	Payment       *session.PaymentInfo
	InvoiceURL    string
}

// Detail loads one reservation and enriches it with payment and invoice
// data. A Cancelada reservation comes back as a state-conflict error so the
// caller can flash and redirect. The session state is updated in place with
// whatever payment info got recovered.
func (s *Service) Detail(ctx context.Context, state *session.State, reservationID int64) (Detail, error) {
	reservation, err := s.bookings.GetReservation(ctx, reservationID)
	if err != nil {
		return Detail{}, err
	}

	payment := s.recoverPayment(ctx, state, reservationID)

	status := resolveStatus(reservation.Status, payment != nil)
	if status == enums.ReservationStatusCancelled {
		return Detail{}, pkgerrors.New(pkgerrors.CodeStateConflict, "Esta reserva ya está cancelada.")
	}

	detail := Detail{
		Reservation:   reservation,
		Totals:        ComputeTotals(reservation.Total, s.taxRate, reservation.StartDate, reservation.EndDate),
		Status:        status,
		CustomerName:  customerName(reservation, state),
		CustomerEmail: customerEmail(reservation, state),
		Payment:       payment,
	}
	detail.InvoiceURL = s.recoverInvoiceURL(ctx, state, reservationID, payment)
	return detail, nil
}

// recoverPayment returns the cached payment info or rebuilds it from the
// payments API, taking the last recorded entry. Lookup failures degrade.
func (s *Service) recoverPayment(ctx context.Context, state *session.State, reservationID int64) *session.PaymentInfo {
	if info, ok := state.PaymentFor(reservationID); ok {
		return &info
	}

	payments, err := s.bookings.ListPaymentsByReservation(ctx, reservationID)
	if err != nil {
		s.logg.Warn(ctx, "payment history lookup failed, detail renders without it")
		return nil
	}
	if len(payments) == 0 {
		return nil
	}

	last := payments[len(payments)-1]
	info := session.PaymentInfo{
		TransactionID:      last.ID,
		OriginAccount:      parseAccount(last.ExternalRef),
		DestinationAccount: parseAccount(last.MerchantAccount),
		Amount:             last.Amount,
		PaidAt:             last.PaidAt,
	}
	state.SetPayment(reservationID, info)
	return &info
}

// recoverInvoiceURL returns the cached document url or finds it in the
// invoice listing. Lookup failures degrade.
func (s *Service) recoverInvoiceURL(ctx context.Context, state *session.State, reservationID int64, payment *session.PaymentInfo) string {
	if payment != nil && payment.InvoiceURL != "" {
		return payment.InvoiceURL
	}

	invoices, err := s.bookings.ListInvoices(ctx)
	if err != nil {
		s.logg.Warn(ctx, "invoice lookup failed, detail renders without the document link")
		return ""
	}
	for _, invoice := range invoices {
		if invoice.ReservationID != reservationID || invoice.DocumentURL == "" {
			continue
		}
		info := session.PaymentInfo{}
		if payment != nil {
			info = *payment
		}
		info.InvoiceID = invoice.ID
		info.InvoiceURL = invoice.DocumentURL
		state.SetPayment(reservationID, info)
		return invoice.DocumentURL
	}
	return ""
}

// resolveStatus falls back to Confirmada when a payment exists and the
// upstream record carries no estado, Pendiente otherwise.
func resolveStatus(raw string, hasPayment bool) enums.ReservationStatus {
	if status, err := enums.ParseReservationStatus(raw); err == nil {
		return status
	}
	if hasPayment {
		return enums.ReservationStatusConfirmed
	}
	return enums.ReservationStatusPending
}

func customerName(reservation gestion.Reservation, state *session.State) string {
	if name := strings.TrimSpace(reservation.UserName); name != "" {
		return name
	}
	if state.LoggedIn() {
		return strings.TrimSpace(state.User.Name)
	}
	return ""
}

func customerEmail(reservation gestion.Reservation, state *session.State) string {
	if email := strings.TrimSpace(reservation.UserEmail); email != "" {
		return email
	}
	if state.LoggedIn() {
		return state.User.Email
	}
	return ""
}

func parseAccount(raw string) int64 {
	account, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0
	}
	return account
}
