package reservations

import (
	"context"
	"fmt"
	"testing"

	"github.com/urbandrive/storefront/internal/session"
	"github.com/urbandrive/storefront/pkg/config"
	"github.com/urbandrive/storefront/pkg/enums"
	pkgerrors "github.com/urbandrive/storefront/pkg/errors"
	"github.com/urbandrive/storefront/pkg/gestion"
	"github.com/urbandrive/storefront/pkg/logger"
)

type bookingStub struct {
	reservation    gestion.Reservation
	reservationErr error
	payments       []gestion.Payment
	paymentsErr    error
	invoices       []gestion.Invoice
	invoicesErr    error

	paymentCalls int
	invoiceCalls int
}

func (b *bookingStub) GetReservation(ctx context.Context, reservationID int64) (gestion.Reservation, error) {
	return b.reservation, b.reservationErr
}

func (b *bookingStub) ListReservationsByUser(ctx context.Context, userID int64) ([]gestion.Reservation, error) {
	return []gestion.Reservation{b.reservation}, nil
}

func (b *bookingStub) ListReservations(ctx context.Context) ([]gestion.Reservation, error) {
	return []gestion.Reservation{b.reservation}, nil
}

func (b *bookingStub) ListPaymentsByReservation(ctx context.Context, reservationID int64) ([]gestion.Payment, error) {
	b.paymentCalls++
	return b.payments, b.paymentsErr
}

func (b *bookingStub) ListInvoices(ctx context.Context) ([]gestion.Invoice, error) {
	b.invoiceCalls++
	return b.invoices, b.invoicesErr
}

func newTestService(t *testing.T, stub *bookingStub) *Service {
	t.Helper()
	service, err := NewService(stub, config.TaxConfig{Rate: 0.08875}, logger.New(logger.Options{Level: logger.ParseLevel("error")}))
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return service
}

func TestComputeTotals(t *testing.T) {
	cases := []struct {
		name           string
		subtotal, rate float64
		start, end     string
		tax, total     float64
		days           int
		perDay         float64
	}{
		{"ny rate", 100, 0.08875, "2026-03-10", "2026-03-12", 8.88, 108.88, 2, 50},
		{"ec rate", 200, 0.12, "2026-03-10", "2026-03-14", 24, 224, 4, 50},
		{"zero subtotal", 0, 0.08875, "2026-03-10", "2026-03-11", 0, 0, 1, 0},
		{"same day counts as one", 90, 0.12, "2026-03-10", "2026-03-10", 10.8, 100.8, 1, 90},
		{"timestamps truncated", 120, 0.12, "2026-03-10T00:00:00Z", "2026-03-13T09:00:00Z", 14.4, 134.4, 3, 40},
		{"unparseable dates default", 75, 0.12, "", "pronto", 9, 84, 1, 75},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			totals := ComputeTotals(tc.subtotal, tc.rate, tc.start, tc.end)
			if totals.Tax != tc.tax {
				t.Fatalf("tax = %v, want %v", totals.Tax, tc.tax)
			}
			if totals.Total != tc.total {
				t.Fatalf("total = %v, want %v", totals.Total, tc.total)
			}
			if totals.Days != tc.days {
				t.Fatalf("days = %d, want %d", totals.Days, tc.days)
			}
			if totals.PricePerDay != tc.perDay {
				t.Fatalf("perDay = %v, want %v", totals.PricePerDay, tc.perDay)
			}
		})
	}
}

func TestTotalIsSubtotalPlusRoundedTax(t *testing.T) {
	for _, subtotal := range []float64{0, 1, 37.5, 100, 999.99} {
		totals := ComputeTotals(subtotal, 0.08875, "2026-03-10", "2026-03-12")
		if totals.Total != totals.Subtotal+totals.Tax {
			t.Fatalf("subtotal %v: total %v != %v + %v", subtotal, totals.Total, totals.Subtotal, totals.Tax)
		}
	}
}

func pendingReservation() gestion.Reservation {
	return gestion.Reservation{
		ID:        7,
		UserID:    5,
		VehicleID: 3,
		StartDate: "2026-03-10",
		EndDate:   "2026-03-12",
		Total:     100,
		Status:    "Pendiente",
	}
}

func TestDetailAssemblesTotalsAndStatus(t *testing.T) {
	stub := &bookingStub{reservation: pendingReservation()}
	service := newTestService(t, stub)
	state := &session.State{User: &session.UserSummary{ID: 5, Name: "Ana Loor", Email: "ana@example.com"}}

	detail, err := service.Detail(context.Background(), state, 7)
	if err != nil {
		t.Fatalf("Detail returned error: %v", err)
	}
	if detail.Status != enums.ReservationStatusPending {
		t.Fatalf("expected Pendiente, got %v", detail.Status)
	}
	if detail.Totals.Total != 108.88 {
		t.Fatalf("unexpected total %v", detail.Totals.Total)
	}
	if detail.CustomerName != "Ana Loor" || detail.CustomerEmail != "ana@example.com" {
		t.Fatalf("expected session fallback for customer, got %q %q", detail.CustomerName, detail.CustomerEmail)
	}
}

func TestDetailCancelledReturnsStateConflict(t *testing.T) {
	reservation := pendingReservation()
	reservation.Status = "Cancelada"
	service := newTestService(t, &bookingStub{reservation: reservation})

	_, err := service.Detail(context.Background(), &session.State{}, 7)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestDetailRecoversPaymentFromAPIAndCaches(t *testing.T) {
	reservation := pendingReservation()
	reservation.Status = "Confirmada"
	stub := &bookingStub{
		reservation: reservation,
		payments: []gestion.Payment{
			{ID: 1, ReservationID: 7, Amount: 50, ExternalRef: "111"},
			{ID: 2, ReservationID: 7, Amount: 108.88, ExternalRef: "222", MerchantAccount: "900", PaidAt: "2026-03-01T10:00:00Z"},
		},
	}
	service := newTestService(t, stub)
	state := &session.State{}

	detail, err := service.Detail(context.Background(), state, 7)
	if err != nil {
		t.Fatalf("Detail returned error: %v", err)
	}
	if detail.Payment == nil {
		t.Fatal("expected recovered payment")
	}
	if detail.Payment.TransactionID != 2 || detail.Payment.OriginAccount != 222 {
		t.Fatalf("expected the last payment, got %+v", detail.Payment)
	}
	if _, ok := state.PaymentFor(7); !ok {
		t.Fatal("expected payment cached into the session")
	}

	// Second call must hit the cache, not the API.
	if _, err := service.Detail(context.Background(), state, 7); err != nil {
		t.Fatalf("second Detail returned error: %v", err)
	}
	if stub.paymentCalls != 1 {
		t.Fatalf("expected one payment lookup, got %d", stub.paymentCalls)
	}
}

func TestDetailPaymentLookupFailureDegrades(t *testing.T) {
	stub := &bookingStub{
		reservation: pendingReservation(),
		paymentsErr: fmt.Errorf("pagos down"),
		invoicesErr: fmt.Errorf("facturas down"),
	}
	service := newTestService(t, stub)

	detail, err := service.Detail(context.Background(), &session.State{}, 7)
	if err != nil {
		t.Fatalf("secondary failures must not block the detail: %v", err)
	}
	if detail.Payment != nil || detail.InvoiceURL != "" {
		t.Fatalf("expected bare detail, got %+v", detail)
	}
}

func TestDetailFindsInvoiceURLInListing(t *testing.T) {
	reservation := pendingReservation()
	reservation.Status = "Confirmada"
	stub := &bookingStub{
		reservation: reservation,
		invoices: []gestion.Invoice{
			{ID: 1, ReservationID: 6, DocumentURL: "https://docs.example.com/f1.pdf"},
			{ID: 2, ReservationID: 7, DocumentURL: "https://docs.example.com/f2.pdf"},
		},
	}
	service := newTestService(t, stub)
	state := &session.State{}

	detail, err := service.Detail(context.Background(), state, 7)
	if err != nil {
		t.Fatalf("Detail returned error: %v", err)
	}
	if detail.InvoiceURL != "https://docs.example.com/f2.pdf" {
		t.Fatalf("unexpected invoice url %q", detail.InvoiceURL)
	}
	info, ok := state.PaymentFor(7)
	if !ok || info.InvoiceID != 2 {
		t.Fatalf("expected invoice cached into the session, got %+v", info)
	}
}

func TestDetailMissingEstadoFallsBackByPayment(t *testing.T) {
	reservation := pendingReservation()
	reservation.Status = ""
	stub := &bookingStub{
		reservation: reservation,
		payments:    []gestion.Payment{{ID: 9, ReservationID: 7, Amount: 108.88, ExternalRef: "222"}},
	}
	service := newTestService(t, stub)

	detail, err := service.Detail(context.Background(), &session.State{}, 7)
	if err != nil {
		t.Fatalf("Detail returned error: %v", err)
	}
	if detail.Status != enums.ReservationStatusConfirmed {
		t.Fatalf("expected Confirmada fallback, got %v", detail.Status)
	}
}
