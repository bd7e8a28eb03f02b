package payments

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/urbandrive/storefront/internal/reservations"
	"github.com/urbandrive/storefront/internal/sagalog"
	"github.com/urbandrive/storefront/internal/session"
	"github.com/urbandrive/storefront/pkg/banco"
	"github.com/urbandrive/storefront/pkg/config"
	"github.com/urbandrive/storefront/pkg/enums"
	pkgerrors "github.com/urbandrive/storefront/pkg/errors"
	"github.com/urbandrive/storefront/pkg/gestion"
	"github.com/urbandrive/storefront/pkg/logger"
	"github.com/urbandrive/storefront/pkg/metrics"
	"github.com/urbandrive/storefront/pkg/outbox"
)

// bookingGateway is the slice of the gestion client the saga needs.
type bookingGateway interface {
	GetReservation(ctx context.Context, reservationID int64) (gestion.Reservation, error)
	UpdateReservationStatus(ctx context.Context, reservationID int64, status string) error
	RecordPayment(ctx context.Context, params gestion.RecordPaymentParams) (gestion.PaymentResult, error)
	CreateInvoice(ctx context.Context, params gestion.CreateInvoiceParams) (int64, error)
	GetInvoice(ctx context.Context, invoiceID int64) (gestion.Invoice, error)
	ListPaymentsByReservation(ctx context.Context, reservationID int64) ([]gestion.Payment, error)
}

// bankGateway is the slice of the banco client the saga needs.
type bankGateway interface {
	AccountsByHolder(ctx context.Context, legalID string) ([]banco.Account, error)
	MerchantAccounts(ctx context.Context) ([]banco.Account, error)
	CreateTransfer(ctx context.Context, params banco.TransferParams) (banco.Transfer, error)
}

// stepRecorder opens a persisted run; the returned handle is nil-safe.
type stepRecorder interface {
	Begin(ctx context.Context, kind enums.SagaKind, reservationID, userID int64) *sagalog.RunHandle
}

// eventEmitter stages a domain event inside the given transaction.
type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service orchestrates the checkout and cancellation flows across the
// gestion API, the bank and the local operational store. There is no 2PC:
// the bank transfer is the point of no return, everything after it is
// best-effort and recorded for inspection.
type Service struct {
	bookings bookingGateway
	bank     bankGateway
	recorder stepRecorder
	events   eventEmitter
	db       *gorm.DB
	checkout *metrics.CheckoutMetrics
	taxRate  float64
	logg     *logger.Logger
	now      func() time.Time
}

// NewService wires the saga. Recorder, events, db and checkout metrics are
// optional; the flows run without them.
func NewService(
	bookings bookingGateway,
	bank bankGateway,
	recorder stepRecorder,
	events eventEmitter,
	db *gorm.DB,
	checkout *metrics.CheckoutMetrics,
	tax config.TaxConfig,
	logg *logger.Logger,
) (*Service, error) {
	if bookings == nil {
		return nil, fmt.Errorf("booking gateway is required")
	}
	if bank == nil {
		return nil, fmt.Errorf("bank gateway is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Service{
		bookings: bookings,
		bank:     bank,
		recorder: recorder,
		events:   events,
		db:       db,
		checkout: checkout,
		taxRate:  tax.Rate,
		logg:     logg,
		now:      time.Now,
	}, nil
}

// Outcome is the user-facing result of a flow. A non-empty InlineError
// means the detail view is redisplayed with the message; otherwise Flash
// is stored in the session and the browser goes to RedirectTo.
type Outcome struct {
	Flash       string
	RedirectTo  string
	InlineError string
}

// Pay charges a reservation: bank transfer first, then the best-effort
// trio of payment record, status flip and invoice. Aborts before the
// transfer leave no external state behind.
func (s *Service) Pay(ctx context.Context, state *session.State, reservationID int64, cedula string) (Outcome, error) {
	start := time.Now()
	defer func() { s.checkout.ObserveDuration("checkout", time.Since(start)) }()

	ctx = s.logg.WithReservationID(ctx, strconv.FormatInt(reservationID, 10))

	reservation, err := s.bookings.GetReservation(ctx, reservationID)
	if err != nil {
		s.checkout.IncOutcome("checkout", "fetch_failed")
		return Outcome{}, err
	}

	run := s.beginRun(ctx, enums.SagaKindCheckout, reservationID, sessionUserID(state))
	run.OK(ctx, "fetch_reservation")

	if status, serr := enums.ParseReservationStatus(reservation.Status); serr == nil && status == enums.ReservationStatusCancelled {
		run.Skipped(ctx, "payment", "reservation already cancelled")
		run.Finish(ctx, enums.SagaRunStatusAborted, "reservation already cancelled")
		s.checkout.IncOutcome("checkout", "refused")
		return Outcome{
			Flash:      "Esta reserva está cancelada, no se puede realizar el pago.",
			RedirectTo: "/reservas",
		}, nil
	}

	if strings.TrimSpace(cedula) == "" {
		run.Skipped(ctx, "payer_accounts", "missing legal id")
		run.Finish(ctx, enums.SagaRunStatusAborted, "missing legal id")
		s.checkout.IncOutcome("checkout", "refused")
		return Outcome{InlineError: "Ingresa tu número de cédula para realizar el pago."}, nil
	}
	cedula = strings.TrimSpace(cedula)

	totals := reservations.ComputeTotals(reservation.Total, s.taxRate, reservation.StartDate, reservation.EndDate)

	payerAccounts, err := s.bank.AccountsByHolder(ctx, cedula)
	if err != nil || len(payerAccounts) == 0 {
		run.Failed(ctx, "payer_accounts", orMessage(err, "holder has no accounts"))
		run.Finish(ctx, enums.SagaRunStatusAborted, "payer account lookup failed")
		s.checkout.IncOutcome("checkout", "aborted")
		return Outcome{InlineError: "No se encontró ninguna cuenta. Contáctese con el soporte de su banco."}, nil
	}
	run.OK(ctx, "payer_accounts")
	originAccount := payerAccounts[0].AccountID

	merchantAccounts, err := s.bank.MerchantAccounts(ctx)
	if err != nil || len(merchantAccounts) == 0 {
		run.Failed(ctx, "merchant_accounts", orMessage(err, "merchant has no accounts"))
		run.Finish(ctx, enums.SagaRunStatusAborted, "merchant account lookup failed")
		s.checkout.IncOutcome("checkout", "aborted")
		return Outcome{InlineError: "No se encontró la cuenta de la empresa en MiBanca."}, nil
	}
	run.OK(ctx, "merchant_accounts")
	destinationAccount := merchantAccounts[0].AccountID

	transfer, err := s.bank.CreateTransfer(ctx, banco.TransferParams{
		OriginAccount:      originAccount,
		DestinationAccount: destinationAccount,
		Amount:             totals.Total,
		Memo:               fmt.Sprintf("Pago reserva UrbanDrive #%d", reservationID),
	})
	if err != nil {
		run.Failed(ctx, "bank_transfer", err)
		run.Finish(ctx, enums.SagaRunStatusAborted, "bank transfer failed")
		s.checkout.IncOutcome("checkout", "aborted")
		return Outcome{InlineError: "No se pudo completar el pago. Intenta nuevamente."}, nil
	}
	run.OK(ctx, "bank_transfer")

	// Money has moved. From here on, failures degrade but never undo.
	var soft error

	if _, perr := s.bookings.RecordPayment(ctx, gestion.RecordPaymentParams{
		ReservationID: reservationID,
		Method:        "Transaccion",
		Amount:        totals.Total,
		ExternalRef:   strconv.FormatInt(originAccount, 10),
		Status:        string(enums.PaymentStatusSuccessful),
	}); perr != nil {
		soft = multierr.Append(soft, fmt.Errorf("record payment: %w", perr))
		run.Failed(ctx, "record_payment", perr)
		s.checkout.IncSoftFailure("checkout", "record_payment")
	} else {
		run.OK(ctx, "record_payment")
	}

	if serr := s.bookings.UpdateReservationStatus(ctx, reservationID, string(enums.ReservationStatusConfirmed)); serr != nil {
		soft = multierr.Append(soft, fmt.Errorf("confirm reservation: %w", serr))
		run.Failed(ctx, "confirm_reservation", serr)
		s.checkout.IncSoftFailure("checkout", "confirm_reservation")
	} else {
		run.OK(ctx, "confirm_reservation")
	}

	var invoiceID int64
	var invoiceURL string
	invoiceID, ierr := s.bookings.CreateInvoice(ctx, gestion.CreateInvoiceParams{
		InvoiceID:     0,
		ReservationID: reservationID,
		UserID:        sessionUserID(state),
		DocumentURL:   nil,
		IssuedAt:      s.now().UTC().Format(time.RFC3339),
		Total:         totals.Total,
		Description:   fmt.Sprintf("Factura reserva #%d - UrbanDrive NY", reservationID),
	})
	if ierr != nil {
		soft = multierr.Append(soft, fmt.Errorf("create invoice: %w", ierr))
		run.Failed(ctx, "create_invoice", ierr)
		s.checkout.IncSoftFailure("checkout", "create_invoice")
	} else {
		run.OK(ctx, "create_invoice")
		if invoiceID != 0 {
			if invoice, gerr := s.bookings.GetInvoice(ctx, invoiceID); gerr == nil {
				invoiceURL = invoice.DocumentURL
			} else {
				s.logg.Warn(ctx, "invoice readback failed, detail falls back to the listing")
			}
		}
	}

	paidAt := transfer.CreatedAt
	if paidAt == "" {
		paidAt = s.now().UTC().Format(time.RFC3339)
	}
	state.SetPayment(reservationID, session.PaymentInfo{
		TransactionID:      transfer.TransactionID,
		OriginAccount:      originAccount,
		DestinationAccount: destinationAccount,
		Amount:             totals.Total,
		PaidAt:             paidAt,
		LegalID:            cedula,
		InvoiceID:          invoiceID,
		InvoiceURL:         invoiceURL,
	})

	s.publish(ctx, state, outbox.DomainEvent{
		EventType:     enums.OutboxEventReservationPaid,
		ReservationID: reservationID,
		Data: map[string]any{
			"amount":        totals.Total,
			"transactionId": transfer.TransactionID,
			"invoiceId":     invoiceID,
		},
		Version: 1,
	})

	if soft != nil {
		s.logg.Error(ctx, "checkout finished with degraded steps", soft)
		run.Finish(ctx, enums.SagaRunStatusDegraded, soft.Error())
		s.checkout.IncOutcome("checkout", "degraded")
	} else {
		run.Finish(ctx, enums.SagaRunStatusSucceeded, "")
		s.checkout.IncOutcome("checkout", "succeeded")
	}

	return Outcome{
		Flash:      "Pago realizado correctamente en MiBanca.",
		RedirectTo: "/reservas",
	}, nil
}

// Cancel releases a reservation. Pendiente cancels directly with zero bank
// calls. Confirmada refunds the last recorded payment first and only flips
// the state after the bank explicitly confirmed the refund.
func (s *Service) Cancel(ctx context.Context, state *session.State, reservationID int64) (Outcome, error) {
	start := time.Now()
	defer func() { s.checkout.ObserveDuration("cancellation", time.Since(start)) }()

	ctx = s.logg.WithReservationID(ctx, strconv.FormatInt(reservationID, 10))

	reservation, err := s.bookings.GetReservation(ctx, reservationID)
	if err != nil {
		s.checkout.IncOutcome("cancellation", "fetch_failed")
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return Outcome{Flash: "No se encontró la reserva.", RedirectTo: "/reservas"}, nil
		}
		return Outcome{Flash: "No se pudo cancelar la reserva. Intenta nuevamente.", RedirectTo: "/reservas"}, nil
	}

	run := s.beginRun(ctx, enums.SagaKindCancellation, reservationID, sessionUserID(state))
	run.OK(ctx, "fetch_reservation")

	status, serr := enums.ParseReservationStatus(reservation.Status)
	if serr != nil {
		run.Skipped(ctx, "cancel", "unknown estado "+reservation.Status)
		run.Finish(ctx, enums.SagaRunStatusAborted, "unknown estado")
		s.checkout.IncOutcome("cancellation", "refused")
		return Outcome{Flash: "Solo se pueden cancelar reservas Pendientes o Confirmadas.", RedirectTo: "/reservas"}, nil
	}

	switch status {
	case enums.ReservationStatusCancelled:
		run.Skipped(ctx, "cancel", "already cancelled")
		run.Finish(ctx, enums.SagaRunStatusAborted, "already cancelled")
		s.checkout.IncOutcome("cancellation", "noop")
		return Outcome{Flash: "La reserva ya está cancelada.", RedirectTo: "/reservas"}, nil

	case enums.ReservationStatusPending:
		return s.cancelPending(ctx, state, run, reservationID), nil

	default:
		return s.cancelConfirmed(ctx, state, run, reservationID), nil
	}
}

func (s *Service) cancelPending(ctx context.Context, state *session.State, run *sagalog.RunHandle, reservationID int64) Outcome {
	if err := s.bookings.UpdateReservationStatus(ctx, reservationID, string(enums.ReservationStatusCancelled)); err != nil {
		run.Failed(ctx, "cancel_reservation", err)
		run.Finish(ctx, enums.SagaRunStatusAborted, "status update failed")
		s.checkout.IncOutcome("cancellation", "aborted")
		return Outcome{Flash: "No se pudo cancelar la reserva. Intenta nuevamente.", RedirectTo: "/reservas"}
	}
	run.OK(ctx, "cancel_reservation")

	s.publish(ctx, state, outbox.DomainEvent{
		EventType:     enums.OutboxEventReservationCancelled,
		ReservationID: reservationID,
		Data:          map[string]any{"refunded": false},
		Version:       1,
	})

	run.Finish(ctx, enums.SagaRunStatusSucceeded, "")
	s.checkout.IncOutcome("cancellation", "succeeded")
	return Outcome{Flash: "Reserva cancelada correctamente.", RedirectTo: "/reservas"}
}

func (s *Service) cancelConfirmed(ctx context.Context, state *session.State, run *sagalog.RunHandle, reservationID int64) Outcome {
	detailPath := fmt.Sprintf("/reservas/%d", reservationID)

	payments, err := s.bookings.ListPaymentsByReservation(ctx, reservationID)
	if err != nil || len(payments) == 0 {
		run.Failed(ctx, "payment_history", orMessage(err, "no recorded payments"))
		run.Finish(ctx, enums.SagaRunStatusAborted, "no refundable payment")
		s.checkout.IncOutcome("cancellation", "aborted")
		return Outcome{
			Flash:      "No se encontró ningún pago para esta reserva. No se puede hacer reembolso.",
			RedirectTo: "/reservas",
		}
	}
	run.OK(ctx, "payment_history")

	last := payments[len(payments)-1]
	clientAccount := parseAccount(last.ExternalRef)
	amount := last.Amount
	if clientAccount == 0 || amount == 0 {
		run.Failed(ctx, "refund_source", fmt.Errorf("payment %d misses account or amount", last.ID))
		run.Finish(ctx, enums.SagaRunStatusAborted, "unusable payment record")
		s.checkout.IncOutcome("cancellation", "aborted")
		return Outcome{
			Flash:      "No se pudo determinar la información del pago. No se realizó el reembolso.",
			RedirectTo: "/reservas",
		}
	}

	merchantAccounts, err := s.bank.MerchantAccounts(ctx)
	if err != nil {
		run.Failed(ctx, "merchant_accounts", err)
		run.Finish(ctx, enums.SagaRunStatusAborted, "merchant account lookup failed")
		s.checkout.IncOutcome("cancellation", "aborted")
		return Outcome{
			Flash:      "No se pudo obtener la cuenta de la empresa. No se realizó el reembolso.",
			RedirectTo: "/reservas",
		}
	}
	if len(merchantAccounts) == 0 {
		run.Failed(ctx, "merchant_accounts", fmt.Errorf("merchant has no accounts"))
		run.Finish(ctx, enums.SagaRunStatusAborted, "merchant has no accounts")
		s.checkout.IncOutcome("cancellation", "aborted")
		return Outcome{
			Flash:      "No se encontró la cuenta de la empresa para hacer el reembolso.",
			RedirectTo: "/reservas",
		}
	}
	run.OK(ctx, "merchant_accounts")

	transfer, err := s.bank.CreateTransfer(ctx, banco.TransferParams{
		OriginAccount:      merchantAccounts[0].AccountID,
		DestinationAccount: clientAccount,
		Amount:             amount,
		Memo:               fmt.Sprintf("Reembolso reserva UrbanDrive #%d", reservationID),
	})
	if err != nil || !transfer.Confirmed() {
		run.Failed(ctx, "refund_transfer", orMessage(err, "bank did not confirm the refund"))
		run.Finish(ctx, enums.SagaRunStatusAborted, "refund not confirmed")
		s.checkout.IncOutcome("cancellation", "refund_failed")
		return Outcome{
			Flash:      "No se pudo realizar el reembolso. La reserva sigue activa.",
			RedirectTo: detailPath,
		}
	}
	run.OK(ctx, "refund_transfer")

	if err := s.bookings.UpdateReservationStatus(ctx, reservationID, string(enums.ReservationStatusCancelled)); err != nil {
		run.Failed(ctx, "cancel_reservation", err)
		run.Finish(ctx, enums.SagaRunStatusDegraded, "refunded but not cancelled")
		s.checkout.IncSoftFailure("cancellation", "cancel_reservation")
		s.checkout.IncOutcome("cancellation", "degraded")
		s.logg.Error(ctx, "refund done but reservation still confirmed", err)
		return Outcome{
			Flash:      "Se realizó el reembolso, pero no se pudo cancelar la reserva. Revisa con soporte.",
			RedirectTo: detailPath,
		}
	}
	run.OK(ctx, "cancel_reservation")

	s.publish(ctx, state, outbox.DomainEvent{
		EventType:     enums.OutboxEventReservationCancelled,
		ReservationID: reservationID,
		Data: map[string]any{
			"refunded":      true,
			"amount":        amount,
			"transactionId": transfer.TransactionID,
		},
		Version: 1,
	})

	run.Finish(ctx, enums.SagaRunStatusSucceeded, "")
	s.checkout.IncOutcome("cancellation", "succeeded")
	return Outcome{
		Flash:      "Reserva cancelada y reembolso realizado correctamente.",
		RedirectTo: "/reservas",
	}
}

func (s *Service) beginRun(ctx context.Context, kind enums.SagaKind, reservationID, userID int64) *sagalog.RunHandle {
	if s.recorder == nil {
		return nil
	}
	return s.recorder.Begin(ctx, kind, reservationID, userID)
}

// publish stages the event atomically in the operational store. Emission
// failures are logged; they never affect the flow outcome.
func (s *Service) publish(ctx context.Context, state *session.State, event outbox.DomainEvent) {
	if s.events == nil || s.db == nil {
		return
	}
	if state.LoggedIn() {
		event.Actor = &outbox.ActorRef{UserID: state.User.ID, Role: string(state.User.Role)}
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.events.Emit(ctx, tx, event)
	})
	if err != nil {
		s.logg.Error(ctx, "outbox emit failed", err)
	}
}

func sessionUserID(state *session.State) int64 {
	if state.LoggedIn() {
		return state.User.ID
	}
	return 0
}

func parseAccount(raw string) int64 {
	account, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0
	}
	return account
}

func orMessage(err error, fallback string) error {
	if err != nil {
		return err
	}
	return fmt.Errorf("%s", fallback)
}
