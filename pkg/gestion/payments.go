package gestion

import (
	"context"
	"fmt"
	"net/http"
)

// RecordPayment writes a payment row against a reservation.
func (c *Client) RecordPayment(ctx context.Context, params RecordPaymentParams) (PaymentResult, error) {
	payload, err := c.do(ctx, http.MethodPost, "/pagos", params, "record_payment")
	if err != nil {
		return PaymentResult{}, err
	}
	return normalizePaymentResult(payload)
}

// ListPaymentsByReservation returns the payment history, oldest first.
func (c *Client) ListPaymentsByReservation(ctx context.Context, reservationID int64) ([]Payment, error) {
	payload, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/pagos/reserva/%d", reservationID), nil, "list_reservation_payments")
	if err != nil {
		return nil, err
	}
	return normalizeEach(payload, normalizePayment)
}
