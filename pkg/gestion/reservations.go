package gestion

import (
	"context"
	"fmt"
	"net/http"
)

// CreateReservation posts a new reservation, always in estado Pendiente.
func (c *Client) CreateReservation(ctx context.Context, params CreateReservationParams) (Reservation, error) {
	payload, err := c.do(ctx, http.MethodPost, "/reservas", params, "create_reservation")
	if err != nil {
		return Reservation{}, err
	}
	return normalizeReservation(payload)
}

// GetReservation fetches one reservation by id.
func (c *Client) GetReservation(ctx context.Context, reservationID int64) (Reservation, error) {
	payload, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/reservas/%d", reservationID), nil, "get_reservation")
	if err != nil {
		return Reservation{}, err
	}
	return normalizeReservation(payload)
}

// ListReservationsByUser returns a user's reservations.
func (c *Client) ListReservationsByUser(ctx context.Context, userID int64) ([]Reservation, error) {
	payload, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/reservas/usuario/%d", userID), nil, "list_user_reservations")
	if err != nil {
		return nil, err
	}
	return normalizeEach(payload, normalizeReservation)
}

// ListReservations returns every reservation, used by the admin console.
func (c *Client) ListReservations(ctx context.Context) ([]Reservation, error) {
	payload, err := c.do(ctx, http.MethodGet, "/reservas", nil, "list_reservations")
	if err != nil {
		return nil, err
	}
	return normalizeEach(payload, normalizeReservation)
}

// UpdateReservationStatus flips the estado of a reservation.
func (c *Client) UpdateReservationStatus(ctx context.Context, reservationID int64, status string) error {
	path := fmt.Sprintf("/reservas/%d/estado/%s", reservationID, status)
	_, err := c.do(ctx, http.MethodPatch, path, nil, "update_reservation_status")
	return err
}

// DeleteReservation removes a reservation, admin only.
func (c *Client) DeleteReservation(ctx context.Context, reservationID int64) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/reservas/%d", reservationID), nil, "delete_reservation")
	return err
}
