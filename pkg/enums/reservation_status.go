package enums

import (
	"fmt"
	"strings"
)

// ReservationStatus mirrors the estado values stored by the gestion API.
// Lifecycle: Pendiente -> Confirmada, or Pendiente|Confirmada -> Cancelada.
// Cancelada is terminal.
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "Pendiente"
	ReservationStatusConfirmed ReservationStatus = "Confirmada"
	ReservationStatusCancelled ReservationStatus = "Cancelada"
)

var validReservationStatuses = []ReservationStatus{
	ReservationStatusPending,
	ReservationStatusConfirmed,
	ReservationStatusCancelled,
}

// String implements fmt.Stringer.
func (r ReservationStatus) String() string {
	return string(r)
}

// IsValid reports whether the value is a known ReservationStatus.
func (r ReservationStatus) IsValid() bool {
	for _, candidate := range validReservationStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is allowed.
func (r ReservationStatus) IsTerminal() bool {
	return r == ReservationStatusCancelled
}

// ParseReservationStatus converts the raw string to ReservationStatus.
// The gestion API is inconsistent about casing, so matching is case-insensitive.
func ParseReservationStatus(value string) (ReservationStatus, error) {
	for _, candidate := range validReservationStatuses {
		if strings.EqualFold(string(candidate), strings.TrimSpace(value)) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid reservation status %q", value)
}
