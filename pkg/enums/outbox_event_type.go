package enums

import "fmt"

// OutboxEventType is the type attached to events staged for publication.
type OutboxEventType string

const (
	OutboxEventReservationPaid      OutboxEventType = "reservation.paid"
	OutboxEventReservationCancelled OutboxEventType = "reservation.cancelled"
)

var validOutboxEventTypes = []OutboxEventType{
	OutboxEventReservationPaid,
	OutboxEventReservationCancelled,
}

// String implements fmt.Stringer.
func (o OutboxEventType) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OutboxEventType.
func (o OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts the raw string to OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid outbox event type %q", value)
}
