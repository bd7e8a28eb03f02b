package session

import (
	"strconv"

	"github.com/urbandrive/storefront/pkg/enums"
)

// UserSummary is the logged-in user snapshot kept in the session.
type UserSummary struct {
	ID         int64          `json:"id"`
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	Role       enums.UserRole `json:"role"`
	IDDocument string         `json:"idDocument,omitempty"`
}

// PaymentInfo is the last-known payment summary for one reservation,
// cached so the detail view can show it without refetching.
type PaymentInfo struct {
	TransactionID      int64   `json:"transactionId,omitempty"`
	OriginAccount      int64   `json:"originAccount,omitempty"`
	DestinationAccount int64   `json:"destinationAccount,omitempty"`
	Amount             float64 `json:"amount,omitempty"`
	PaidAt             string  `json:"paidAt,omitempty"`
	LegalID            string  `json:"legalId,omitempty"`
	InvoiceID          int64   `json:"invoiceId,omitempty"`
	InvoiceURL         string  `json:"invoiceUrl,omitempty"`
}

// State is everything a browser session holds. It lives in Redis under
// the session ID carried by the signed cookie.
type State struct {
	User     *UserSummary           `json:"user,omitempty"`
	CartID   int64                  `json:"cartId,omitempty"`
	Payments map[string]PaymentInfo `json:"payments,omitempty"`
	Flash    string                 `json:"flash,omitempty"`
}

// LoggedIn reports whether the session carries a user.
func (s *State) LoggedIn() bool {
	return s != nil && s.User != nil
}

// IsAdmin reports whether the session user has the admin role.
func (s *State) IsAdmin() bool {
	return s.LoggedIn() && s.User.Role.IsAdmin()
}

// PaymentFor returns the cached payment info for a reservation, if any.
func (s *State) PaymentFor(reservationID int64) (PaymentInfo, bool) {
	if s == nil || s.Payments == nil {
		return PaymentInfo{}, false
	}
	info, ok := s.Payments[strconv.FormatInt(reservationID, 10)]
	return info, ok
}

// SetPayment caches payment info for a reservation.
func (s *State) SetPayment(reservationID int64, info PaymentInfo) {
	if s.Payments == nil {
		s.Payments = map[string]PaymentInfo{}
	}
	s.Payments[strconv.FormatInt(reservationID, 10)] = info
}

// PopFlash returns the one-shot message and clears it.
func (s *State) PopFlash() string {
	if s == nil {
		return ""
	}
	flash := s.Flash
	s.Flash = ""
	return flash
}
