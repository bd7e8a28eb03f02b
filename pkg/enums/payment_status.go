package enums

// PaymentStatus is the estado recorded against a payment row in the
// gestion API. Only successful debits are recorded, so the happy-path
// value is the one that matters.
type PaymentStatus string

const (
	PaymentStatusSuccessful PaymentStatus = "Exitoso"
	PaymentStatusFailed     PaymentStatus = "Fallido"
)

// String implements fmt.Stringer.
func (p PaymentStatus) String() string {
	return string(p)
}
