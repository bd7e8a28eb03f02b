package cart

import "github.com/urbandrive/storefront/pkg/gestion"

// hasOverlap reports whether any existing item holds the same vehicle over
// a date range intersecting [startDate, endDate]. Dates are YYYY-MM-DD, so
// plain string comparison orders them correctly. Ranges are closed: a
// shared boundary day counts as overlap.
func hasOverlap(items []gestion.CartItem, vehicleID int64, startDate, endDate string) bool {
	for _, item := range items {
		if item.VehicleID != vehicleID {
			continue
		}
		if endDate < item.StartDate || startDate > item.EndDate {
			continue
		}
		return true
	}
	return false
}
