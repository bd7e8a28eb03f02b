package reservations

import (
	"time"

	"github.com/shopspring/decimal"
)

// Totals is the money breakdown shown on the reservation detail page and
// charged by the payment flow.
type Totals struct {
	Subtotal    float64
	Tax         float64
	Total       float64
	Days        int
	PricePerDay float64
}

// ComputeTotals derives tax and grand total from the reservation subtotal
// and the deployment's tax rate, and the per-day price from the date range.
// All amounts are rounded to cents with exact decimal math.
func ComputeTotals(subtotal, taxRate float64, startDate, endDate string) Totals {
	sub := decimal.NewFromFloat(subtotal)
	tax := sub.Mul(decimal.NewFromFloat(taxRate)).Round(2)
	total := sub.Add(tax).Round(2)

	days := rentalDays(startDate, endDate)
	perDay := sub
	if days > 0 {
		perDay = sub.Div(decimal.NewFromInt(int64(days))).Round(2)
	}

	return Totals{
		Subtotal:    sub.InexactFloat64(),
		Tax:         tax.InexactFloat64(),
		Total:       total.InexactFloat64(),
		Days:        days,
		PricePerDay: perDay.InexactFloat64(),
	}
}

// rentalDays counts the days between two YYYY-MM-DD dates, never below 1.
func rentalDays(startDate, endDate string) int {
	start, serr := time.Parse("2006-01-02", dateOnly(startDate))
	end, eerr := time.Parse("2006-01-02", dateOnly(endDate))
	if serr != nil || eerr != nil {
		return 1
	}
	days := int(end.Sub(start).Hours() / 24)
	if days <= 0 {
		return 1
	}
	return days
}

func dateOnly(raw string) string {
	if len(raw) > 10 {
		return raw[:10]
	}
	return raw
}
