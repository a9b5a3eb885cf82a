package invoice

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const defaultPrecision = 2

var hundred = decimal.NewFromInt(100)

// Totals is a snapshot of the derived figures of a record. It is never
// persisted.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// Precision returns the number of minor-unit digits for an ISO 4217 code,
// falling back to 2 for empty or unknown codes.
func Precision(code string) int32 {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return defaultPrecision
	}

	scale, _ := currency.Standard.Rounding(unit)

	return int32(scale)
}

// LineAmount returns quantity × rate rounded to the record's currency
// precision.
func (r *Record) LineAmount(item LineItem) decimal.Decimal {
	return item.Quantity.Mul(item.Rate).Round(Precision(r.Currency))
}

// Subtotal is the sum of the line amounts.
func Subtotal(r *Record) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range r.LineItems {
		sum = sum.Add(r.LineAmount(item))
	}

	return sum
}

// Tax is the subtotal multiplied by the tax rate percentage.
func Tax(r *Record) decimal.Decimal {
	return Compute(r).Tax
}

// Total is subtotal plus tax minus the discount. It is not clamped: a
// discount larger than subtotal plus tax yields a negative total.
func Total(r *Record) decimal.Decimal {
	return Compute(r).Total
}

// Compute returns all derived figures at once.
func Compute(r *Record) Totals {
	subtotal := Subtotal(r)
	tax := subtotal.Mul(r.TaxRate).Div(hundred)

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Discount: r.DiscountAmount,
		Total:    subtotal.Add(tax).Sub(r.DiscountAmount),
	}
}
