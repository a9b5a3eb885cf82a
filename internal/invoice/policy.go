package invoice

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DiscountPolicy decides what happens when the discount exceeds subtotal plus
// tax.
type DiscountPolicy string

const (
	// DiscountAllow lets negative totals through unchanged.
	DiscountAllow DiscountPolicy = "allow"
	// DiscountClamp floors the payable total at zero.
	DiscountClamp DiscountPolicy = "clamp"
	// DiscountReject refuses to persist records with a negative total.
	DiscountReject DiscountPolicy = "reject"
)

func ParseDiscountPolicy(s string) (DiscountPolicy, error) {
	switch p := DiscountPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return DiscountAllow, nil
	case DiscountAllow, DiscountClamp, DiscountReject:
		return p, nil
	default:
		return "", fmt.Errorf("unknown discount policy %q", s)
	}
}

// Apply returns the payable total for total under the policy.
func (p DiscountPolicy) Apply(total decimal.Decimal) (decimal.Decimal, error) {
	if !total.IsNegative() {
		return total, nil
	}

	switch p {
	case DiscountClamp:
		return decimal.Zero, nil
	case DiscountReject:
		return total, ErrNegativeTotal
	default:
		return total, nil
	}
}
