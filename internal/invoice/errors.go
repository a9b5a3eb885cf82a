package invoice

import "errors"

var (
	ErrNotFound         = errors.New("record not found")
	ErrLineItemNotFound = errors.New("line item not found")
	ErrNoLineItems      = errors.New("record must have at least one line item")
	ErrNegativeValue    = errors.New("quantities, rates, tax and discount must not be negative")
	ErrInvalidStatus    = errors.New("status must be paid or unpaid")
	ErrNegativeTotal    = errors.New("discount exceeds subtotal plus tax")
)
