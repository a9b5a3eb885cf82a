package invoice

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItemUpdate describes a partial change to a line item. Nil fields are
// left untouched. There is deliberately no amount field: the amount always
// follows quantity and rate.
type LineItemUpdate struct {
	Description *string
	Quantity    *decimal.Decimal
	Rate        *decimal.Decimal
}

func newLineItem() LineItem {
	return LineItem{
		ID:       uuid.NewString(),
		Quantity: decimal.NewFromInt(1),
		Rate:     decimal.Zero,
	}
}

// AddLineItem appends an empty line item and returns it.
func (r *Record) AddLineItem() LineItem {
	item := newLineItem()
	r.LineItems = append(r.LineItems, item)

	return item
}

// UpdateLineItem applies upd to the line item with the given id.
func (r *Record) UpdateLineItem(id string, upd LineItemUpdate) error {
	idx := r.lineItemIndex(id)
	if idx < 0 {
		return ErrLineItemNotFound
	}

	if (upd.Quantity != nil && upd.Quantity.IsNegative()) || (upd.Rate != nil && upd.Rate.IsNegative()) {
		return ErrNegativeValue
	}

	item := &r.LineItems[idx]

	if upd.Description != nil {
		item.Description = *upd.Description
	}

	if upd.Quantity != nil {
		item.Quantity = *upd.Quantity
	}

	if upd.Rate != nil {
		item.Rate = *upd.Rate
	}

	return nil
}

// RemoveLineItem deletes the line item with the given id. It refuses to
// remove the last remaining item and reports whether anything was removed.
func (r *Record) RemoveLineItem(id string) bool {
	if len(r.LineItems) <= 1 {
		return false
	}

	idx := r.lineItemIndex(id)
	if idx < 0 {
		return false
	}

	r.LineItems = append(r.LineItems[:idx:idx], r.LineItems[idx+1:]...)

	return true
}

// LineItem returns the line item with the given id.
func (r *Record) LineItem(id string) (LineItem, bool) {
	idx := r.lineItemIndex(id)
	if idx < 0 {
		return LineItem{}, false
	}

	return r.LineItems[idx], true
}

// ToggleStatus flips paid and unpaid.
func (r *Record) ToggleStatus() {
	if r.Status == StatusPaid {
		r.Status = StatusUnpaid
		return
	}

	r.Status = StatusPaid
}

func (r *Record) lineItemIndex(id string) int {
	for i, item := range r.LineItems {
		if item.ID == id {
			return i
		}
	}

	return -1
}
