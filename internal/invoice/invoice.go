package invoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the payment state of a record. It only changes on an
// explicit toggle.
type Status string

const (
	StatusUnpaid Status = "unpaid"
	StatusPaid   Status = "paid"
)

func (s Status) Valid() bool {
	return s == StatusUnpaid || s == StatusPaid
}

// Kind identifies a document family sharing the record model: each kind has
// its own number prefix and its own draft/saved keys inside a namespace.
type Kind struct {
	Name     string
	Prefix   string
	DraftKey string
	SavedKey string
}

var (
	KindInvoice = Kind{
		Name:     "invoice",
		Prefix:   "INV",
		DraftKey: "currentInvoice",
		SavedKey: "savedInvoices",
	}
	KindEstimate = Kind{
		Name:     "estimate",
		Prefix:   "EST",
		DraftKey: "currentEstimate",
		SavedKey: "savedEstimates",
	}
	KindPurchaseOrder = Kind{
		Name:     "purchase_order",
		Prefix:   "LPO",
		DraftKey: "currentPurchaseOrder",
		SavedKey: "savedPurchaseOrders",
	}
)

// LineItem is a single billable row. Its amount is derived from Quantity and
// Rate, see Record.LineAmount.
type LineItem struct {
	ID          string
	Description string
	Quantity    decimal.Decimal
	Rate        decimal.Decimal
}

// Record is an invoice (or estimate, or purchase order).
type Record struct {
	ID     string
	Number string

	ClientName    string
	ClientEmail   string
	ClientAddress string

	BusinessName    string
	BusinessEmail   string
	BusinessAddress string
	BusinessLogo    string // optional data URI

	InvoiceDate string // YYYY-MM-DD
	DueDate     string // YYYY-MM-DD

	LineItems      []LineItem
	TaxRate        decimal.Decimal // percent
	DiscountAmount decimal.Decimal
	Currency       string
	Status         Status
	Notes          string

	Template   string
	ColorTheme string

	CreatedAt *time.Time // set on first persist
}

// Workspace is what a namespace holds for one kind: the in-progress draft and
// the saved collection, in insertion order.
type Workspace struct {
	Draft *Record
	Saved []*Record
}

// Settings carries the defaults applied to new records and the policy for
// negative totals.
type Settings struct {
	Currency string
	DueDays  int
	Discount DiscountPolicy
	Now      func() time.Time
}

const (
	DefaultCurrency = "USD"
	DefaultDueDays  = 30
)

func (s Settings) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}

	return time.Now()
}

func (s Settings) currency() string {
	if s.Currency == "" {
		return DefaultCurrency
	}

	return s.Currency
}

func (s Settings) dueDays() int {
	if s.DueDays <= 0 {
		return DefaultDueDays
	}

	return s.DueDays
}

// NewBlank creates an in-memory record with blank client fields, a single
// empty line item and dates derived from now.
func NewBlank(number string, now time.Time, settings Settings) *Record {
	return &Record{
		ID:             uuid.NewString(),
		Number:         number,
		InvoiceDate:    now.Format(time.DateOnly),
		DueDate:        now.AddDate(0, 0, settings.dueDays()).Format(time.DateOnly),
		LineItems:      []LineItem{newLineItem()},
		TaxRate:        decimal.Zero,
		DiscountAmount: decimal.Zero,
		Currency:       settings.currency(),
		Status:         StatusUnpaid,
	}
}

// NewFromPrevious creates a blank record that keeps the business identity of
// prev, so it does not have to be re-entered for every invoice.
func NewFromPrevious(prev *Record, number string, now time.Time, settings Settings) *Record {
	r := NewBlank(number, now, settings)
	if prev == nil {
		return r
	}

	r.BusinessName = prev.BusinessName
	r.BusinessEmail = prev.BusinessEmail
	r.BusinessAddress = prev.BusinessAddress
	r.BusinessLogo = prev.BusinessLogo

	return r
}

// Clone returns a deep copy of r.
func (r *Record) Clone() *Record {
	c := *r
	c.LineItems = append([]LineItem(nil), r.LineItems...)

	if r.CreatedAt != nil {
		t := *r.CreatedAt
		c.CreatedAt = &t
	}

	return &c
}

// Validate checks the structural invariants a record must hold before it is
// persisted.
func (r *Record) Validate() error {
	if len(r.LineItems) == 0 {
		return ErrNoLineItems
	}

	for _, item := range r.LineItems {
		if item.Quantity.IsNegative() || item.Rate.IsNegative() {
			return ErrNegativeValue
		}
	}

	if r.TaxRate.IsNegative() || r.DiscountAmount.IsNegative() {
		return ErrNegativeValue
	}

	if !r.Status.Valid() {
		return ErrInvalidStatus
	}

	return nil
}
