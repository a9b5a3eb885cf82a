package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

// recordJSON is the persisted shape of a record. Unknown fields are ignored
// on read and the stored amount is recomputed from quantity and rate.
type recordJSON struct {
	ID              string          `json:"id"`
	InvoiceNumber   string          `json:"invoiceNumber"`
	ClientName      string          `json:"clientName"`
	ClientEmail     string          `json:"clientEmail"`
	ClientAddress   string          `json:"clientAddress"`
	BusinessName    string          `json:"businessName"`
	BusinessEmail   string          `json:"businessEmail"`
	BusinessAddress string          `json:"businessAddress"`
	BusinessLogo    string          `json:"businessLogo,omitempty"`
	InvoiceDate     string          `json:"invoiceDate"`
	DueDate         string          `json:"dueDate"`
	LineItems       []lineItemJSON  `json:"lineItems"`
	TaxRate         decimal.Decimal `json:"taxRate"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	Currency        string          `json:"currency"`
	Status          invoice.Status  `json:"status"`
	Notes           string          `json:"notes"`
	Template        string          `json:"template,omitempty"`
	ColorTheme      string          `json:"colorTheme,omitempty"`
	CreatedAt       *time.Time      `json:"createdAt,omitempty"`
}

type lineItemJSON struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}

func toJSON(r *invoice.Record) recordJSON {
	items := make([]lineItemJSON, len(r.LineItems))
	for i, item := range r.LineItems {
		items[i] = lineItemJSON{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			Rate:        item.Rate,
			Amount:      r.LineAmount(item),
		}
	}

	return recordJSON{
		ID:              r.ID,
		InvoiceNumber:   r.Number,
		ClientName:      r.ClientName,
		ClientEmail:     r.ClientEmail,
		ClientAddress:   r.ClientAddress,
		BusinessName:    r.BusinessName,
		BusinessEmail:   r.BusinessEmail,
		BusinessAddress: r.BusinessAddress,
		BusinessLogo:    r.BusinessLogo,
		InvoiceDate:     r.InvoiceDate,
		DueDate:         r.DueDate,
		LineItems:       items,
		TaxRate:         r.TaxRate,
		DiscountAmount:  r.DiscountAmount,
		Currency:        r.Currency,
		Status:          r.Status,
		Notes:           r.Notes,
		Template:        r.Template,
		ColorTheme:      r.ColorTheme,
		CreatedAt:       r.CreatedAt,
	}
}

// toRecord converts a stored record, repairing what would break the record
// invariants: a missing line item list gets one empty item, items without an
// id get one, and an unknown status reads as unpaid.
func (j recordJSON) toRecord() *invoice.Record {
	r := &invoice.Record{
		ID:              j.ID,
		Number:          j.InvoiceNumber,
		ClientName:      j.ClientName,
		ClientEmail:     j.ClientEmail,
		ClientAddress:   j.ClientAddress,
		BusinessName:    j.BusinessName,
		BusinessEmail:   j.BusinessEmail,
		BusinessAddress: j.BusinessAddress,
		BusinessLogo:    j.BusinessLogo,
		InvoiceDate:     j.InvoiceDate,
		DueDate:         j.DueDate,
		TaxRate:         j.TaxRate,
		DiscountAmount:  j.DiscountAmount,
		Currency:        j.Currency,
		Status:          j.Status,
		Notes:           j.Notes,
		Template:        j.Template,
		ColorTheme:      j.ColorTheme,
		CreatedAt:       j.CreatedAt,
	}

	for _, item := range j.LineItems {
		id := item.ID
		if id == "" {
			id = uuid.NewString()
		}

		r.LineItems = append(r.LineItems, invoice.LineItem{
			ID:          id,
			Description: item.Description,
			Quantity:    item.Quantity,
			Rate:        item.Rate,
		})
	}

	if len(r.LineItems) == 0 {
		r.AddLineItem()
	}

	if !r.Status.Valid() {
		r.Status = invoice.StatusUnpaid
	}

	return r
}
