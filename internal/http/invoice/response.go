package invoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

type lineItemResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}

type totalsResponse struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
	Payable  decimal.Decimal `json:"payable"`
}

type recordResponse struct {
	ID              string             `json:"id"`
	Number          string             `json:"number"`
	ClientName      string             `json:"client_name"`
	ClientEmail     string             `json:"client_email"`
	ClientAddress   string             `json:"client_address"`
	BusinessName    string             `json:"business_name"`
	BusinessEmail   string             `json:"business_email"`
	BusinessAddress string             `json:"business_address"`
	BusinessLogo    string             `json:"business_logo,omitempty"`
	InvoiceDate     string             `json:"invoice_date"`
	DueDate         string             `json:"due_date"`
	LineItems       []lineItemResponse `json:"line_items"`
	TaxRate         decimal.Decimal    `json:"tax_rate"`
	DiscountAmount  decimal.Decimal    `json:"discount_amount"`
	Currency        string             `json:"currency"`
	Status          invoice.Status     `json:"status"`
	Notes           string             `json:"notes"`
	Template        string             `json:"template,omitempty"`
	ColorTheme      string             `json:"color_theme,omitempty"`
	Totals          totalsResponse     `json:"totals"`
	CreatedAt       *time.Time         `json:"created_at,omitempty"`
}

type workspaceResponse struct {
	Draft recordResponse   `json:"draft"`
	Saved []recordResponse `json:"saved"`
}

type numberResponse struct {
	Number string `json:"number"`
}

type importResponse struct {
	Imported int            `json:"imported"`
	Draft    recordResponse `json:"draft"`
}

// toResponse derives amounts and totals fresh; the payable total follows the
// configured discount policy.
func toResponse(r *invoice.Record, policy invoice.DiscountPolicy) recordResponse {
	items := make([]lineItemResponse, len(r.LineItems))
	for i, item := range r.LineItems {
		items[i] = lineItemResponse{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			Rate:        item.Rate,
			Amount:      r.LineAmount(item),
		}
	}

	totals := invoice.Compute(r)

	payable, err := policy.Apply(totals.Total)
	if err != nil {
		payable = totals.Total
	}

	return recordResponse{
		ID:              r.ID,
		Number:          r.Number,
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
		Totals: totalsResponse{
			Subtotal: totals.Subtotal,
			Tax:      totals.Tax,
			Discount: totals.Discount,
			Total:    totals.Total,
			Payable:  payable,
		},
		CreatedAt: r.CreatedAt,
	}
}

func toResponseList(records []*invoice.Record, policy invoice.DiscountPolicy) []recordResponse {
	resp := make([]recordResponse, len(records))
	for i, r := range records {
		resp[i] = toResponse(r, policy)
	}

	return resp
}

type lineItemRequest struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
}

// recordRequest carries a full record. Amounts and totals are never read
// from clients.
type recordRequest struct {
	ID              string            `json:"id"`
	Number          string            `json:"number"`
	ClientName      string            `json:"client_name"`
	ClientEmail     string            `json:"client_email"`
	ClientAddress   string            `json:"client_address"`
	BusinessName    string            `json:"business_name"`
	BusinessEmail   string            `json:"business_email"`
	BusinessAddress string            `json:"business_address"`
	BusinessLogo    string            `json:"business_logo"`
	InvoiceDate     string            `json:"invoice_date"`
	DueDate         string            `json:"due_date"`
	LineItems       []lineItemRequest `json:"line_items"`
	TaxRate         decimal.Decimal   `json:"tax_rate"`
	DiscountAmount  decimal.Decimal   `json:"discount_amount"`
	Currency        string            `json:"currency"`
	Status          invoice.Status    `json:"status"`
	Notes           string            `json:"notes"`
	Template        string            `json:"template"`
	ColorTheme      string            `json:"color_theme"`
}

func (req recordRequest) toRecord(settings invoice.Settings) *invoice.Record {
	r := &invoice.Record{
		ID:              req.ID,
		Number:          req.Number,
		ClientName:      req.ClientName,
		ClientEmail:     req.ClientEmail,
		ClientAddress:   req.ClientAddress,
		BusinessName:    req.BusinessName,
		BusinessEmail:   req.BusinessEmail,
		BusinessAddress: req.BusinessAddress,
		BusinessLogo:    req.BusinessLogo,
		InvoiceDate:     req.InvoiceDate,
		DueDate:         req.DueDate,
		TaxRate:         req.TaxRate,
		DiscountAmount:  req.DiscountAmount,
		Currency:        req.Currency,
		Status:          req.Status,
		Notes:           req.Notes,
		Template:        req.Template,
		ColorTheme:      req.ColorTheme,
	}

	if r.Currency == "" {
		r.Currency = settings.Currency
	}

	if r.Currency == "" {
		r.Currency = invoice.DefaultCurrency
	}

	if r.Status == "" {
		r.Status = invoice.StatusUnpaid
	}

	for _, item := range req.LineItems {
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

	return r
}

type lineItemUpdateRequest struct {
	Description *string          `json:"description,omitempty"`
	Quantity    *decimal.Decimal `json:"quantity,omitempty"`
	Rate        *decimal.Decimal `json:"rate,omitempty"`
}
