package view

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

// draftFields backs the huh inputs. It lives behind a pointer so the form
// keeps writing to the same values while the model is copied between updates.
type draftFields struct {
	ClientName    string
	ClientEmail   string
	ClientAddress string
	BusinessName  string
	BusinessEmail string
	Description   string
	Quantity      string
	Rate          string
	TaxRate       string
	Discount      string
	Notes         string
	SaveRecord    bool
}

func fieldsFrom(d *invoice.Record) *draftFields {
	f := &draftFields{
		ClientName:    d.ClientName,
		ClientEmail:   d.ClientEmail,
		ClientAddress: d.ClientAddress,
		BusinessName:  d.BusinessName,
		BusinessEmail: d.BusinessEmail,
		TaxRate:       d.TaxRate.String(),
		Discount:      d.DiscountAmount.String(),
		Notes:         d.Notes,
	}

	if len(d.LineItems) > 0 {
		item := d.LineItems[0]
		f.Description = item.Description
		f.Quantity = item.Quantity.String()
		f.Rate = item.Rate.String()
	}

	return f
}

// apply writes the fields onto d, editing its first line item.
func (f *draftFields) apply(d *invoice.Record) error {
	qty, err := parseAmount(f.Quantity)
	if err != nil {
		return fmt.Errorf("quantity: %w", err)
	}

	rate, err := parseAmount(f.Rate)
	if err != nil {
		return fmt.Errorf("rate: %w", err)
	}

	tax, err := parseAmount(f.TaxRate)
	if err != nil {
		return fmt.Errorf("tax rate: %w", err)
	}

	discount, err := parseAmount(f.Discount)
	if err != nil {
		return fmt.Errorf("discount: %w", err)
	}

	d.ClientName = strings.TrimSpace(f.ClientName)
	d.ClientEmail = strings.TrimSpace(f.ClientEmail)
	d.ClientAddress = strings.TrimSpace(f.ClientAddress)
	d.BusinessName = strings.TrimSpace(f.BusinessName)
	d.BusinessEmail = strings.TrimSpace(f.BusinessEmail)
	d.Notes = f.Notes
	d.TaxRate = tax
	d.DiscountAmount = discount

	if len(d.LineItems) == 0 {
		d.AddLineItem()
	}

	desc := strings.TrimSpace(f.Description)

	return d.UpdateLineItem(d.LineItems[0].ID, invoice.LineItemUpdate{
		Description: &desc,
		Quantity:    &qty,
		Rate:        &rate,
	})
}

func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.New("not a number")
	}

	if d.IsNegative() {
		return decimal.Zero, errors.New("must not be negative")
	}

	return d, nil
}

func validAmount(s string) error {
	_, err := parseAmount(s)
	return err
}

// InvoiceModel edits the current draft. Completing the form saves the draft
// and, when requested, files it as a record and starts the next draft.
type InvoiceModel struct {
	session Session

	draft  *invoice.Record
	fields *draftFields
	form   *huh.Form

	loading bool
	err     error
	status  string
}

func NewInvoiceModel(session Session) InvoiceModel {
	return InvoiceModel{
		session: session,
		loading: true,
	}
}

func (m InvoiceModel) Title() string { return "Edit " + m.session.KindName() }

func (m InvoiceModel) ShortHelp() string {
	return "Tab: next field | Enter: confirm | Esc: back"
}

func (m InvoiceModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m InvoiceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case draftLoadedMsg:
		m.loading = false
		m.err = msg.err

		if msg.err != nil {
			return m, nil
		}

		m.draft = msg.draft
		m.fields = fieldsFrom(msg.draft)
		m.form = m.buildForm()

		return m, m.form.Init()

	case draftSavedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		} else {
			m.status = msg.status
		}

		m.loading = true

		return m, m.loadCmd()

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	if m.form == nil {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m InvoiceModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading draft...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v\n\n(Esc to back)", m.err))
	}

	if m.form == nil {
		return ""
	}

	panel := lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(36).
		Render(m.preview())

	content := lipgloss.JoinHorizontal(lipgloss.Top, m.form.View(), panel)

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

// preview shows the totals as they would be saved with the current inputs.
func (m InvoiceModel) preview() string {
	rec := m.draft.Clone()
	if err := m.fields.apply(rec); err != nil {
		return fmt.Sprintf("%s\n\n%v", m.draft.Number, err)
	}

	totals, err := m.session.Service.Payable(rec)

	var warn string
	if errors.Is(err, invoice.ErrNegativeTotal) {
		warn = "\n\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("Discount exceeds total")
	}

	return fmt.Sprintf("%s\n\nSubtotal  %s\nTax       %s\nDiscount  %s\nTotal     %s%s",
		m.draft.Number,
		FormatMoney(totals.Subtotal, rec.Currency),
		FormatMoney(totals.Tax, rec.Currency),
		FormatMoney(totals.Discount, rec.Currency),
		FormatMoney(totals.Total, rec.Currency),
		warn,
	)
}

func (m InvoiceModel) buildForm() *huh.Form {
	f := m.fields

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Client name").Value(&f.ClientName),
			huh.NewInput().Title("Client email").Value(&f.ClientEmail),
			huh.NewText().Title("Client address").Lines(2).Value(&f.ClientAddress),
			huh.NewInput().Title("Your business").Value(&f.BusinessName),
			huh.NewInput().Title("Business email").Value(&f.BusinessEmail),
		),
		huh.NewGroup(
			huh.NewInput().Title("Item description").Value(&f.Description),
			huh.NewInput().Title("Quantity").Value(&f.Quantity).Validate(validAmount),
			huh.NewInput().Title("Rate").Value(&f.Rate).Validate(validAmount),
			huh.NewInput().Title("Tax rate (%)").Value(&f.TaxRate).Validate(validAmount),
			huh.NewInput().Title("Discount").Value(&f.Discount).Validate(validAmount),
			huh.NewText().Title("Notes").Lines(3).Value(&f.Notes),
			huh.NewConfirm().
				Title("Save as a record and start a new one?").
				Affirmative("Save record").
				Negative("Keep as draft").
				Value(&f.SaveRecord),
		),
	).WithWidth(50).WithShowHelp(false)
}

// Messages

type draftLoadedMsg struct {
	draft *invoice.Record
	err   error
}

type draftSavedMsg struct {
	status string
	err    error
}

func (m InvoiceModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		ws, err := m.session.Service.Load(ctx, m.session.Identity)
		if err != nil {
			return draftLoadedMsg{err: err}
		}

		return draftLoadedMsg{draft: ws.Draft}
	}
}

func (m InvoiceModel) saveCmd() tea.Cmd {
	draft := m.draft.Clone()
	fields := *m.fields

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := fields.apply(draft); err != nil {
			return draftSavedMsg{err: err}
		}

		svc, id := m.session.Service, m.session.Identity

		if !fields.SaveRecord {
			err := svc.SaveDraft(ctx, id, draft)
			return draftSavedMsg{status: "Draft " + draft.Number + " saved", err: err}
		}

		saved, err := svc.SaveRecord(ctx, id, draft)
		if err != nil {
			return draftSavedMsg{err: err}
		}

		next, err := svc.NewDraft(ctx, id, saved)
		if err != nil {
			return draftSavedMsg{err: err}
		}

		if err := svc.SaveDraft(ctx, id, next); err != nil {
			return draftSavedMsg{err: err}
		}

		return draftSavedMsg{status: fmt.Sprintf("Saved %s, now editing %s", saved.Number, next.Number)}
	}
}
