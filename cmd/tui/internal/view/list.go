package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

// ListModel browses the saved records of the session's kind.
type ListModel struct {
	session Session

	table   table.Model
	records []*invoice.Record

	loading bool
	err     error
	status  string
}

func NewListModel(session Session) ListModel {
	columns := []table.Column{
		{Title: "Number", Width: 18},
		{Title: "Client", Width: 28},
		{Title: "Date", Width: 12},
		{Title: "Due", Width: 12},
		{Title: "Status", Width: 8},
		{Title: "Total", Width: 18},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return ListModel{
		session: session,
		table:   t,
		loading: true,
	}
}

func (m ListModel) Title() string { return "Saved " + m.session.KindName() + "s" }

func (m ListModel) ShortHelp() string {
	return "Esc: back | t: toggle paid | x: delete | r: refresh"
}

func (m ListModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadListMsg:
		m.loading = false
		m.err = msg.err

		if msg.err == nil {
			m.records = msg.records
			m.refreshTable()
		}

		return m, nil

	case listActionMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.status = msg.status

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-10, 5))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "t":
			if rec := m.selected(); rec != nil {
				return m, m.toggleCmd(rec)
			}

			return m, nil
		case "x":
			if rec := m.selected(); rec != nil {
				return m, m.deleteCmd(rec)
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ListModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading records...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	if len(m.records) == 0 {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("No saved %ss yet.\n\n(Esc to back)", m.session.KindName()))
	}

	content := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m ListModel) selected() *invoice.Record {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.records) {
		return nil
	}

	return m.records[idx]
}

func (m *ListModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.records))
	for _, r := range m.records {
		rows = append(rows, table.Row{
			r.Number,
			r.ClientName,
			r.InvoiceDate,
			r.DueDate,
			string(r.Status),
			FormatMoney(invoice.Total(r), r.Currency),
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadListMsg struct {
	records []*invoice.Record
	err     error
}

type listActionMsg struct {
	status string
	err    error
}

func (m ListModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		ws, err := m.session.Service.Load(ctx, m.session.Identity)
		if err != nil {
			return loadListMsg{err: err}
		}

		return loadListMsg{records: ws.Saved}
	}
}

func (m ListModel) toggleCmd(rec *invoice.Record) tea.Cmd {
	id, number := rec.ID, rec.Number

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		err := m.session.Service.ToggleStatus(ctx, m.session.Identity, id)

		return listActionMsg{status: "Toggled " + number, err: err}
	}
}

func (m ListModel) deleteCmd(rec *invoice.Record) tea.Cmd {
	id, number := rec.ID, rec.Number

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		err := m.session.Service.DeleteRecord(ctx, m.session.Identity, id)

		return listActionMsg{status: "Deleted " + number, err: err}
	}
}
