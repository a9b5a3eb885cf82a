package view

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type importState int

const (
	importStateFilePick importState = iota
	importStateImporting
	importStateResult
)

// ImportModel appends line items from a CSV file to the current draft.
type ImportModel struct {
	session Session

	state      importState
	filePicker filepicker.Model

	status string
	err    error
}

func NewImportModel(session Session) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		session:    session,
		filePicker: fp,
	}
}

func (m ImportModel) Title() string { return "Import line items" }

func (m ImportModel) ShortHelp() string {
	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			if m.state == importStateResult {
				m.state = importStateFilePick
				m.err = nil
				m.status = ""

				return m, nil
			}

			return m, Back
		}

	case importResultMsg:
		m.state = importStateResult
		m.err = msg.err

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("Imported %d line items into %s.", msg.count, msg.number)
		}

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.status = fmt.Sprintf("Importing from %s...", path)

		return m, m.importCmd(path)
	}

	return m, cmd
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select a CSV with description, quantity and rate columns:\n\n%s", m.filePicker.View()),
		)
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateResult:
		color := lipgloss.Color("46")
		if m.err != nil {
			color = lipgloss.Color("196")
		}

		return lipgloss.NewStyle().Padding(2).Render(
			lipgloss.NewStyle().Foreground(color).Render(m.status) + "\n\n(Esc to go back)",
		)
	}

	return ""
}

// Messages

type importResultMsg struct {
	count  int
	number string
	err    error
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := DbCtx()
		defer cancel()

		ws, err := m.session.Service.Load(ctx, m.session.Identity)
		if err != nil {
			return importResultMsg{err: err}
		}

		n, err := m.session.Importer.Import(ws.Draft, f)
		if err != nil {
			return importResultMsg{err: err}
		}

		if err := m.session.Service.SaveDraft(ctx, m.session.Identity, ws.Draft); err != nil {
			return importResultMsg{err: err}
		}

		return importResultMsg{count: n, number: ws.Draft.Number}
	}
}
