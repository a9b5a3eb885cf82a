package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/invoicer/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/invoicer/internal/config"
	"github.com/MrJamesThe3rd/invoicer/internal/identity"
	"github.com/MrJamesThe3rd/invoicer/internal/importer"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	invoiceStore "github.com/MrJamesThe3rd/invoicer/internal/invoice/store"
	"github.com/MrJamesThe3rd/invoicer/internal/keyspace"
	"github.com/MrJamesThe3rd/invoicer/internal/storage"
)

type model struct {
	sessions []view.Session
	kindIdx  int

	currentView View

	editView   view.InvoiceModel
	listView   view.ListModel
	importView view.ImportModel
}

type View int

const (
	ViewMenu   View = 0
	ViewEdit   View = 1
	ViewList   View = 2
	ViewImport View = 3
)

var kinds = []invoice.Kind{invoice.KindInvoice, invoice.KindEstimate, invoice.KindPurchaseOrder}

func newModel(kv keyspace.KeySpace, settings invoice.Settings, id identity.Identity) model {
	importSvc := importer.NewService()

	sessions := make([]view.Session, len(kinds))
	for i, kind := range kinds {
		sessions[i] = view.Session{
			Service:  invoice.NewService(invoiceStore.New(kv, kind), kind, settings),
			Importer: importSvc,
			Identity: id,
		}
	}

	return model{
		sessions:    sessions,
		currentView: ViewMenu,
	}
}

// identityFromEnv reads INVOICER_USER as an email when it looks like one,
// otherwise as a display name.
func identityFromEnv() identity.Identity {
	user := strings.TrimSpace(os.Getenv("INVOICER_USER"))
	id := identity.Identity{ProfileID: os.Getenv("INVOICER_PROFILE")}

	if strings.Contains(user, "@") {
		id.Email = user
	} else {
		id.DisplayName = user
	}

	return id
}

func (m model) session() view.Session {
	return m.sessions[m.kindIdx]
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "k":
				m.kindIdx = (m.kindIdx + 1) % len(m.sessions)
				return m, nil
			case "1":
				m.currentView = ViewEdit
				m.editView = view.NewInvoiceModel(m.session())

				return m, m.editView.Init()
			case "2":
				m.currentView = ViewList
				m.listView = view.NewListModel(m.session())

				return m, m.listView.Init()
			case "3":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.session())

				return m, m.importView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewEdit:
		var newModel tea.Model
		newModel, cmd = m.editView.Update(msg)
		m.editView = newModel.(view.InvoiceModel)
	case ViewList:
		var newModel tea.Model
		newModel, cmd = m.listView.Update(msg)
		m.listView = newModel.(view.ListModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	}

	return m, cmd
}

func (m model) View() string {
	var current view.View

	switch m.currentView {
	case ViewMenu:
		return m.menu()
	case ViewEdit:
		current = m.editView
	case ViewList:
		current = m.listView
	case ViewImport:
		current = m.importView
	default:
		return "Unknown View"
	}

	title := lipgloss.NewStyle().Bold(true).Padding(0, 1).Render(current.Title())
	help := lipgloss.NewStyle().Faint(true).Padding(0, 1).Render(current.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left, title, current.View(), help)
}

func (m model) menu() string {
	s := m.session()

	who := s.Identity.User()
	if who == "" {
		who = "anonymous (read-only, set INVOICER_USER to save)"
	}

	return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf(
		"Invoicer\n\nUser: %s\nDocument: %s\n\n"+
			"1. Edit current draft\n"+
			"2. Saved records\n"+
			"3. Import line items from CSV\n"+
			"k. Switch document kind\n\n"+
			"q. Quit",
		who, s.KindName(),
	))
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logFile, err := tea.LogToFile("invoicer-tui.log", "")
	if err != nil {
		slog.Error("failed to open log file", "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	slog.SetDefault(slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	settings, err := cfg.InvoiceSettings()
	if err != nil {
		slog.Error("invalid invoice settings", "error", err)
		os.Exit(1)
	}

	backend, err := storage.Open(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer backend.Close()

	p := tea.NewProgram(newModel(backend.KeySpace, settings, identityFromEnv()))
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
