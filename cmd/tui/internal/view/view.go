package view

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/invoicer/internal/identity"
	"github.com/MrJamesThe3rd/invoicer/internal/importer"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// Session is what every screen works against: one document kind for one
// identity.
type Session struct {
	Service  *invoice.Service
	Importer *importer.Service
	Identity identity.Identity
}

func (s Session) KindName() string {
	return s.Service.Kind().Name
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}
