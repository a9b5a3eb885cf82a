package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/keyspace"
)

func TestIdentityFromEnv(t *testing.T) {
	t.Setenv("INVOICER_USER", "alice@example.com")
	t.Setenv("INVOICER_PROFILE", "acme")

	id := identityFromEnv()
	assert.Equal(t, "alice@example.com", id.Email)
	assert.Equal(t, "user-alice_example_com-profile-acme-", id.Namespace())

	t.Setenv("INVOICER_USER", "Alice")
	t.Setenv("INVOICER_PROFILE", "")

	id = identityFromEnv()
	assert.Equal(t, "Alice", id.DisplayName)
	assert.Equal(t, "user-alice-", id.Namespace())
}

func TestModel_SwitchKind(t *testing.T) {
	m := newModel(keyspace.NewMemory(), invoice.Settings{}, identityFromEnv())
	assert.Equal(t, invoice.KindInvoice.Name, m.session().KindName())

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
	assert.Equal(t, invoice.KindEstimate.Name, next.(model).session().KindName())

	for range 2 {
		next, _ = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
	}

	assert.Equal(t, invoice.KindInvoice.Name, next.(model).session().KindName())
}
