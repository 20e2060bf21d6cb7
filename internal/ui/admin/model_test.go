package admin

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/todolist/internal/keys"
	"github.com/nhle/todolist/internal/model"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newAdmin() Model {
	m := New(keys.DefaultKeyMap(), 100, 30)
	m.SetUsers([]model.User{
		{ID: "u1", Name: "Root", Email: "root@example.com", IsAdmin: true, CreatedAt: time.Now()},
		{ID: "u2", Name: "Bob", Email: "bob@example.com"},
	})
	return m
}

func TestView_Rows(t *testing.T) {
	out := newAdmin().View()
	assert.Contains(t, out, "Users (2)")
	assert.Contains(t, out, "root@example.com")
	assert.Contains(t, out, "admin")
}

func TestUpdate_Actions(t *testing.T) {
	m := newAdmin()

	_, cmd := m.Update(runes("t"))
	require.NotNil(t, cmd)
	assert.Equal(t, ToggleAdminMsg{UserID: "u1"}, cmd())

	_, cmd = m.Update(runes("r"))
	assert.Equal(t, ReloadMsg{}, cmd())

	_, cmd = m.Update(runes("c"))
	assert.Equal(t, CreateAdminMsg{}, cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, BackMsg{}, cmd())
}

func TestUpdate_DeleteConfirm(t *testing.T) {
	m := newAdmin()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})

	m, cmd := m.Update(runes("d"))
	assert.Nil(t, cmd)
	require.True(t, m.Confirming())
	assert.Contains(t, m.View(), "Delete Bob (bob@example.com)?")

	m, cmd = m.Update(runes("y"))
	require.NotNil(t, cmd)
	assert.Equal(t, DeleteUserMsg{UserID: "u2"}, cmd())
	assert.False(t, m.Confirming())
}

func TestSetUsers_ClampsCursor(t *testing.T) {
	m := newAdmin()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.SetUsers([]model.User{{ID: "u1", Name: "Root"}})

	u, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "u1", u.ID)
}
