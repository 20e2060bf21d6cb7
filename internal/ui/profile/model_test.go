package profile

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/todolist/internal/keys"
	"github.com/nhle/todolist/internal/model"
)

func TestView_User(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)
	m.SetUser(&model.User{
		ID:        "u1",
		Email:     "ada@example.com",
		Name:      "ada",
		CreatedAt: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
	})

	out := m.View()
	assert.Contains(t, out, "A")
	assert.Contains(t, out, "ada@example.com")
	assert.Contains(t, out, "2024")
}

func TestView_Guest(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)
	assert.Contains(t, m.View(), "not signed in")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("o")})
	assert.Nil(t, cmd)
}

func TestUpdate_LogoutAndBack(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)
	m.SetUser(&model.User{ID: "u1", Name: "Ada"})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("o")})
	require.NotNil(t, cmd)
	assert.Equal(t, LogoutMsg{}, cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, BackMsg{}, cmd())
}
