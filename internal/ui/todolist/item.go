package todolist

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todolist/internal/model"
	"github.com/nhle/todolist/internal/theme"
)

// TodoItem wraps a model.Todo so it can be used in a bubbles/list.
type TodoItem struct {
	Todo model.Todo
}

// FilterValue returns the string used for fuzzy filtering.
func (i TodoItem) FilterValue() string { return i.Todo.Text }

// Title returns the todo text.
func (i TodoItem) Title() string { return i.Todo.Text }

// Description returns the last change as a relative time.
func (i TodoItem) Description() string {
	return relativeTime(i.changedAt(), time.Now())
}

func (i TodoItem) changedAt() time.Time {
	if i.Todo.UpdatedAt != nil {
		return *i.Todo.UpdatedAt
	}
	return i.Todo.CreatedAt
}

// ItemDelegate renders one todo per line.
type ItemDelegate struct {
	now func() time.Time
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single list item line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TodoItem)
	if !ok {
		return
	}
	fmt.Fprint(w, d.renderLine(ti, index == m.Index()))
}

func (d ItemDelegate) renderLine(ti TodoItem, selected bool) string {
	now := time.Now
	if d.now != nil {
		now = d.now
	}

	check := "[ ]"
	text := ti.Todo.Text
	if ti.Todo.Completed {
		check = "[x]"
		text = theme.CompletedStyle.Render(text)
	}

	when := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(relativeTime(ti.changedAt(), now()))

	line := fmt.Sprintf("%s %s %s  %s", check, theme.ColorBadge(ti.Todo.Color), text, when)

	if selected {
		return theme.SelectedItemStyle.Render(line)
	}
	return theme.ListItemStyle.Render(line)
}

// relativeTime returns a human-friendly relative time string.
func relativeTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("Jan 02, 2006")
	}
}
