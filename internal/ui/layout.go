package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todolist/internal/theme"
)

// Layout holds the terminal dimensions and the fixed chrome around the
// content area.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
}

// NewLayout creates a Layout with one-line header and status bar.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
	}
}

// ContentHeight returns the height left for the content area.
func (l Layout) ContentHeight() int {
	h := l.Height - l.HeaderHeight - l.StatusBarHeight
	if h < 0 {
		return 0
	}
	return h
}

// fill joins left and right with a gap that pads the row to the full
// width using style's background.
func (l Layout) fill(style lipgloss.Style, left string, right ...string) string {
	used := lipgloss.Width(left)
	for _, r := range right {
		used += lipgloss.Width(r)
	}
	gap := l.Width - used
	if gap < 0 {
		gap = 0
	}
	filler := lipgloss.NewStyle().
		Width(gap).
		Background(style.GetBackground()).
		Render("")

	row := append([]string{left, filler}, right...)
	return lipgloss.JoinHorizontal(lipgloss.Top, row...)
}

// RenderHeader renders the title on the left, then the session label and
// the backend status on the right.
func (l Layout) RenderHeader(title, session, health string) string {
	return l.fill(theme.HeaderStyle,
		theme.HeaderStyle.Render(title),
		theme.HeaderStyle.Render(session),
		theme.HealthStyle(health).Render("● "+health),
	)
}

// RenderStatusBar renders the bottom bar with keyboard hints.
func (l Layout) RenderStatusBar(hints string) string {
	return l.fill(theme.StatusBarStyle, theme.StatusBarStyle.Render(hints))
}

// RenderWithFrame stacks header, content and status bar.
func (l Layout) RenderWithFrame(header, content, statusBar string) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		content,
		statusBar,
	)
}
