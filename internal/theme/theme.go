package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todolist/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorPurple = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for the title bar.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// PanelStyle wraps forms, the profile card and dialogs.
var PanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// CompletedStyle renders the text of a completed todo.
var CompletedStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Strikethrough(true)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// ErrorStyle renders error messages.
var ErrorStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorRed)

// NoticeStyle renders success messages.
var NoticeStyle = lipgloss.NewStyle().
	Foreground(ColorGreen)

// TitleStyle is used for section titles inside panels.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorBlue).
	MarginBottom(1)

// GuestBannerStyle frames the guest quota banner.
var GuestBannerStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorYellow)

// GuestLimitStyle frames the banner once the quota is used up.
var GuestLimitStyle = GuestBannerStyle.
	BorderForeground(ColorRed)

// AvatarStyle renders the profile initial.
var AvatarStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorPurple).
	Padding(0, 1)

// TodoColor maps a todo color tag to a terminal color.
func TodoColor(color string) (lipgloss.TerminalColor, bool) {
	switch color {
	case model.ColorRed:
		return ColorRed, true
	case model.ColorOrange:
		return ColorOrange, true
	case model.ColorYellow:
		return ColorYellow, true
	case model.ColorGreen:
		return ColorGreen, true
	case model.ColorBlue:
		return ColorBlue, true
	case model.ColorPurple:
		return ColorPurple, true
	default:
		return nil, false
	}
}

// ColorBadge renders a small swatch for a todo color, or padding when the
// todo has none.
func ColorBadge(color string) string {
	c, ok := TodoColor(color)
	if !ok {
		return " "
	}
	return lipgloss.NewStyle().Foreground(c).Render("●")
}

// HealthStyle returns the header style for a backend health state.
func HealthStyle(state string) lipgloss.Style {
	base := HeaderStyle
	switch state {
	case "online":
		return base.Foreground(ColorGreen)
	case "offline":
		return base.Foreground(ColorRed)
	default:
		return base.Foreground(ColorGray)
	}
}
