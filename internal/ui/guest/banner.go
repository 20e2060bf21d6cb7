// Package guest renders the quota banner shown to anonymous users.
package guest

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todolist/internal/model"
	"github.com/nhle/todolist/internal/theme"
)

// Banner renders quota, or "" when there is none (authenticated users).
func Banner(quota *model.GuestQuota, width int) string {
	if quota == nil {
		return ""
	}

	style := theme.GuestBannerStyle
	headline := fmt.Sprintf("Guest Mode: %d todos remaining", quota.Remaining)
	if quota.AtLimit() {
		style = theme.GuestLimitStyle
		headline = "Todo Limit Reached!"
	}

	usage := fmt.Sprintf("%d/%d todos used", quota.Count, quota.Limit)
	hint := "Press R to register and keep unlimited todos."

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Render(headline),
		usage,
		theme.HelpStyle.Render(hint),
	)
	if width > 4 {
		style = style.Width(width - 2)
	}
	return style.Render(content)
}
