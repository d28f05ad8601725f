package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/fjala/internal/content"
	"github.com/abhisek/fjala/internal/ui/components"
	"github.com/abhisek/fjala/internal/ui/theme"
)

// Block-letter title (same art as welcome/banner.go).
const titleFull = `███████╗     ██╗ █████╗ ██╗      █████╗
██╔════╝     ██║██╔══██╗██║     ██╔══██╗
█████╗       ██║███████║██║     ███████║
██╔══╝  ██   ██║██╔══██║██║     ██╔══██║
██║     ╚█████╔╝██║  ██║███████╗██║  ██║
╚═╝      ╚════╝ ╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝`

const titleCompact = "F · J · A · L · A"

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	art := titleFull
	if compact {
		art = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(art))
}

// renderStatsBar renders XP, streak and dialect in a bordered box
// matching content width.
func renderStatsBar(xp, streak, nextMilestone int, dialect content.Dialect, cw int, compact bool) string {
	xpStyle := lipgloss.NewStyle().Foreground(theme.Gold).Bold(true)
	streakStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	dialectStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)

	var stats string
	if compact {
		stats = fmt.Sprintf("%s %s %s",
			xpStyle.Render(fmt.Sprintf("✦%d", xp)),
			streakStyle.Render(fmt.Sprintf("🔥%d", streak)),
			dialectStyle.Render(strings.ToUpper(dialect.DisplayName())),
		)
	} else {
		stats = fmt.Sprintf("%s  %s  %s",
			xpStyle.Render(fmt.Sprintf("✦ %d XP", xp)),
			streakStyle.Render(fmt.Sprintf("🔥 %d DAY STREAK", streak)),
			dialectStyle.Render(strings.ToUpper(dialect.DisplayName())),
		)
		if nextMilestone > streak {
			stats += "\n" + lipgloss.NewStyle().Foreground(theme.TextDim).
				Render(fmt.Sprintf("%d more days to a %d-day streak", nextMilestone-streak, nextMilestone))
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

// renderMenu renders each menu item as a line with its detail beneath
// the selected one.
func renderMenu(menu components.Menu, cw int) string {
	selectedStyle := lipgloss.NewStyle().
		Foreground(theme.BgDark).
		Background(theme.Gold).
		Bold(true)
	normalStyle := lipgloss.NewStyle().Foreground(theme.Text)
	disabledStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	var lines []string
	for i, item := range menu.Items {
		switch {
		case item.Disabled:
			lines = append(lines, disabledStyle.Render("   "+item.Label))
		case i == menu.Selected:
			lines = append(lines, selectedStyle.Render(" ▸ "+item.Label+" "))
			if item.Detail != "" {
				lines = append(lines, disabledStyle.Render("   "+item.Detail))
			}
		default:
			lines = append(lines, normalStyle.Render("   "+item.Label))
		}
	}

	return components.Card(strings.Join(lines, "\n"), cw)
}

// renderMascotBox renders the mascot centered in a box matching content width.
func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}
