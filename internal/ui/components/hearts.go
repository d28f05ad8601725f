package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/fjala/internal/ui/theme"
)

// Hearts renders left full hearts followed by the lost ones.
func Hearts(left, total int) string {
	if left < 0 {
		left = 0
	}
	if left > total {
		left = total
	}
	full := lipgloss.NewStyle().Foreground(theme.Heart).Render(strings.Repeat("♥", left))
	lost := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("♡", total-left))
	return full + lost
}
