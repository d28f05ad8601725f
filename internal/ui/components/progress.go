package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/fjala/internal/ui/theme"
)

// ProgressBar shows how far a session has come as "n/total" followed by a
// bar. Position is the question being shown, Done counts answered ones.
type ProgressBar struct {
	Position int
	Done     int
	Total    int
	Width    int
}

// NewProgressBar creates a progress bar for a session of total questions.
func NewProgressBar(position, done, total, width int) ProgressBar {
	return ProgressBar{Position: position, Done: done, Total: total, Width: width}
}

// Fraction is the answered share in [0, 1].
func (p ProgressBar) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	return min(1, max(0, float64(p.Done)/float64(p.Total)))
}

func (p ProgressBar) View() string {
	label := ""
	if p.Total > 0 {
		label = lipgloss.NewStyle().Foreground(theme.Text).
			Render(fmt.Sprintf("%d/%d", min(max(p.Position, 1), p.Total), p.Total)) + "  "
	}

	barWidth := max(4, p.Width-lipgloss.Width(label))
	filled := int(float64(barWidth) * p.Fraction())

	return label +
		theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled))
}
