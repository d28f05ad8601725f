package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/fjala/internal/router"
	"github.com/abhisek/fjala/internal/screen"
	"github.com/abhisek/fjala/internal/session"
	"github.com/abhisek/fjala/internal/ui/components"
	"github.com/abhisek/fjala/internal/ui/layout"
	"github.com/abhisek/fjala/internal/ui/theme"
)

const (
	buttonAgain = iota
	buttonHome
)

// SummaryScreen displays the session summary.
type SummaryScreen struct {
	summary   session.SessionSummary
	onRestart func() tea.Cmd
	selected  int
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen. onRestart builds the command for
// "Practice again"; nil hides the button.
func New(summary session.SessionSummary, onRestart func() tea.Cmd) *SummaryScreen {
	s := &SummaryScreen{summary: summary, onRestart: onRestart}
	if onRestart == nil {
		s.selected = buttonHome
	}
	return s
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←→", Description: "Choose"},
		{Key: "Enter", Description: "Confirm"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "left", "h", "shift+tab":
		if s.onRestart != nil {
			s.selected = buttonAgain
		}
	case "right", "l", "tab":
		s.selected = buttonHome
	case "r":
		if s.onRestart != nil {
			return s, s.onRestart()
		}
	case "esc":
		return s, func() tea.Msg { return router.PopToRootMsg{} }
	case "enter":
		if s.selected == buttonAgain && s.onRestart != nil {
			return s, s.onRestart()
		}
		return s, func() tea.Msg { return router.PopToRootMsg{} }
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	var b strings.Builder

	headline := "Session complete!"
	if sum.GameOver {
		headline = "Out of hearts"
	}
	b.WriteString(layout.Centered(headline, width, theme.Title))
	b.WriteString("\n")
	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	b.WriteString(layout.Centered(fmt.Sprintf("%s · %d:%02d", sum.Lesson, mins, secs), width, theme.Hint))
	b.WriteString("\n\n")

	rows := []string{
		statRow("Accuracy", fmt.Sprintf("%d%%", sum.Accuracy)),
		statRow("Correct", fmt.Sprintf("%d / %d", sum.Correct, sum.Answered)),
		statRow("Skipped", fmt.Sprintf("%d", sum.Skipped)),
		statRow("XP earned", lipgloss.NewStyle().Foreground(theme.Gold).Render(fmt.Sprintf("+%d", sum.XPEarned))),
		statRow("Total XP", fmt.Sprintf("%d", sum.TotalXP)),
		statRow("Streak", streakLine(sum.Streak, sum.NextMilestone)),
	}
	if sum.HeartsEnabled {
		rows = append(rows, statRow("Hearts", fmt.Sprintf("%d left", sum.HeartsLeft)))
	}
	cw := components.ContentWidth(width)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, components.Card(strings.Join(rows, "\n"), cw)))
	b.WriteString("\n\n")

	labels := []string{"Practice again", "Home"}
	selected := s.selected
	if s.onRestart == nil {
		labels = labels[1:]
		selected = 0
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, components.ButtonRow(labels, selected)))
	return b.String()
}

func statRow(label, value string) string {
	return theme.Hint.Render(fmt.Sprintf("%-12s", label)) + theme.Body.Render(value)
}

func streakLine(streak, next int) string {
	if next <= streak {
		return fmt.Sprintf("🔥 %d days", streak)
	}
	return fmt.Sprintf("🔥 %d days · %d to next milestone", streak, next-streak)
}
