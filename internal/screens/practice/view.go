package practice

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/fjala/internal/questions"
	"github.com/abhisek/fjala/internal/session"
	"github.com/abhisek/fjala/internal/ui/components"
	"github.com/abhisek/fjala/internal/ui/layout"
	"github.com/abhisek/fjala/internal/ui/theme"
)

func (p *PracticeScreen) View(width, height int) string {
	if p.errMsg != "" {
		return p.renderError(width)
	}
	if p.confirmQuit {
		return p.renderQuitConfirm(width)
	}

	st := p.sess.State()
	if st.Question == nil {
		return layout.Centered("\n\nLoading lesson...", width, theme.Hint)
	}

	var b strings.Builder
	b.WriteString(p.renderStatus(st, width))
	b.WriteString("\n\n")

	q := st.Question
	b.WriteString(layout.Centered(q.Type.Label(), width, theme.Subtitle))
	b.WriteString("\n")
	b.WriteString(layout.Centered(q.Prompt, width, theme.Title))
	b.WriteString("\n\n")
	if q.AudioURL != "" {
		b.WriteString(layout.Centered("♪ "+q.AudioURL, width, theme.Hint))
		b.WriteString("\n\n")
	}

	b.WriteString(p.renderAnswerArea(q, width))

	if p.result != nil {
		b.WriteString("\n\n")
		b.WriteString(p.renderResult(p.result, width))
	}
	return b.String()
}

// renderStatus renders the progress bar, hearts and session XP.
func (p *PracticeScreen) renderStatus(st session.State, width int) string {
	done := st.Index
	if p.result != nil {
		done++
	}
	right := lipgloss.NewStyle().Foreground(theme.Gold).Render(fmt.Sprintf("+%d XP", st.Stats.XP))
	if st.HeartsOn {
		right = components.Hearts(st.Hearts, p.sess.Rules().MaxHearts) + "  " + right
	}

	barWidth := components.ContentWidth(width) - lipgloss.Width(right) - 2
	bar := components.NewProgressBar(st.Index+1, done, st.Total, barWidth).View()
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, bar+"  "+right)
}

func (p *PracticeScreen) renderAnswerArea(q *questions.Question, width int) string {
	switch {
	case q.Type.IsMultipleChoice():
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, p.mc.View())
	case q.Type == questions.TypeMatchPairs:
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, p.board.View(components.ContentWidth(width)))
	default:
		return layout.Centered("› "+p.input.View(), width, theme.Body)
	}
}

func (p *PracticeScreen) renderResult(res *session.Result, width int) string {
	var lines []string
	switch {
	case res.Correct:
		lines = append(lines, theme.Correct.Render(fmt.Sprintf("Saktë! +%d XP", res.XP)))
	case res.Skipped:
		lines = append(lines, theme.Dimmed.Render("Skipped"))
		lines = append(lines, theme.Body.Render("Answer: "+res.CorrectAnswer))
	default:
		lines = append(lines, theme.Incorrect.Render(fmt.Sprintf("Not quite. +%d XP", res.XP)))
		lines = append(lines, theme.Body.Render("Answer: "+res.CorrectAnswer))
	}
	if res.Explanation != "" {
		lines = append(lines, theme.Hint.Render(res.Explanation))
	}
	if res.Tip != "" {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(theme.Accent).Render("💡 "+res.Tip))
	}
	if res.GameOver {
		lines = append(lines, "", theme.Incorrect.Render("Out of hearts!"))
	}

	cw := components.ContentWidth(width)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, components.Card(strings.Join(lines, "\n"), cw))
}

func (p *PracticeScreen) renderQuitConfirm(width int) string {
	body := theme.Title.Render("End this session?") + "\n\n" +
		theme.Hint.Render("Your XP so far is already saved.") + "\n\n" +
		theme.Body.Render("[Y] End   [N] Keep going")
	return "\n\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center, components.Card(body, components.ContentWidth(width)))
}

func (p *PracticeScreen) renderError(width int) string {
	body := theme.Incorrect.Render("Could not start practice") + "\n\n" +
		theme.Body.Render(p.errMsg) + "\n\n" +
		theme.Hint.Render("Press any key to go back")
	return "\n\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center, components.Card(body, components.ContentWidth(width)))
}
