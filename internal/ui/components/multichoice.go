package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/fjala/internal/ui/theme"
)

// MultiChoice is a multiple-choice selector. Options are picked with the
// arrow keys and Enter, or directly with their number.
type MultiChoice struct {
	Options  []string
	Selected int

	// Chosen is set once an option has been picked.
	Chosen string
	Picked bool

	// Correct is revealed after the answer is scored.
	Correct  string
	Revealed bool
}

// NewMultiChoice creates a new multiple-choice component.
func NewMultiChoice(options []string) MultiChoice {
	return MultiChoice{Options: options}
}

// Update handles keyboard navigation and selection. It reports true once
// an option has been picked.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, bool) {
	if m.Picked {
		return m, false
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, false
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter":
		return m.pick(m.Selected), true
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if i := int(key[0] - '1'); i < len(m.Options) {
				return m.pick(i), true
			}
		}
	}
	return m, false
}

func (m MultiChoice) pick(i int) MultiChoice {
	if i < 0 || i >= len(m.Options) {
		return m
	}
	m.Selected = i
	m.Chosen = m.Options[i]
	m.Picked = true
	return m
}

// Reveal marks the correct option for display.
func (m *MultiChoice) Reveal(correct string) {
	m.Correct = correct
	m.Revealed = true
}

// View renders the options.
func (m MultiChoice) View() string {
	var b strings.Builder
	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.Revealed {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d)  %s", prefix, i+1, opt)

		var style lipgloss.Style
		switch {
		case m.Revealed && opt == m.Correct:
			style = theme.Correct
		case m.Revealed && opt == m.Chosen:
			style = theme.Incorrect
		case m.Revealed:
			style = theme.Dimmed
		case i == m.Selected:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
