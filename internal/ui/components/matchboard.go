package components

import (
	"math/rand/v2"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/fjala/internal/questions"
	"github.com/abhisek/fjala/internal/ui/theme"
)

// MatchBoard is the two-column view of a match_pairs question. The cursor
// moves with the arrow keys, Left/Right or Tab switch column and Enter or
// Space selects the item under the cursor.
type MatchBoard struct {
	Board *questions.MatchBoard

	side Side
	row  int

	// last is the outcome of the most recent selection.
	last questions.MatchOutcome
}

// Side aliases the board column type for callers of this package.
type Side = questions.Side

// NewMatchBoard builds the view for pairs with the right column shuffled.
func NewMatchBoard(pairs []questions.Pair, rules questions.MatchRules, r *rand.Rand) MatchBoard {
	b := questions.NewMatchBoard(pairs, rules)
	if r != nil {
		b.ShuffleRight(r)
	}
	return MatchBoard{Board: b, side: questions.Left}
}

// Update handles a key. It reports true once the board is done.
func (m MatchBoard) Update(msg tea.Msg) (MatchBoard, bool) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || m.Board.Done() {
		return m, m.Board.Done()
	}

	switch kmsg.String() {
	case "up", "k":
		if m.row > 0 {
			m.row--
		}
	case "down", "j":
		if m.row < m.Board.Len()-1 {
			m.row++
		}
	case "left", "h":
		m.side = questions.Left
	case "right", "l":
		m.side = questions.Right
	case "tab":
		if m.side == questions.Left {
			m.side = questions.Right
		} else {
			m.side = questions.Left
		}
	case "enter", "space", " ":
		m.last = m.Board.Select(m.side, m.row)
		// Jump to the other column after the first half of a pair.
		if m.last == questions.MatchSelected {
			if m.side == questions.Left {
				m.side = questions.Right
			} else {
				m.side = questions.Left
			}
		}
	}
	return m, m.Board.Done()
}

// Cursor returns the column and row under the cursor.
func (m MatchBoard) Cursor() (Side, int) {
	return m.side, m.row
}

// LastOutcome returns what the most recent selection did.
func (m MatchBoard) LastOutcome() questions.MatchOutcome {
	return m.last
}

// View renders both columns side by side.
func (m MatchBoard) View(width int) string {
	colWidth := (width - 6) / 2
	if colWidth < 12 {
		colWidth = 12
	}

	selSide, selRow, hasSel := m.Board.Selection()
	cell := func(side Side, i int) string {
		text := m.Board.Item(side, i)
		style := lipgloss.NewStyle().
			Width(colWidth).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Foreground(theme.Text)

		switch {
		case m.Board.IsMatched(side, i):
			style = style.Foreground(theme.Success).BorderForeground(theme.Success).Faint(true)
		case hasSel && selSide == side && selRow == i:
			style = style.Foreground(theme.Accent).BorderForeground(theme.Accent).Bold(true)
		}
		if m.side == side && m.row == i && !m.Board.Done() {
			style = style.BorderForeground(theme.Primary)
			text = "▸ " + text
		}
		return style.Render(text)
	}

	rows := make([]string, 0, m.Board.Len()+1)
	for i := 0; i < m.Board.Len(); i++ {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
			cell(questions.Left, i), "  ", cell(questions.Right, i)))
	}

	status := theme.Dimmed.Render(strings.Repeat(" ", 2) + m.Board.Result() + " matched")
	if m.last == questions.MatchMissed {
		status += "  " + theme.Incorrect.Render("not a pair")
	}
	if m.Board.Failed() {
		status += "  " + theme.Incorrect.Render("too many misses")
	}
	rows = append(rows, status)
	return strings.Join(rows, "\n")
}
