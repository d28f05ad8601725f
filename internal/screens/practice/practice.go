// Package practice is the screen that runs a practice session.
package practice

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/fjala/internal/content"
	"github.com/abhisek/fjala/internal/questions"
	"github.com/abhisek/fjala/internal/router"
	"github.com/abhisek/fjala/internal/screen"
	"github.com/abhisek/fjala/internal/screens/summary"
	"github.com/abhisek/fjala/internal/session"
	"github.com/abhisek/fjala/internal/ui/components"
	"github.com/abhisek/fjala/internal/ui/layout"
)

// Config holds what the screen needs to start a session.
type Config struct {
	Loader  session.LessonLoader
	Session session.Deps
	Rules   session.Rules
	Slug    string
	Dialect content.Dialect

	// Rand shuffles the right column of match boards. Nil leaves it in
	// pair order.
	Rand *rand.Rand
}

// PracticeScreen implements screen.Screen for an active session.
type PracticeScreen struct {
	cfg  Config
	sess *session.Session

	// resumed screens reuse a session that is already loaded.
	resumed bool

	mc    components.MultiChoice
	input components.TextInput
	board components.MatchBoard

	result      *session.Result
	busy        bool
	confirmQuit bool
	errMsg      string
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)
var _ screen.EscapeHandler = (*PracticeScreen)(nil)

// New creates a screen that loads cfg.Slug when it starts.
func New(cfg Config) *PracticeScreen {
	return &PracticeScreen{
		cfg:  cfg,
		sess: session.New(cfg.Session, cfg.Rules),
	}
}

// Resume creates a screen over a session that is already running, for
// example one that was just restarted.
func Resume(cfg Config, sess *session.Session) *PracticeScreen {
	p := &PracticeScreen{cfg: cfg, sess: sess, resumed: true}
	p.syncWidgets()
	return p
}

// Session returns the underlying session.
func (p *PracticeScreen) Session() *session.Session {
	return p.sess
}

func (p *PracticeScreen) Init() tea.Cmd {
	if p.resumed {
		return p.focusCmd()
	}
	sess, loader, slug, dialect := p.sess, p.cfg.Loader, p.cfg.Slug, p.cfg.Dialect
	return func() tea.Msg {
		return loadedMsg{Err: sess.Load(context.Background(), loader, slug, dialect)}
	}
}

func (p *PracticeScreen) Title() string {
	if l := p.sess.Lesson(); l != nil {
		return l.Title
	}
	return "Practice"
}

// HandlesEscape keeps Esc for the quit prompt instead of leaving the
// screen at once.
func (p *PracticeScreen) HandlesEscape() bool {
	return p.errMsg == ""
}

func (p *PracticeScreen) KeyHints() []layout.KeyHint {
	if p.confirmQuit {
		return []layout.KeyHint{
			{Key: "Y", Description: "End session"},
			{Key: "N", Description: "Keep going"},
		}
	}
	switch p.sess.Phase() {
	case session.PhaseShowingResult:
		return []layout.KeyHint{{Key: "Enter", Description: "Continue"}}
	case session.PhasePresenting:
	default:
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}

	q := p.sess.Current()
	if q == nil {
		return nil
	}
	switch {
	case q.Type.IsMultipleChoice():
		return []layout.KeyHint{
			{Key: "1-4", Description: "Choose"},
			{Key: "↑↓ Enter", Description: "Select"},
			{Key: "S", Description: "Skip"},
			{Key: "Esc", Description: "Quit"},
		}
	case q.Type == questions.TypeMatchPairs:
		return []layout.KeyHint{
			{Key: "←→ ↑↓", Description: "Move"},
			{Key: "Enter", Description: "Pick"},
			{Key: "S", Description: "Give up"},
			{Key: "Esc", Description: "Quit"},
		}
	default:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
			{Key: "Enter on empty", Description: "Skip"},
			{Key: "Esc", Description: "Quit"},
		}
	}
}

func (p *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.Err != nil {
			p.errMsg = loadError(msg.Err)
			return p, nil
		}
		p.syncWidgets()
		return p, p.focusCmd()

	case answeredMsg:
		p.busy = false
		if msg.Err != nil {
			p.errMsg = msg.Err.Error()
			return p, nil
		}
		p.result = msg.Result
		p.mc.Reveal(msg.Result.CorrectAnswer)
		p.input.Submit(msg.Result.Correct)
		return p, func() tea.Msg {
			return screen.ProgressMsg{TotalXP: msg.Result.TotalXP, Streak: msg.Result.Streak}
		}

	case advancedMsg:
		p.busy = false
		if msg.Err != nil {
			p.errMsg = msg.Err.Error()
			return p, nil
		}
		if p.sess.Phase() == session.PhaseComplete {
			return p, p.showSummary()
		}
		p.result = nil
		p.syncWidgets()
		return p, p.focusCmd()

	case tea.KeyMsg:
		return p.handleKey(msg)
	}

	// Forward to the text input so the cursor keeps blinking.
	if q := p.sess.Current(); q != nil && q.Type == questions.TypeTypeWord && p.sess.Phase() == session.PhasePresenting {
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return p, cmd
	}
	return p, nil
}

func loadError(err error) string {
	if errors.Is(err, session.ErrNoQuestions) {
		return session.ErrNoQuestions.Error()
	}
	return err.Error()
}

// focusCmd starts the cursor when the current question is typed.
func (p *PracticeScreen) focusCmd() tea.Cmd {
	if q := p.sess.Current(); q != nil && q.Type == questions.TypeTypeWord {
		return p.input.Init()
	}
	return nil
}

// syncWidgets builds the answer widgets for the current question.
func (p *PracticeScreen) syncWidgets() {
	q := p.sess.Current()
	if q == nil {
		return
	}
	p.mc = components.NewMultiChoice(q.Options)
	p.input = components.NewTextInput("Shkruaj këtu...", 64)
	if q.Type == questions.TypeMatchPairs {
		p.board = components.NewMatchBoard(q.Pairs, p.sess.Rules().Match, p.cfg.Rand)
	}
}

func (p *PracticeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if p.errMsg != "" {
		return p, func() tea.Msg { return router.PopScreenMsg{} }
	}
	if p.busy {
		return p, nil
	}

	if p.confirmQuit {
		switch key {
		case "y", "Y":
			p.confirmQuit = false
			return p, p.showSummary()
		case "n", "N", "esc":
			p.confirmQuit = false
		}
		return p, nil
	}

	switch p.sess.Phase() {
	case session.PhaseShowingResult:
		switch key {
		case "esc":
			p.confirmQuit = true
			return p, nil
		case "enter", "space", " ":
			return p, p.next()
		}
		return p, nil

	case session.PhasePresenting:
		if key == "esc" {
			p.confirmQuit = true
			return p, nil
		}
		return p.handleAnswerKey(msg)
	}
	return p, nil
}

func (p *PracticeScreen) handleAnswerKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	q := p.sess.Current()
	if q == nil {
		return p, nil
	}
	key := msg.String()

	switch {
	case q.Type.IsMultipleChoice():
		if key == "s" || key == "S" {
			return p, p.submit("")
		}
		var picked bool
		p.mc, picked = p.mc.Update(msg)
		if picked {
			return p, p.submit(p.mc.Chosen)
		}
		return p, nil

	case q.Type == questions.TypeMatchPairs:
		if key == "s" || key == "S" {
			return p, p.submit(p.board.Board.Result())
		}
		var done bool
		p.board, done = p.board.Update(msg)
		if done {
			return p, p.submit(p.board.Board.Result())
		}
		return p, nil

	default:
		if key == "enter" {
			return p, p.submit(strings.TrimSpace(p.input.Value()))
		}
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return p, cmd
	}
}

// submit scores answer off the UI goroutine.
func (p *PracticeScreen) submit(answer string) tea.Cmd {
	p.busy = true
	sess := p.sess
	return func() tea.Msg {
		res, err := sess.Submit(context.Background(), answer)
		return answeredMsg{Result: res, Err: err}
	}
}

func (p *PracticeScreen) next() tea.Cmd {
	p.busy = true
	sess := p.sess
	return func() tea.Msg {
		return advancedMsg{Err: sess.Next(context.Background())}
	}
}

// showSummary replaces this screen with the session summary. Restarting
// from there resumes the same session in a new practice screen.
func (p *PracticeScreen) showSummary() tea.Cmd {
	cfg, sess := p.cfg, p.sess
	restart := func() tea.Cmd {
		return func() tea.Msg {
			if err := sess.Restart(context.Background()); err != nil {
				return router.PopScreenMsg{}
			}
			return router.ReplaceScreenMsg{Screen: Resume(cfg, sess)}
		}
	}
	sum := summary.New(sess.Summary(), restart)
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: sum}
	}
}
