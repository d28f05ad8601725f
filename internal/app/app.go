package app

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/fjala/internal/content"
	"github.com/abhisek/fjala/internal/progress"
	"github.com/abhisek/fjala/internal/questions"
	"github.com/abhisek/fjala/internal/router"
	"github.com/abhisek/fjala/internal/screen"
	"github.com/abhisek/fjala/internal/screens/home"
	"github.com/abhisek/fjala/internal/screens/practice"
	"github.com/abhisek/fjala/internal/screens/welcome"
	"github.com/abhisek/fjala/internal/session"
	"github.com/abhisek/fjala/internal/store"
	"github.com/abhisek/fjala/internal/ui/layout"
)

// Deps are the collaborators of the terminal app. Events, Tips and
// Logger are optional.
type Deps struct {
	Content  home.Catalog
	Progress progress.Store
	Events   store.EventRepo
	Tips     session.TipSource
	Rules    session.Rules

	// Dialect is used when the learner has not picked one yet and
	// AskDialect is false.
	Dialect content.Dialect

	// AskDialect shows the dialect chooser on first run.
	AskDialect bool

	// StartLesson opens practice for this lesson slug straight away.
	StartLesson string

	Logger logrus.FieldLogger
	Rand   *rand.Rand
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	start  tea.Cmd
	xp     int
	streak int
	width  int
	height int
}

// newAppModel picks the first screen: the dialect chooser for a new
// learner, the home screen otherwise.
func newAppModel(ctx context.Context, deps Deps) (AppModel, error) {
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}

	snap, err := progress.Load(ctx, deps.Progress, time.Now(), deps.Dialect)
	if err != nil {
		return AppModel{}, fmt.Errorf("load progress: %w", err)
	}
	_, chosen, err := deps.Progress.Dialect(ctx)
	if err != nil {
		return AppModel{}, fmt.Errorf("load dialect: %w", err)
	}

	pcfg := practice.Config{
		Loader: deps.Content,
		Session: session.Deps{
			Progress:  deps.Progress,
			Generator: questions.New(questions.DefaultConfig(), questions.WithRand(deps.Rand)),
			Tips:      deps.Tips,
			Logger:    deps.Logger,
		},
		Rules: deps.Rules,
		Rand:  deps.Rand,
	}
	if deps.Events != nil {
		pcfg.Session.Events = deps.Events
	}

	newHome := func(d content.Dialect) screen.Screen {
		hd := home.Deps{
			Catalog:  deps.Content,
			Progress: deps.Progress,
			Practice: pcfg,
			Dialect:  d,
		}
		if deps.Events != nil {
			hd.Events = deps.Events
		}
		return home.New(hd)
	}

	m := AppModel{xp: snap.TotalXP, streak: snap.Streak}

	var root screen.Screen
	if !chosen && deps.AskDialect && deps.StartLesson == "" {
		root = welcome.New(deps.Progress, newHome)
	} else {
		root = newHome(snap.Dialect)
	}
	m.router = router.New(root)
	m.start = root.Init()

	if deps.StartLesson != "" {
		cfg := pcfg
		cfg.Slug = deps.StartLesson
		cfg.Dialect = snap.Dialect
		p := practice.New(cfg)
		m.start = tea.Batch(m.start, func() tea.Msg { return router.PushScreenMsg{Screen: p} })
	}
	return m, nil
}

func (m AppModel) Init() tea.Cmd {
	return m.start
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case screen.ProgressMsg:
		m.xp = msg.TotalXP
		m.streak = msg.Streak
		return m, m.router.Broadcast(msg)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscapeHandler); ok && h.HandlesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.xp, m.streak, m.width)
	footer := layout.RenderFooter(m.footerHints(), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

func (m AppModel) footerHints() []layout.KeyHint {
	if p, ok := m.router.Active().(screen.KeyHintProvider); ok {
		return append(p.KeyHints(), layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program and blocks until it exits or ctx is
// cancelled.
func Run(ctx context.Context, deps Deps) error {
	m, err := newAppModel(ctx, deps)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
