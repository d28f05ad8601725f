package welcome

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/fjala/internal/content"
	"github.com/abhisek/fjala/internal/router"
	"github.com/abhisek/fjala/internal/screen"
	"github.com/abhisek/fjala/internal/ui/components"
	"github.com/abhisek/fjala/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	phase1End    = 500 * time.Millisecond
	phase2End    = 1500 * time.Millisecond
	totalDur     = 2500 * time.Millisecond
)

const mascotArt = `  ╭───────────╮
  │ ╭───────╮ │
  │ │ ◉   ◉ │ │
  │ │   ▽   │ │
  │ ├───────┤ │
  │ │sq ⇄ en│ │
  │ ╰───────╯ │
  ╰───────────╯`

// sparkle frames cycle around the mascot
var sparkleFrames = []string{"★", "✦"}

type tickMsg time.Time

type dialectSavedMsg struct {
	Dialect content.Dialect
	Err     error
}

// DialectSaver persists the chosen dialect.
type DialectSaver interface {
	SetDialect(ctx context.Context, d content.Dialect) error
}

// WelcomeScreen plays a short splash and asks a first-time learner which
// dialect to study, then transitions to the home screen.
type WelcomeScreen struct {
	saver        DialectSaver
	homeFactory  func(content.Dialect) screen.Screen
	menu         components.Menu
	elapsed      time.Duration
	tickCount    int
	transitioned bool
	errMsg       string
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that saves the chosen dialect with saver and
// transitions to the screen produced by homeFactory.
func New(saver DialectSaver, homeFactory func(content.Dialect) screen.Screen) *WelcomeScreen {
	w := &WelcomeScreen{saver: saver, homeFactory: homeFactory}
	var items []components.MenuItem
	for _, d := range content.AllDialects() {
		items = append(items, components.MenuItem{
			Label:  d.DisplayName(),
			Detail: dialectBlurb(d),
			Action: func() tea.Cmd { return w.choose(d) },
		})
	}
	w.menu = components.NewMenu(items)
	return w
}

func dialectBlurb(d content.Dialect) string {
	switch d {
	case content.Gheg:
		return "northern Albania, Kosovo"
	case content.Tosk:
		return "southern Albania, standard Albanian"
	}
	return ""
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		return w, tea.Tick(tickInterval, func(t time.Time) tea.Msg {
			return tickMsg(t)
		})

	case dialectSavedMsg:
		if msg.Err != nil {
			w.errMsg = msg.Err.Error()
			w.transitioned = false
			return w, nil
		}
		home := w.homeFactory(msg.Dialect)
		return w, func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: home}
		}

	case tea.KeyPressMsg:
		// A key during the animation skips to the dialect prompt.
		if w.elapsed < totalDur {
			w.elapsed = totalDur
			return w, nil
		}
		if w.transitioned {
			return w, nil
		}
		var cmd tea.Cmd
		w.menu, cmd = w.menu.Update(msg)
		return w, cmd
	}

	return w, nil
}

// choose saves d once; further picks are ignored until the save fails.
func (w *WelcomeScreen) choose(d content.Dialect) tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	saver := w.saver
	return func() tea.Msg {
		return dialectSavedMsg{Dialect: d, Err: saver.SetDialect(context.Background(), d)}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	mascotStyle := lipgloss.NewStyle().Foreground(theme.Primary)

	// Phase 1+: mascot
	rendered := mascotStyle.Render(mascotArt)

	// Phase 2+: sparkles around mascot
	if w.elapsed >= phase1End {
		frame := w.tickCount % len(sparkleFrames)
		sparkle := sparkleFrames[frame]

		accentStyle := lipgloss.NewStyle().Foreground(theme.Accent)
		secondaryStyle := lipgloss.NewStyle().Foreground(theme.Gold)

		s1 := accentStyle.Render(sparkle)
		s2 := secondaryStyle.Render(sparkle)

		lines := strings.Split(rendered, "\n")
		if len(lines) > 1 {
			lines[0] = s1 + "  " + lines[0] + "  " + s2
		}
		if len(lines) > 3 {
			lines[3] = s2 + "  " + lines[3] + "  " + s1
		}
		if len(lines) > 6 {
			lines[6] = s1 + "  " + lines[6] + "  " + s2
		}
		rendered = strings.Join(lines, "\n")
	}

	sections = append(sections, rendered)

	// Phase 3+: banner + tagline
	if w.elapsed >= phase2End {
		sections = append(sections, "", RenderBanner(width), "")
		tagline := lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render("Mirë se vini! Let's learn Albanian.")
		sections = append(sections, tagline)
	}

	// Dialect prompt once the animation has played.
	if w.elapsed >= totalDur {
		sections = append(sections, "",
			theme.Subtitle.Render("Which dialect would you like to learn?"),
			"", w.menu.View())
		if w.errMsg != "" {
			sections = append(sections, "", lipgloss.NewStyle().Foreground(theme.Error).Render(w.errMsg))
		}
		sections = append(sections, "", lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("↑↓ to choose, Enter to start"))
	}

	body := strings.Join(sections, "\n")

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}
