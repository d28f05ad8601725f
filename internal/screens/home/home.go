package home

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/fjala/internal/content"
	"github.com/abhisek/fjala/internal/progress"
	"github.com/abhisek/fjala/internal/router"
	"github.com/abhisek/fjala/internal/screen"
	"github.com/abhisek/fjala/internal/screens/lesson"
	"github.com/abhisek/fjala/internal/screens/practice"
	"github.com/abhisek/fjala/internal/screens/review"
	"github.com/abhisek/fjala/internal/store"
	"github.com/abhisek/fjala/internal/ui/components"
	"github.com/abhisek/fjala/internal/ui/theme"
)

// Catalog lists lessons and loads one for practice.
type Catalog interface {
	ListLessons(ctx context.Context, publishedOnly bool) ([]store.LessonInfo, error)
	LoadPractice(ctx context.Context, slug string) (*content.Lesson, error)
}

// Deps are the collaborators of the home screen and the screens it opens.
// Practice.Loader defaults to Catalog.
type Deps struct {
	Catalog  Catalog
	Progress progress.Store
	Events   review.AccuracyReader
	Practice practice.Config
	Dialect  content.Dialect
	Now      func() time.Time
}

type homeLoadedMsg struct {
	Lessons  []store.LessonInfo
	Snapshot progress.Snapshot
	Err      error
}

type lessonOpenedMsg struct {
	Lesson *content.Lesson
	Err    error
}

type dialectSavedMsg struct {
	Dialect content.Dialect
	Err     error
}

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	deps     Deps
	menu     components.Menu
	lessons  []store.LessonInfo
	snapshot progress.Snapshot
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps Deps) *HomeScreen {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Practice.Loader == nil {
		deps.Practice.Loader = deps.Catalog
	}
	if deps.Practice.Session.Progress == nil {
		deps.Practice.Session.Progress = deps.Progress
	}
	h := &HomeScreen{
		deps:     deps,
		snapshot: progress.Snapshot{Dialect: deps.Dialect},
	}
	h.rebuildMenu()
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	deps := h.deps
	return func() tea.Msg {
		ctx := context.Background()
		lessons, err := deps.Catalog.ListLessons(ctx, true)
		if err != nil {
			return homeLoadedMsg{Err: err}
		}
		snap, err := progress.Load(ctx, deps.Progress, deps.Now(), deps.Dialect)
		return homeLoadedMsg{Lessons: lessons, Snapshot: snap, Err: err}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case homeLoadedMsg:
		h.loaded = true
		if msg.Err != nil {
			h.errMsg = msg.Err.Error()
			return h, nil
		}
		h.lessons = msg.Lessons
		h.snapshot = msg.Snapshot
		h.rebuildMenu()
		return h, func() tea.Msg {
			return screen.ProgressMsg{TotalXP: msg.Snapshot.TotalXP, Streak: msg.Snapshot.Streak}
		}

	case screen.ProgressMsg:
		if msg.TotalXP > h.snapshot.TotalXP {
			h.snapshot.LastPracticeDate = h.deps.Now().Format(time.DateOnly)
		}
		h.snapshot.TotalXP = msg.TotalXP
		h.snapshot.Streak = msg.Streak
		return h, nil

	case lessonOpenedMsg:
		if msg.Err != nil {
			h.errMsg = msg.Err.Error()
			return h, nil
		}
		h.errMsg = ""
		next := lesson.New(lesson.Config{
			Lesson:   msg.Lesson,
			Dialect:  h.snapshot.Dialect,
			Practice: h.deps.Practice,
			Events:   h.deps.Events,
		})
		return h, func() tea.Msg { return router.PushScreenMsg{Screen: next} }

	case dialectSavedMsg:
		if msg.Err != nil {
			h.errMsg = msg.Err.Error()
			return h, nil
		}
		h.snapshot.Dialect = msg.Dialect
		selected := h.menu.Selected
		h.rebuildMenu()
		h.menu.Selected = selected
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

// rebuildMenu lists the lessons followed by the dialect toggle and quit.
func (h *HomeScreen) rebuildMenu() {
	items := make([]components.MenuItem, 0, len(h.lessons)+2)
	for _, l := range h.lessons {
		slug := l.Slug
		detail := fmt.Sprintf("%s · %d words", l.Level, l.VocabCount)
		if l.QuizCount > 0 {
			detail += fmt.Sprintf(" · %d quiz", l.QuizCount)
		}
		items = append(items, components.MenuItem{
			Label:  l.Title,
			Detail: detail,
			Action: func() tea.Cmd { return h.openLesson(slug) },
		})
	}

	other := content.Gheg
	if h.snapshot.Dialect == content.Gheg {
		other = content.Tosk
	}
	items = append(items,
		components.MenuItem{
			Label:  "Dialect: " + h.snapshot.Dialect.DisplayName(),
			Detail: "Switch to " + other.DisplayName(),
			Action: func() tea.Cmd { return h.setDialect(other) },
		},
		components.MenuItem{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	)
	h.menu = components.NewMenu(items)
}

func (h *HomeScreen) openLesson(slug string) tea.Cmd {
	catalog := h.deps.Catalog
	return func() tea.Msg {
		l, err := catalog.LoadPractice(context.Background(), slug)
		return lessonOpenedMsg{Lesson: l, Err: err}
	}
}

func (h *HomeScreen) setDialect(d content.Dialect) tea.Cmd {
	ps := h.deps.Progress
	return func() tea.Msg {
		return dialectSavedMsg{Dialect: d, Err: ps.SetDialect(context.Background(), d)}
	}
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; estimate full terminal height
	// by adding back header (3) + footer (3) + frame gaps
	termHeight := height + 8
	compact := termHeight < 34 || width < 90

	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if !compact {
		sections = append(sections, renderMascotBox(MascotFor(h.snapshot, h.deps.Now()), cw))
	}

	next := progress.NextStreakMilestone(h.snapshot.Streak)
	sections = append(sections, renderStatsBar(
		h.snapshot.TotalXP, h.snapshot.Streak, next, h.snapshot.Dialect, cw, compact))

	switch {
	case !h.loaded:
		sections = append(sections, theme.Hint.Render("Loading lessons..."))
	case len(h.lessons) == 0 && h.errMsg == "":
		sections = append(sections, theme.Hint.Render("No lessons yet. Run `fjala seed --starter` to add some."))
	}
	if h.errMsg != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Error).Render(h.errMsg))
	}
	sections = append(sections, renderMenu(h.menu, cw))

	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
