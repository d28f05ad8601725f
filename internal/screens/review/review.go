// Package review shows the spaced-repetition state of a lesson's
// practiced questions.
package review

import (
	"context"
	"fmt"
	"image/color"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/fjala/internal/content"
	"github.com/abhisek/fjala/internal/progress"
	"github.com/abhisek/fjala/internal/questions"
	"github.com/abhisek/fjala/internal/router"
	"github.com/abhisek/fjala/internal/screen"
	"github.com/abhisek/fjala/internal/session"
	"github.com/abhisek/fjala/internal/spacedrep"
	"github.com/abhisek/fjala/internal/store"
	"github.com/abhisek/fjala/internal/ui/layout"
	"github.com/abhisek/fjala/internal/ui/theme"
)

// AccuracyReader reports lifetime answer accuracy for a lesson.
type AccuracyReader interface {
	LessonAccuracy(ctx context.Context, slug string) (store.Accuracy, error)
}

// Config holds the collaborators of the review screen. Events is optional.
type Config struct {
	Lesson    *content.Lesson
	Dialect   content.Dialect
	Progress  progress.Store
	Events    AccuracyReader
	Generator *questions.Generator
	Now       func() time.Time
}

type reviewLoadedMsg struct {
	Items    []session.ReviewItem
	Accuracy store.Accuracy
	Err      error
}

// ReviewScreen lists practiced questions, due items first.
type ReviewScreen struct {
	cfg      Config
	items    []session.ReviewItem
	accuracy store.Accuracy
	dueOnly  bool
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*ReviewScreen)(nil)
var _ screen.KeyHintProvider = (*ReviewScreen)(nil)

// New creates a new ReviewScreen.
func New(cfg Config) *ReviewScreen {
	if cfg.Generator == nil {
		cfg.Generator = questions.New(questions.DefaultConfig())
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &ReviewScreen{cfg: cfg, expanded: make(map[int]bool)}
}

func (s *ReviewScreen) Init() tea.Cmd {
	cfg := s.cfg
	return func() tea.Msg {
		ctx := context.Background()

		rec, err := cfg.Progress.PracticeRecord(ctx, session.LessonKey(cfg.Lesson))
		if err != nil {
			return reviewLoadedMsg{Err: err}
		}
		msg := reviewLoadedMsg{
			Items: session.Review(cfg.Generator, cfg.Lesson, cfg.Dialect, rec, cfg.Now(), false),
		}
		if cfg.Events != nil {
			// Accuracy is decoration; a failed query leaves it blank.
			msg.Accuracy, _ = cfg.Events.LessonAccuracy(ctx, cfg.Lesson.Slug)
		}
		return msg
	}
}

func (s *ReviewScreen) Title() string {
	return "Review"
}

func (s *ReviewScreen) KeyHints() []layout.KeyHint {
	filter := "Due only"
	if s.dueOnly {
		filter = "Show all"
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "D", Description: filter},
		{Key: "Esc", Description: "Back"},
	}
}

// visible returns the items shown under the current filter.
func (s *ReviewScreen) visible() []session.ReviewItem {
	if !s.dueOnly {
		return s.items
	}
	var out []session.ReviewItem
	for _, it := range s.items {
		if it.Status == spacedrep.StatusDue {
			out = append(out, it)
		}
	}
	return out
}

func (s *ReviewScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case reviewLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.items = msg.Items
			s.accuracy = msg.Accuracy
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.visible())-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		case "d", "D":
			s.dueOnly = !s.dueOnly
			s.selected = 0
			s.expanded = make(map[int]bool)
		}
	}
	return s, nil
}

func (s *ReviewScreen) View(width, height int) string {
	if s.errMsg != "" {
		return layout.Centered(fmt.Sprintf("\n\nError: %s", s.errMsg), width,
			lipgloss.NewStyle().Foreground(theme.Error))
	}
	if !s.loaded {
		return layout.Centered("\n\n  Loading review...", width, theme.Hint)
	}

	var b strings.Builder
	b.WriteString(layout.Centered(s.cfg.Lesson.Title, width, theme.Title))
	b.WriteString("\n")
	b.WriteString(layout.Centered(s.headline(), width, theme.Hint))
	b.WriteString("\n\n")

	items := s.visible()
	if len(items) == 0 {
		empty := "Nothing practiced yet. Start a session!"
		if s.dueOnly {
			empty = "Nothing due right now."
		}
		b.WriteString(layout.Centered(empty, width, theme.Hint.Italic(true)))
		return b.String()
	}

	now := s.cfg.Now()
	for i, it := range items {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		prompt := it.Prompt
		if prompt == "" {
			prompt = it.ID
		}
		line := fmt.Sprintf("%s%-8s %s", prefix, it.Status, prompt)

		style := lipgloss.NewStyle().Foreground(statusColor(it.Status))
		if i == s.selected {
			style = style.Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			detail := fmt.Sprintf("    %s · answer %q · %d right, %d wrong · ease %d · %s",
				it.Type.Label(), it.Answer, it.Correct, it.Wrong, it.Ease, dueIn(it.NextDue, now))
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Hint.Render(detail)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (s *ReviewScreen) headline() string {
	var due int
	for _, it := range s.items {
		if it.Status == spacedrep.StatusDue {
			due++
		}
	}
	line := fmt.Sprintf("%d practiced · %d due", len(s.items), due)
	if s.accuracy.Answered > 0 {
		line += fmt.Sprintf(" · %.0f%% lifetime accuracy", s.accuracy.Ratio()*100)
	}
	return line
}

func dueIn(due, now time.Time) string {
	if !due.After(now) {
		return "due now"
	}
	d := due.Sub(now)
	if d < 24*time.Hour {
		return fmt.Sprintf("due in %dh", int(d.Hours())+1)
	}
	return fmt.Sprintf("due in %dd", int(d.Hours()/24))
}

func statusColor(st spacedrep.Status) color.Color {
	switch st {
	case spacedrep.StatusDue:
		return theme.Accent
	case spacedrep.StatusKnown:
		return theme.Success
	default:
		return theme.Text
	}
}
