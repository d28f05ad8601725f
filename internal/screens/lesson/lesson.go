// Package lesson is the screen that introduces a lesson before practice.
package lesson

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/fjala/internal/content"
	"github.com/abhisek/fjala/internal/markdown"
	"github.com/abhisek/fjala/internal/router"
	"github.com/abhisek/fjala/internal/screen"
	"github.com/abhisek/fjala/internal/screens/practice"
	"github.com/abhisek/fjala/internal/screens/review"
	"github.com/abhisek/fjala/internal/ui/components"
	"github.com/abhisek/fjala/internal/ui/layout"
	"github.com/abhisek/fjala/internal/ui/theme"
)

// Config holds the lesson and what the practice and review screens need.
type Config struct {
	Lesson   *content.Lesson
	Dialect  content.Dialect
	Practice practice.Config
	Events   review.AccuracyReader
}

// LessonScreen shows the lesson text and its vocabulary in the learner's
// dialect.
type LessonScreen struct {
	cfg    Config
	offset int
	height int
}

var _ screen.Screen = (*LessonScreen)(nil)
var _ screen.KeyHintProvider = (*LessonScreen)(nil)

// New creates a new LessonScreen.
func New(cfg Config) *LessonScreen {
	return &LessonScreen{cfg: cfg}
}

func (s *LessonScreen) Init() tea.Cmd {
	return nil
}

func (s *LessonScreen) Title() string {
	return s.cfg.Lesson.Title
}

func (s *LessonScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Practice"},
		{Key: "D", Description: "Due only"},
		{Key: "R", Description: "Review"},
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *LessonScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "up", "k":
		if s.offset > 0 {
			s.offset--
		}
	case "down", "j":
		s.offset++
	case "enter":
		return s, s.push(s.practiceScreen(false))
	case "d", "D":
		return s, s.push(s.practiceScreen(true))
	case "r", "R":
		return s, s.push(review.New(review.Config{
			Lesson:    s.cfg.Lesson,
			Dialect:   s.cfg.Dialect,
			Progress:  s.cfg.Practice.Session.Progress,
			Events:    s.cfg.Events,
			Generator: s.cfg.Practice.Session.Generator,
			Now:       s.cfg.Practice.Session.Now,
		}))
	}
	return s, nil
}

func (s *LessonScreen) practiceScreen(dueOnly bool) screen.Screen {
	cfg := s.cfg.Practice
	cfg.Slug = s.cfg.Lesson.Slug
	cfg.Dialect = s.cfg.Dialect
	cfg.Rules.DueOnly = dueOnly
	return practice.New(cfg)
}

func (s *LessonScreen) push(next screen.Screen) tea.Cmd {
	return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

func (s *LessonScreen) View(width, height int) string {
	l := s.cfg.Lesson
	cw := components.ContentWidth(width)

	var lines []string
	lines = append(lines, theme.Title.Render(l.Title))
	meta := fmt.Sprintf("%s · %s · %d words", l.Level, s.cfg.Dialect.DisplayName(), len(l.Vocab))
	if n := len(l.QuizItems()); n > 0 {
		meta += fmt.Sprintf(" · %d quiz", n)
	}
	lines = append(lines, theme.Hint.Render(meta), "")

	if l.BodyMarkdown != "" {
		for _, line := range strings.Split(markdown.Render([]byte(l.BodyMarkdown), cw), "\n") {
			lines = append(lines, theme.Body.Render(line))
		}
		lines = append(lines, "")
	}

	if len(l.Vocab) > 0 {
		lines = append(lines, theme.Subtitle.Render("Vocabulary"))
		for _, v := range l.Vocab {
			lines = append(lines, vocabLine(v, s.cfg.Dialect))
		}
	}

	// Clamp the scroll offset so the last line stays reachable.
	visible := max(height-2, 1)
	if limit := max(len(lines)-visible, 0); s.offset > limit {
		s.offset = limit
	}
	end := min(s.offset+visible, len(lines))

	block := strings.Join(lines[s.offset:end], "\n")
	return lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Width(cw).Render(block))
}

func vocabLine(v content.VocabItem, d content.Dialect) string {
	picked := v.Pick(d)
	line := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(picked.Phrase) +
		theme.Hint.Render(" · ") + theme.Body.Render(v.Gloss)
	if picked.IPA != "" {
		line += theme.Hint.Render(" /" + picked.IPA + "/")
	}
	if picked.Dialect != d {
		line += theme.Hint.Render(" (" + picked.Dialect.DisplayName() + ")")
	}
	return "  " + line
}
