package lesson

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/fjala/internal/content"
	"github.com/abhisek/fjala/internal/progress"
	"github.com/abhisek/fjala/internal/router"
	"github.com/abhisek/fjala/internal/screens/practice"
	"github.com/abhisek/fjala/internal/screens/review"
	"github.com/abhisek/fjala/internal/session"
)

func greetings(t *testing.T) *content.Lesson {
	t.Helper()
	pack, err := content.Starter()
	if err != nil {
		t.Fatal(err)
	}
	for i := range pack.Lessons {
		if pack.Lessons[i].Slug == "greetings" {
			return &pack.Lessons[i]
		}
	}
	t.Fatal("starter pack has no greetings lesson")
	return nil
}

func newTestScreen(t *testing.T, d content.Dialect) *LessonScreen {
	t.Helper()
	return New(Config{
		Lesson:  greetings(t),
		Dialect: d,
		Practice: practice.Config{
			Session: session.Deps{Progress: progress.NewMemoryStore()},
			Rules:   session.DefaultRules(),
		},
	})
}

func pushed(t *testing.T, cmd tea.Cmd) router.PushScreenMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	return msg
}

func TestLessonScreen_ShowsDialectVocab(t *testing.T) {
	s := newTestScreen(t, content.Gheg)
	v := s.View(100, 60)
	for _, want := range []string{"Vocabulary", "tungjatjeta", "Gheg"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if s.Title() != greetings(t).Title {
		t.Errorf("Title = %q", s.Title())
	}
}

func TestLessonScreen_EnterPushesPractice(t *testing.T) {
	s := newTestScreen(t, content.Tosk)
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	msg := pushed(t, cmd)
	p, ok := msg.Screen.(*practice.PracticeScreen)
	if !ok {
		t.Fatalf("pushed %T, want practice", msg.Screen)
	}
	if p.Session().Rules().DueOnly {
		t.Error("Enter should practice every question")
	}
}

func TestLessonScreen_DuePractice(t *testing.T) {
	s := newTestScreen(t, content.Tosk)
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'd', Text: "d"})
	p, ok := pushed(t, cmd).Screen.(*practice.PracticeScreen)
	if !ok {
		t.Fatal("expected practice screen")
	}
	if !p.Session().Rules().DueOnly {
		t.Error("D should practice due questions only")
	}
}

func TestLessonScreen_ReviewKey(t *testing.T) {
	s := newTestScreen(t, content.Tosk)
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	if _, ok := pushed(t, cmd).Screen.(*review.ReviewScreen); !ok {
		t.Error("expected review screen")
	}
}

func TestLessonScreen_ScrollClamps(t *testing.T) {
	s := newTestScreen(t, content.Tosk)
	for i := 0; i < 200; i++ {
		s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	s.View(100, 10)
	if s.offset == 0 || s.offset >= 200 {
		t.Errorf("offset = %d, want clamped to content", s.offset)
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	s.View(100, 10)
}
