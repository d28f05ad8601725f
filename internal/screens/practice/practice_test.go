package practice

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/fjala/internal/content"
	"github.com/abhisek/fjala/internal/progress"
	"github.com/abhisek/fjala/internal/questions"
	"github.com/abhisek/fjala/internal/router"
	"github.com/abhisek/fjala/internal/screen"
	"github.com/abhisek/fjala/internal/screens/summary"
	"github.com/abhisek/fjala/internal/session"
)

var testNow = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

type fakeLoader struct {
	lesson *content.Lesson
}

func (f fakeLoader) LoadPractice(context.Context, string) (*content.Lesson, error) {
	return f.lesson, nil
}

func testLesson() *content.Lesson {
	glosses := []string{"water", "bread", "coffee", "cheese"}
	phrases := []string{"ujë", "bukë", "kafe", "djathë"}
	l := &content.Lesson{ID: "lesson-1", Slug: "food", Title: "Food"}
	for i := range glosses {
		l.Vocab = append(l.Vocab, content.VocabItem{
			ID:       fmt.Sprintf("v%d", i),
			BaseTerm: phrases[i],
			Gloss:    glosses[i],
		})
	}
	return l
}

func newTestScreen(t *testing.T, lesson *content.Lesson, ps progress.Store, rules session.Rules) *PracticeScreen {
	t.Helper()
	return New(Config{
		Loader: fakeLoader{lesson: lesson},
		Session: session.Deps{
			Progress:  ps,
			Generator: questions.New(questions.DefaultConfig(), questions.WithRand(rand.New(rand.NewPCG(1, 2)))),
			Now:       func() time.Time { return testNow },
		},
		Rules:   rules,
		Slug:    lesson.Slug,
		Dialect: content.Tosk,
	})
}

// load runs the screen's Init command and delivers its result.
func load(t *testing.T, p *PracticeScreen) {
	t.Helper()
	cmd := p.Init()
	if cmd == nil {
		t.Fatal("expected a load command from Init")
	}
	msg := cmd()
	if _, ok := msg.(loadedMsg); !ok {
		t.Fatalf("Init msg = %T, want loadedMsg", msg)
	}
	p.Update(msg)
}

func key(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

// answer sends the keys for the current question: the correct option for
// multiple choice, a skip for typing and a give-up for match boards.
func answer(t *testing.T, p *PracticeScreen) answeredMsg {
	t.Helper()
	q := p.sess.Current()
	if q == nil {
		t.Fatal("no current question")
	}
	var cmd tea.Cmd
	switch {
	case q.Type.IsMultipleChoice():
		i := slices.Index(q.Options, q.CorrectAnswer)
		_, cmd = p.Update(key(fmt.Sprintf("%d", i+1)))
	case q.Type == questions.TypeMatchPairs:
		_, cmd = p.Update(key("s"))
	default:
		_, cmd = p.Update(key("enter"))
	}
	if cmd == nil {
		t.Fatalf("no submit command for %s", q.Type)
	}
	msg, ok := cmd().(answeredMsg)
	if !ok {
		t.Fatalf("submit did not produce answeredMsg")
	}
	return msg
}

func TestPracticeScreen_RunsToSummary(t *testing.T) {
	ps := progress.NewMemoryStore()
	p := newTestScreen(t, testLesson(), ps, session.DefaultRules())
	load(t, p)

	if p.Title() != "Food" {
		t.Errorf("Title = %q, want Food", p.Title())
	}
	if v := p.View(80, 24); !strings.Contains(v, "1/") {
		t.Errorf("expected progress in view, got %q", v)
	}

	var replaced screen.Screen
	for i := 0; i < 50 && replaced == nil; i++ {
		msg := answer(t, p)
		if msg.Err != nil {
			t.Fatalf("submit: %v", msg.Err)
		}
		_, cmd := p.Update(msg)
		if cmd == nil {
			t.Fatal("expected a progress command after answering")
		}
		if _, ok := cmd().(screen.ProgressMsg); !ok {
			t.Error("expected ProgressMsg after answering")
		}
		if p.sess.Phase() != session.PhaseShowingResult {
			t.Fatalf("phase = %v after answer", p.sess.Phase())
		}

		_, cmd = p.Update(key("enter"))
		adv, ok := cmd().(advancedMsg)
		if !ok {
			t.Fatal("expected advancedMsg after Enter")
		}
		_, cmd = p.Update(adv)
		if p.sess.Phase() == session.PhaseComplete {
			rep, ok := cmd().(router.ReplaceScreenMsg)
			if !ok {
				t.Fatal("expected ReplaceScreenMsg on completion")
			}
			replaced = rep.Screen
		}
	}

	if _, ok := replaced.(*summary.SummaryScreen); !ok {
		t.Fatalf("replaced with %T, want *summary.SummaryScreen", replaced)
	}
	xp, err := ps.TotalXP(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if xp == 0 {
		t.Error("expected XP to be persisted")
	}
}

func TestPracticeScreen_BusyIgnoresKeys(t *testing.T) {
	p := newTestScreen(t, testLesson(), progress.NewMemoryStore(), session.DefaultRules())
	load(t, p)

	answer(t, p)
	if _, cmd := p.Update(key("enter")); cmd != nil {
		t.Error("keys should be ignored while an answer is being scored")
	}
}

func TestPracticeScreen_NoQuestions(t *testing.T) {
	empty := &content.Lesson{ID: "empty", Slug: "empty", Title: "Empty"}
	p := newTestScreen(t, empty, progress.NewMemoryStore(), session.DefaultRules())
	load(t, p)

	if v := p.View(80, 24); !strings.Contains(v, "Could not start practice") {
		t.Errorf("expected error view, got %q", v)
	}
	if p.HandlesEscape() {
		t.Error("error screen should let Esc pop")
	}
	_, cmd := p.Update(key("x"))
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg from the error screen")
	}
}

func TestPracticeScreen_QuitConfirm(t *testing.T) {
	p := newTestScreen(t, testLesson(), progress.NewMemoryStore(), session.DefaultRules())
	load(t, p)

	if !p.HandlesEscape() {
		t.Fatal("practice should handle Esc itself")
	}
	p.Update(key("esc"))
	if !p.confirmQuit {
		t.Fatal("Esc should ask before quitting")
	}
	if v := p.View(80, 24); !strings.Contains(v, "End this session?") {
		t.Error("expected confirm prompt")
	}
	p.Update(key("n"))
	if p.confirmQuit {
		t.Fatal("N should dismiss the prompt")
	}

	p.Update(key("esc"))
	_, cmd := p.Update(key("y"))
	if cmd == nil {
		t.Fatal("expected a command on Y")
	}
	rep, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatal("expected ReplaceScreenMsg")
	}
	if _, ok := rep.Screen.(*summary.SummaryScreen); !ok {
		t.Errorf("replaced with %T, want summary", rep.Screen)
	}
}

func TestPracticeScreen_HeartsShown(t *testing.T) {
	rules := session.DefaultRules()
	rules.HeartsEnabled = true
	rules.MaxHearts = 3
	p := newTestScreen(t, testLesson(), progress.NewMemoryStore(), rules)
	load(t, p)

	if v := p.View(80, 24); !strings.Contains(v, "♥♥♥") {
		t.Error("expected three hearts in the status line")
	}
}

func TestResume(t *testing.T) {
	p := newTestScreen(t, testLesson(), progress.NewMemoryStore(), session.DefaultRules())
	load(t, p)

	r := Resume(p.cfg, p.sess)
	if r.Session() != p.sess {
		t.Error("Resume should reuse the session")
	}
	if r.sess.Phase() != session.PhasePresenting {
		t.Errorf("phase = %v, want presenting", r.sess.Phase())
	}
	if v := r.View(80, 24); !strings.Contains(v, "1/") {
		t.Error("resumed screen should show the first question")
	}
}
