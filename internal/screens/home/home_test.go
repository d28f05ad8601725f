package home

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/fjala/internal/content"
	"github.com/abhisek/fjala/internal/progress"
	"github.com/abhisek/fjala/internal/router"
	"github.com/abhisek/fjala/internal/screen"
	"github.com/abhisek/fjala/internal/screens/lesson"
	"github.com/abhisek/fjala/internal/store"
)

var testNow = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

type fakeCatalog struct {
	lessons []content.Lesson
}

func (f fakeCatalog) ListLessons(context.Context, bool) ([]store.LessonInfo, error) {
	var out []store.LessonInfo
	for _, l := range f.lessons {
		out = append(out, store.LessonInfo{Lesson: l, VocabCount: len(l.Vocab)})
	}
	return out, nil
}

func (f fakeCatalog) LoadPractice(_ context.Context, slug string) (*content.Lesson, error) {
	for i := range f.lessons {
		if f.lessons[i].Slug == slug {
			return &f.lessons[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func newTestHome(t *testing.T, ps progress.Store) *HomeScreen {
	t.Helper()
	h := New(Deps{
		Catalog: fakeCatalog{lessons: []content.Lesson{
			{Slug: "greetings", Title: "Greetings", Level: content.Beginner, Vocab: []content.VocabItem{{BaseTerm: "po", Gloss: "yes"}}},
			{Slug: "food", Title: "Food", Level: content.Beginner},
		}},
		Progress: ps,
		Dialect:  content.Tosk,
		Now:      func() time.Time { return testNow },
	})
	_, cmd := h.Update(h.Init()())
	if cmd == nil {
		t.Fatal("expected a progress command after loading")
	}
	if _, ok := cmd().(screen.ProgressMsg); !ok {
		t.Fatal("expected ProgressMsg after loading")
	}
	return h
}

func TestHome_ListsLessons(t *testing.T) {
	h := newTestHome(t, progress.NewMemoryStore())
	labels := make([]string, len(h.menu.Items))
	for i, it := range h.menu.Items {
		labels[i] = it.Label
	}
	want := []string{"Greetings", "Food", "Dialect: Tosk", "Quit"}
	if strings.Join(labels, ",") != strings.Join(want, ",") {
		t.Errorf("menu = %v, want %v", labels, want)
	}
	if got := h.menu.Items[0].Detail; got != "beginner · 1 words" {
		t.Errorf("detail = %q", got)
	}
	if v := h.View(120, 40); !strings.Contains(v, "Greetings") {
		t.Error("view should list lessons")
	}
}

func TestHome_OpenLesson(t *testing.T) {
	h := newTestHome(t, progress.NewMemoryStore())
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on Enter")
	}
	opened, ok := cmd().(lessonOpenedMsg)
	if !ok || opened.Err != nil {
		t.Fatalf("expected lessonOpenedMsg, got %#v", opened)
	}
	_, cmd = h.Update(opened)
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if _, ok := push.Screen.(*lesson.LessonScreen); !ok {
		t.Errorf("pushed %T, want lesson screen", push.Screen)
	}
}

func TestHome_ToggleDialect(t *testing.T) {
	ps := progress.NewMemoryStore()
	h := newTestHome(t, ps)
	h.menu.Selected = 2

	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	h.Update(cmd())

	if h.snapshot.Dialect != content.Gheg {
		t.Errorf("dialect = %v, want gheg", h.snapshot.Dialect)
	}
	if h.menu.Items[2].Label != "Dialect: Gheg" {
		t.Errorf("label = %q", h.menu.Items[2].Label)
	}
	if h.menu.Selected != 2 {
		t.Error("selection should stay on the toggle")
	}
	d, ok, err := ps.Dialect(context.Background())
	if err != nil || !ok || d != content.Gheg {
		t.Errorf("stored dialect = %v, %v, %v", d, ok, err)
	}
}

func TestHome_ProgressMsg(t *testing.T) {
	h := newTestHome(t, progress.NewMemoryStore())
	h.Update(screen.ProgressMsg{TotalXP: 30, Streak: 1})
	if h.snapshot.TotalXP != 30 || h.snapshot.Streak != 1 {
		t.Errorf("snapshot = %+v", h.snapshot)
	}
	if MascotFor(h.snapshot, testNow) != MascotCelebrating {
		t.Error("practicing today should celebrate")
	}
}

func TestMascotFor(t *testing.T) {
	tests := []struct {
		name string
		snap progress.Snapshot
		want MascotVariant
	}{
		{"fresh", progress.Snapshot{}, MascotIdle},
		{"today", progress.Snapshot{Streak: 2, LastPracticeDate: "2026-03-14"}, MascotCelebrating},
		{"yesterday", progress.Snapshot{Streak: 2, LastPracticeDate: "2026-03-13"}, MascotAlert},
		{"lapsed", progress.Snapshot{Streak: 0, LastPracticeDate: "2026-03-01"}, MascotIdle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MascotFor(tt.snap, testNow); got != tt.want {
				t.Errorf("MascotFor = %v, want %v", got, tt.want)
			}
		})
	}
}
