package welcome

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/fjala/internal/content"
	"github.com/abhisek/fjala/internal/router"
	"github.com/abhisek/fjala/internal/screen"
)

// stubScreen is a minimal screen implementation for testing.
type stubScreen struct{ dialect content.Dialect }

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "home" }
func (s *stubScreen) Title() string                           { return "Home" }

type memSaver struct {
	saved []content.Dialect
	err   error
}

func (m *memSaver) SetDialect(_ context.Context, d content.Dialect) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, d)
	return nil
}

func newTestWelcomeWithCounter(saver *memSaver) (*WelcomeScreen, *int) {
	callCount := 0
	factory := func(d content.Dialect) screen.Screen {
		callCount++
		return &stubScreen{dialect: d}
	}
	return New(saver, factory), &callCount
}

func sendTicks(w *WelcomeScreen, n int) (screen.Screen, tea.Cmd) {
	var s screen.Screen = w
	var cmd tea.Cmd
	for i := 0; i < n; i++ {
		s, cmd = s.Update(tickMsg(time.Now()))
	}
	return s, cmd
}

func TestPhaseTransitions(t *testing.T) {
	w, _ := newTestWelcomeWithCounter(&memSaver{})

	// Initially at phase 0, no banner visible
	if strings.Contains(w.View(80, 24), "learn Albanian") {
		t.Error("banner should not be visible at start")
	}

	sendTicks(w, 5)
	if w.elapsed != 500*time.Millisecond {
		t.Errorf("expected elapsed 500ms, got %v", w.elapsed)
	}

	sendTicks(w, 10)
	if w.elapsed != 1500*time.Millisecond {
		t.Errorf("expected elapsed 1500ms, got %v", w.elapsed)
	}
	view := w.View(80, 40)
	if !strings.Contains(view, "learn Albanian") {
		t.Error("tagline should be visible after phase 2")
	}
	if strings.Contains(view, "Which dialect") {
		t.Error("dialect prompt should wait for the animation")
	}

	sendTicks(w, 10)
	if !strings.Contains(w.View(80, 40), "Which dialect") {
		t.Error("dialect prompt should be visible after the animation")
	}
}

func TestKeypressDuringAnimationSkipsToPrompt(t *testing.T) {
	w, callCount := newTestWelcomeWithCounter(&memSaver{})
	sendTicks(w, 3)

	_, cmd := w.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Error("first key should only skip the animation")
	}
	if w.elapsed != totalDur {
		t.Errorf("elapsed = %v, want %v", w.elapsed, totalDur)
	}
	if *callCount != 0 {
		t.Error("factory should not be called before a dialect is chosen")
	}
}

func TestChooseDialect(t *testing.T) {
	saver := &memSaver{}
	w, callCount := newTestWelcomeWithCounter(saver)
	sendTicks(w, 25)

	w.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := w.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a save command")
	}
	_, cmd = w.Update(cmd())
	if cmd == nil {
		t.Fatal("expected a replace command after saving")
	}
	replaceMsg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatal("expected ReplaceScreenMsg")
	}
	if got := replaceMsg.Screen.(*stubScreen).dialect; got != content.Tosk {
		t.Errorf("home dialect = %v, want tosk", got)
	}
	if len(saver.saved) != 1 || saver.saved[0] != content.Tosk {
		t.Errorf("saved = %v", saver.saved)
	}
	if *callCount != 1 {
		t.Errorf("factory should be called once, got %d", *callCount)
	}
}

func TestChooseOnlyOnce(t *testing.T) {
	w, _ := newTestWelcomeWithCounter(&memSaver{})
	sendTicks(w, 25)

	_, cmd := w.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a save command")
	}
	if _, cmd := w.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Error("second Enter should not save again")
	}
}

func TestSaveErrorAllowsRetry(t *testing.T) {
	saver := &memSaver{err: errors.New("disk full")}
	w, callCount := newTestWelcomeWithCounter(saver)
	sendTicks(w, 25)

	_, cmd := w.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	w.Update(cmd())
	if *callCount != 0 {
		t.Error("factory should not run after a failed save")
	}
	if !strings.Contains(w.View(80, 40), "disk full") {
		t.Error("expected the save error in the view")
	}

	saver.err = nil
	_, cmd = w.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("retry should produce a save command")
	}
}

func TestNoAutoTransition(t *testing.T) {
	w, callCount := newTestWelcomeWithCounter(&memSaver{})
	sendTicks(w, 45)
	if *callCount != 0 {
		t.Errorf("factory should not be called without a choice, got %d", *callCount)
	}
	if w.elapsed != totalDur {
		t.Errorf("expected elapsed capped at %v, got %v", totalDur, w.elapsed)
	}
}

func TestTitleEmpty(t *testing.T) {
	w, _ := newTestWelcomeWithCounter(&memSaver{})
	if w.Title() != "" {
		t.Errorf("expected empty title, got %q", w.Title())
	}
}
