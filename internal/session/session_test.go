package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/abhisek/fjala/internal/content"
	"github.com/abhisek/fjala/internal/progress"
	"github.com/abhisek/fjala/internal/questions"
	"github.com/abhisek/fjala/internal/spacedrep"
	"github.com/abhisek/fjala/internal/store"
)

var testNow = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func testLesson(n int) *content.Lesson {
	glosses := []string{"water", "bread", "coffee", "cheese", "meat", "milk"}
	phrases := []string{"ujë", "bukë", "kafe", "djathë", "mish", "qumësht"}
	l := &content.Lesson{ID: "lesson-1", Slug: "food", Title: "Food"}
	for i := 0; i < n; i++ {
		l.Vocab = append(l.Vocab, content.VocabItem{
			ID:       fmt.Sprintf("v%d", i),
			BaseTerm: phrases[i],
			Gloss:    glosses[i],
			Variants: []content.Variant{{Dialect: content.Tosk, Phrase: phrases[i]}},
		})
	}
	return l
}

type fakeLoader struct {
	lesson *content.Lesson
	err    error
}

func (f fakeLoader) LoadPractice(context.Context, string) (*content.Lesson, error) {
	return f.lesson, f.err
}

type countingTips struct{ calls int }

func (c *countingTips) Tip(context.Context) string {
	c.calls++
	return fmt.Sprintf("tip %d", c.calls)
}

type memRecorder struct {
	answers  []store.AnswerEventData
	sessions []store.SessionEventData
}

func (m *memRecorder) AppendAnswer(_ context.Context, d store.AnswerEventData) error {
	m.answers = append(m.answers, d)
	return nil
}

func (m *memRecorder) AppendSession(_ context.Context, d store.SessionEventData) error {
	m.sessions = append(m.sessions, d)
	return nil
}

func newTestSession(t *testing.T, ps progress.Store, rules Rules) *Session {
	t.Helper()
	if ps == nil {
		ps = progress.NewMemoryStore()
	}
	return New(Deps{
		Progress:  ps,
		Generator: questions.New(questions.DefaultConfig(), questions.WithRand(rand.New(rand.NewPCG(1, 2)))),
		Now:       func() time.Time { return testNow },
	}, rules)
}

func loaded(t *testing.T, s *Session, lesson *content.Lesson) {
	t.Helper()
	if err := s.Load(context.Background(), fakeLoader{lesson: lesson}, lesson.Slug, content.Tosk); err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func rightAnswer(q *questions.Question) string {
	return q.CorrectAnswer
}

func TestLoad_NoQuestions(t *testing.T) {
	s := newTestSession(t, nil, DefaultRules())
	err := s.Load(context.Background(), fakeLoader{lesson: &content.Lesson{Slug: "empty"}}, "empty", content.Tosk)
	if !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("err = %v, want ErrNoQuestions", err)
	}
	if s.Phase() != PhaseError {
		t.Errorf("phase = %v, want error", s.Phase())
	}
	if s.Err().Error() != "No practice questions available for this lesson." {
		t.Errorf("message = %q", s.Err())
	}
	if s.Current() != nil {
		t.Error("expected no current question")
	}
}

func TestLoad_LoaderError(t *testing.T) {
	s := newTestSession(t, nil, DefaultRules())
	boom := errors.New("boom")
	err := s.Load(context.Background(), fakeLoader{err: boom}, "x", content.Tosk)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}
	if s.Phase() != PhaseError {
		t.Errorf("phase = %v, want error", s.Phase())
	}
}

func TestLoad_Twice(t *testing.T) {
	s := newTestSession(t, nil, DefaultRules())
	loaded(t, s, testLesson(4))
	if err := s.Begin(context.Background(), testLesson(4), content.Tosk); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("second load err = %v, want ErrWrongPhase", err)
	}
}

func TestAllWrong_HeartsDisabled_Completes(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, nil, DefaultRules())
	loaded(t, s, testLesson(4))

	n := len(s.Questions())
	for i := 0; i < n; i++ {
		res, err := s.Submit(ctx, "definitely wrong")
		if err != nil {
			t.Fatalf("Submit %d: %v", i, err)
		}
		if res.Correct || res.GameOver {
			t.Fatalf("answer %d: correct=%v gameOver=%v", i, res.Correct, res.GameOver)
		}
		if err := s.Next(ctx); err != nil {
			t.Fatalf("Next %d: %v", i, err)
		}
	}
	if s.Phase() != PhaseComplete {
		t.Fatalf("phase = %v, want complete", s.Phase())
	}
	sum := s.Summary()
	if sum.Correct != 0 || sum.Incorrect != n || sum.Accuracy != 0 {
		t.Errorf("summary = %+v", sum)
	}
	if sum.XPEarned != n*XPAttempt {
		t.Errorf("XPEarned = %d, want %d", sum.XPEarned, n*XPAttempt)
	}
}

func TestSubmit_XP(t *testing.T) {
	ctx := context.Background()
	ps := progress.NewMemoryStore()
	s := newTestSession(t, ps, DefaultRules())
	loaded(t, s, testLesson(4))

	want := 0
	for s.Phase() != PhaseComplete {
		q := s.Current()
		res, err := s.Submit(ctx, rightAnswer(q))
		if err != nil {
			t.Fatalf("Submit %s: %v", q.ID, err)
		}
		if !res.Correct {
			t.Fatalf("%s: %q not accepted", q.ID, rightAnswer(q))
		}
		exp := XPCorrect
		if q.Type == questions.TypeTypeWord {
			exp += XPTypingBonus
		}
		if res.XP != exp {
			t.Errorf("%s: XP = %d, want %d", q.ID, res.XP, exp)
		}
		want += exp
		if res.TotalXP != want {
			t.Errorf("%s: TotalXP = %d, want %d", q.ID, res.TotalXP, want)
		}
		if err := s.Next(ctx); err != nil {
			t.Fatal(err)
		}
	}

	total, _ := ps.TotalXP(ctx)
	if total != want {
		t.Errorf("stored XP = %d, want %d", total, want)
	}
	sum := s.Summary()
	if sum.Accuracy != 100 || sum.XPEarned != want || sum.Streak != 1 {
		t.Errorf("summary = %+v", sum)
	}
}

func TestAnswerXP(t *testing.T) {
	tests := []struct {
		typ     questions.Type
		correct bool
		answer  string
		want    int
	}{
		{questions.TypeMCQEnSq, true, "ujë", 10},
		{questions.TypeTypeWord, true, "ujë", 12},
		{questions.TypeMatchPairs, true, "6/6", 10},
		{questions.TypeMCQSqEn, false, "bread", 5},
		{questions.TypeTypeWord, false, "uj", 5},
		{questions.TypeMCQEnSq, false, "", 0},
		{questions.TypeTypeWord, false, "  ", 0},
	}
	for _, tt := range tests {
		if got := AnswerXP(tt.typ, tt.correct, tt.answer); got != tt.want {
			t.Errorf("AnswerXP(%s, %v, %q) = %d, want %d", tt.typ, tt.correct, tt.answer, got, tt.want)
		}
	}
}

func TestSubmit_SkipEarnsNothing(t *testing.T) {
	ctx := context.Background()
	ps := progress.NewMemoryStore()
	s := newTestSession(t, ps, DefaultRules())
	loaded(t, s, testLesson(4))

	q := s.Current()
	res, err := s.Submit(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Skipped || res.XP != 0 || res.Correct {
		t.Errorf("result = %+v", res)
	}
	if res.Streak != 0 {
		t.Errorf("skip touched the streak: %d", res.Streak)
	}

	// A skip still counts against the practice record.
	rec, _ := ps.PracticeRecord(ctx, "lesson-1")
	item, ok := rec[q.ID]
	if !ok {
		t.Fatalf("no practice item for %s", q.ID)
	}
	if item.WrongCount != 1 || item.Ease != 1 || !item.NextDue.Equal(testNow.Add(spacedrep.RetryDelay)) {
		t.Errorf("item = %+v", item)
	}
}

func TestHearts(t *testing.T) {
	ctx := context.Background()
	rules := DefaultRules()
	rules.HeartsEnabled = true
	rules.MaxHearts = 2
	s := newTestSession(t, nil, rules)
	loaded(t, s, testLesson(4))

	// Skips are free.
	res, _ := s.Submit(ctx, "")
	if res.HeartsLeft != 2 {
		t.Errorf("hearts after skip = %d, want 2", res.HeartsLeft)
	}
	_ = s.Next(ctx)

	res, _ = s.Submit(ctx, "wrong")
	if res.HeartsLeft != 1 || res.GameOver {
		t.Errorf("after first miss: %+v", res)
	}
	_ = s.Next(ctx)

	res, _ = s.Submit(ctx, "wrong")
	if res.HeartsLeft != 0 || !res.GameOver {
		t.Errorf("after second miss: %+v", res)
	}
	if err := s.Next(ctx); err != nil {
		t.Fatal(err)
	}
	if s.Phase() != PhaseComplete {
		t.Fatalf("phase = %v, want complete after game over", s.Phase())
	}
	sum := s.Summary()
	if !sum.GameOver || sum.HeartsLeft != 0 || sum.Answered != 3 {
		t.Errorf("summary = %+v", sum)
	}
}

func TestTipEvery(t *testing.T) {
	ctx := context.Background()
	tips := &countingTips{}
	s := New(Deps{
		Progress:  progress.NewMemoryStore(),
		Generator: questions.New(questions.DefaultConfig(), questions.WithRand(rand.New(rand.NewPCG(3, 4)))),
		Tips:      tips,
		Now:       func() time.Time { return testNow },
	}, DefaultRules())
	loaded(t, s, testLesson(4))

	var withTip []int
	for i := 1; i <= 9; i++ {
		res, err := s.Submit(ctx, "x")
		if err != nil {
			t.Fatal(err)
		}
		if res.Tip != "" {
			withTip = append(withTip, i)
		}
		_ = s.Next(ctx)
	}
	// Answers 5 and 9 see answered == 4 and 8 before counting.
	if !slices.Equal(withTip, []int{5, 9}) {
		t.Errorf("tips on answers %v, want [5 9]", withTip)
	}
}

func TestPhaseGuards(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, nil, DefaultRules())

	if _, err := s.Submit(ctx, "x"); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("Submit while loading: %v", err)
	}
	if err := s.Restart(ctx); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("Restart while loading: %v", err)
	}

	loaded(t, s, testLesson(4))
	if err := s.Next(ctx); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("Next while presenting: %v", err)
	}
	if _, err := s.Submit(ctx, "x"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Submit(ctx, "x"); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("Submit while showing result: %v", err)
	}
}

func TestRestart_KeepsQuestions(t *testing.T) {
	ctx := context.Background()
	rules := DefaultRules()
	rules.HeartsEnabled = true
	rules.MaxHearts = 1
	s := newTestSession(t, nil, rules)
	loaded(t, s, testLesson(4))

	before := s.Questions()
	_, _ = s.Submit(ctx, "wrong")
	_ = s.Next(ctx)
	if s.Phase() != PhaseComplete {
		t.Fatalf("phase = %v", s.Phase())
	}

	if err := s.Restart(ctx); err != nil {
		t.Fatal(err)
	}
	st := s.State()
	if st.Phase != "presenting" || st.Index != 0 || st.Hearts != 1 || st.GameOver || st.Stats != (Stats{}) {
		t.Errorf("state after restart = %+v", st)
	}
	after := s.Questions()
	if len(after) != len(before) || after[0].ID != before[0].ID {
		t.Error("restart changed the question list")
	}
}

func TestDueOnly(t *testing.T) {
	ctx := context.Background()
	ps := progress.NewMemoryStore()

	// Everything answered correctly long ago except v0, known and not due.
	rec := spacedrep.Record{}
	for _, id := range []string{"v0_en_sq", "v0_sq_en", "v0_type"} {
		rec[id] = spacedrep.PracticeItem{ID: id, Ease: 5, NextDue: testNow.Add(24 * time.Hour)}
	}
	if err := ps.SavePracticeRecord(ctx, "lesson-1", rec); err != nil {
		t.Fatal(err)
	}

	rules := DefaultRules()
	rules.DueOnly = true
	s := newTestSession(t, ps, rules)
	loaded(t, s, testLesson(4))

	for _, q := range s.Questions() {
		if _, known := rec[q.ID]; known {
			t.Errorf("%s is not due but was planned", q.ID)
		}
	}
	if got := len(s.Questions()); got != 10 {
		t.Errorf("planned %d questions, want 10", got)
	}
}

func TestEventsRecorded(t *testing.T) {
	ctx := context.Background()
	rec := &memRecorder{}
	s := New(Deps{
		Progress: progress.NewMemoryStore(),
		Events:   rec,
		Now:      func() time.Time { return testNow },
	}, Rules{QuestionCount: 2})
	loaded(t, s, testLesson(4))

	for s.Phase() != PhaseComplete {
		if _, err := s.Submit(ctx, rightAnswer(s.Current())); err != nil {
			t.Fatal(err)
		}
		_ = s.Next(ctx)
	}

	if len(rec.answers) != 2 {
		t.Fatalf("answer events = %d, want 2", len(rec.answers))
	}
	if !rec.answers[0].Correct || rec.answers[0].LessonSlug != "food" || rec.answers[0].Ease != 3 {
		t.Errorf("answer event = %+v", rec.answers[0])
	}
	actions := []string{}
	for _, e := range rec.sessions {
		actions = append(actions, e.Action)
	}
	if !slices.Equal(actions, []string{"start", "end"}) {
		t.Errorf("session actions = %v", actions)
	}
	if end := rec.sessions[1]; end.Answered != 2 || end.Correct != 2 || end.SessionID != s.ID() {
		t.Errorf("end event = %+v", end)
	}
}

func TestStats_Accuracy(t *testing.T) {
	tests := []struct {
		stats Stats
		want  int
	}{
		{Stats{}, 0},
		{Stats{Answered: 3, Correct: 2}, 67},
		{Stats{Answered: 8, Correct: 1}, 13},
		{Stats{Answered: 4, Correct: 4}, 100},
	}
	for _, tt := range tests {
		if got := tt.stats.Accuracy(); got != tt.want {
			t.Errorf("Accuracy(%+v) = %d, want %d", tt.stats, got, tt.want)
		}
	}
}

type brokenProgress struct{ progress.Store }

func (brokenProgress) SavePracticeRecord(context.Context, string, spacedrep.Record) error {
	return errors.New("disk full")
}

func TestSubmit_PersistFailureKeepsPhase(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, brokenProgress{progress.NewMemoryStore()}, DefaultRules())
	loaded(t, s, testLesson(4))

	if _, err := s.Submit(ctx, ""); err == nil {
		t.Fatal("expected error")
	}
	st := s.State()
	if st.Phase != "presenting" || st.Stats.Answered != 0 {
		t.Errorf("state after failed submit = %+v", st)
	}
}

// flakyProgress fails the first n practice record saves.
type flakyProgress struct {
	progress.Store
	failures int
}

func (f *flakyProgress) SavePracticeRecord(ctx context.Context, id string, rec spacedrep.Record) error {
	if f.failures > 0 {
		f.failures--
		return errors.New("disk full")
	}
	return f.Store.SavePracticeRecord(ctx, id, rec)
}

func TestSubmit_RetryAfterFailedSaveCountsXPOnce(t *testing.T) {
	ctx := context.Background()
	ps := &flakyProgress{Store: progress.NewMemoryStore(), failures: 1}
	s := newTestSession(t, ps, DefaultRules())
	loaded(t, s, testLesson(4))

	answer := rightAnswer(s.Current())
	if _, err := s.Submit(ctx, answer); err == nil {
		t.Fatal("expected error")
	}
	if xp, _ := ps.TotalXP(ctx); xp != 0 {
		t.Fatalf("total XP after failed submit = %d, want 0", xp)
	}
	if st := s.State(); st.Stats.Answered != 0 || st.Stats.XP != 0 {
		t.Errorf("state after failed submit = %+v", st.Stats)
	}

	res, err := s.Submit(ctx, answer)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if !res.Correct || res.XP == 0 {
		t.Fatalf("retry result = %+v, want a correct answer earning XP", res)
	}
	xp, _ := ps.TotalXP(ctx)
	if xp != res.XP || res.TotalXP != res.XP {
		t.Errorf("total XP = %d (result %d), want %d", xp, res.TotalXP, res.XP)
	}
	rec, _ := ps.PracticeRecord(ctx, LessonKey(s.Lesson()))
	if got := rec[res.QuestionID].CorrectCount; got != 1 {
		t.Errorf("CorrectCount = %d, want 1", got)
	}
}

func TestSubmitPairs(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, nil, DefaultRules())
	loaded(t, s, testLesson(4))

	pairs := []questions.Pair{{Left: "ujë", Right: "water"}, {Left: "bukë", Right: "bread"}}
	s.questions[0] = questions.Question{ID: "match-1", Type: questions.TypeMatchPairs, Pairs: pairs, CorrectAnswer: questions.MatchResult(2, 2)}
	s.questions[1].Type = questions.TypeMCQEnSq

	res, err := s.SubmitPairs(ctx, pairs)
	if err != nil {
		t.Fatalf("SubmitPairs: %v", err)
	}
	if !res.Correct || res.Answer != "2/2" {
		t.Errorf("result = %+v, want correct 2/2", res)
	}

	// The answer already landed; stale pairs must not score the next question.
	if _, err := s.SubmitPairs(ctx, pairs); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("second SubmitPairs err = %v, want ErrWrongPhase", err)
	}
	if err := s.Next(ctx); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if _, err := s.SubmitPairs(ctx, pairs); !errors.Is(err, ErrNotMatchPairs) {
		t.Errorf("SubmitPairs on mcq err = %v, want ErrNotMatchPairs", err)
	}
	if st := s.State(); st.Stats.Answered != 1 {
		t.Errorf("Answered = %d, want 1", st.Stats.Answered)
	}
}
