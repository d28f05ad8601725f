package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/fjala/internal/content"
	"github.com/abhisek/fjala/internal/progress"
	"github.com/abhisek/fjala/internal/questions"
	"github.com/abhisek/fjala/internal/spacedrep"
	"github.com/abhisek/fjala/internal/store"
)

// Deps are the collaborators of a Session. Progress is required; the
// rest are optional.
type Deps struct {
	Progress  progress.Store
	Generator *questions.Generator
	Events    Recorder
	Tips      TipSource
	Logger    logrus.FieldLogger
	Now       func() time.Time
}

// Session runs one practice session over a lesson. It is safe for
// concurrent use.
type Session struct {
	mu sync.Mutex

	deps  Deps
	rules Rules

	id      string
	lesson  *content.Lesson
	dialect content.Dialect
	record  spacedrep.Record

	phase     SessionPhase
	err       error
	questions []questions.Question
	index     int
	stats     Stats
	hearts    int
	gameOver  bool
	last      *Result
	startTime time.Time
	totalXP   int
	streak    int
}

// New creates a session in the loading phase.
func New(deps Deps, rules Rules) *Session {
	if deps.Generator == nil {
		deps.Generator = questions.New(questions.DefaultConfig())
	}
	if deps.Logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		deps.Logger = l
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	rules = rules.withDefaults()
	return &Session{
		deps:   deps,
		rules:  rules,
		id:     uuid.NewString(),
		phase:  PhaseLoading,
		hearts: rules.MaxHearts,
	}
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Rules returns the rules the session runs with.
func (s *Session) Rules() Rules { return s.rules }

// Load fetches the lesson, reads the learner's progress and builds the
// question list. Any failure moves the session to PhaseError, and the
// error is also returned.
func (s *Session) Load(ctx context.Context, loader LessonLoader, slug string, dialect content.Dialect) error {
	lesson, err := loader.LoadPractice(ctx, slug)
	if err != nil {
		return s.fail(fmt.Errorf("load lesson %s: %w", slug, err))
	}
	return s.Begin(ctx, lesson, dialect)
}

// Begin is Load for a lesson that is already in memory.
func (s *Session) Begin(ctx context.Context, lesson *content.Lesson, dialect content.Dialect) error {
	s.mu.Lock()
	if s.phase != PhaseLoading {
		s.mu.Unlock()
		return ErrWrongPhase
	}
	s.mu.Unlock()

	now := s.deps.Now()
	rec, err := s.deps.Progress.PracticeRecord(ctx, LessonKey(lesson))
	if err != nil {
		return s.fail(fmt.Errorf("load practice record: %w", err))
	}
	totalXP, err := s.deps.Progress.TotalXP(ctx)
	if err != nil {
		return s.fail(fmt.Errorf("load xp: %w", err))
	}
	streak, err := s.deps.Progress.Streak(ctx, now)
	if err != nil {
		return s.fail(fmt.Errorf("load streak: %w", err))
	}

	qs := Plan(s.deps.Generator, lesson, dialect, s.rules.QuestionCount, rec, s.rules.DueOnly, now)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lesson = lesson
	s.dialect = dialect
	s.record = rec
	s.totalXP = totalXP
	s.streak = streak
	if len(qs) == 0 {
		s.phase = PhaseError
		s.err = ErrNoQuestions
		return ErrNoQuestions
	}
	s.questions = qs
	s.reset(now)

	s.deps.Logger.WithFields(logrus.Fields{
		"session":   s.id,
		"lesson":    lesson.Slug,
		"dialect":   dialect,
		"questions": len(qs),
	}).Info("practice session started")
	s.recordSession(ctx, "start")
	return nil
}

func (s *Session) fail(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = PhaseError
	s.err = err
	return err
}

// reset puts the session back at the first question. Callers hold mu.
func (s *Session) reset(now time.Time) {
	s.phase = PhasePresenting
	s.index = 0
	s.stats = Stats{}
	s.hearts = s.rules.MaxHearts
	s.gameOver = false
	s.last = nil
	s.startTime = now
}

// Phase returns the current phase.
func (s *Session) Phase() SessionPhase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Err returns the error that moved the session to PhaseError.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Lesson returns the lesson being practiced, nil before loading.
func (s *Session) Lesson() *content.Lesson {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lesson
}

// Questions returns the session's question list.
func (s *Session) Questions() []questions.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]questions.Question(nil), s.questions...)
}

// Current returns the question being presented or whose result is being
// shown, and nil otherwise.
func (s *Session) Current() *questions.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current()
}

func (s *Session) current() *questions.Question {
	if s.phase != PhasePresenting && s.phase != PhaseShowingResult {
		return nil
	}
	q := s.questions[s.index]
	return &q
}

// State returns a copy of the session's observable fields.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := State{
		ID:         s.id,
		Dialect:    s.dialect,
		Phase:      s.phase.String(),
		Index:      s.index,
		Total:      len(s.questions),
		Stats:      s.stats,
		Hearts:     s.hearts,
		HeartsOn:   s.rules.HeartsEnabled,
		GameOver:   s.gameOver,
		Question:   s.current(),
		LastResult: s.last,
		StartTime:  s.startTime,
	}
	if s.lesson != nil {
		st.Lesson = s.lesson.Slug
	}
	return st
}

// Submit scores answer against the current question. A blank answer is
// a skip. XP, streak and the practice record are persisted before the
// session moves to PhaseShowingResult.
func (s *Session) Submit(ctx context.Context, answer string) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhasePresenting {
		return nil, ErrWrongPhase
	}
	return s.submitLocked(ctx, answer)
}

// SubmitPairs scores the learner's pairings against the current
// match_pairs question and submits the result. Scoring and submitting
// happen under one lock so the pairs can't be scored against a question
// that has since moved on.
func (s *Session) SubmitPairs(ctx context.Context, pairs []questions.Pair) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhasePresenting {
		return nil, ErrWrongPhase
	}
	q := &s.questions[s.index]
	if q.Type != questions.TypeMatchPairs {
		return nil, ErrNotMatchPairs
	}
	return s.submitLocked(ctx, questions.ScorePairs(q.Pairs, pairs))
}

// submitLocked expects s.mu held and the session presenting.
func (s *Session) submitLocked(ctx context.Context, answer string) (*Result, error) {
	now := s.deps.Now()
	q := s.questions[s.index]
	correct := questions.Check(&q, answer)
	skipped := strings.TrimSpace(answer) == ""

	res := &Result{
		QuestionID:    q.ID,
		Type:          q.Type,
		Answer:        answer,
		Correct:       correct,
		Skipped:       skipped,
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
	}

	// The tip check happens before the counter moves.
	if s.deps.Tips != nil && s.stats.Answered > 0 && s.stats.Answered%s.rules.TipEvery == 0 {
		res.Tip = s.deps.Tips.Tip(ctx)
	}

	res.XP = AnswerXP(q.Type, correct, answer)
	s.stats.Answered++
	switch {
	case correct:
		s.stats.Correct++
	case skipped:
		s.stats.Skipped++
	default:
		s.stats.Wrong++
	}
	s.stats.XP += res.XP

	if s.rules.HeartsEnabled && !correct && !skipped {
		s.hearts--
		if s.hearts <= 0 {
			s.hearts = 0
			s.gameOver = true
		}
	}
	res.HeartsLeft = s.hearts
	res.GameOver = s.gameOver

	if err := s.persist(ctx, res, now); err != nil {
		// Leave the session where it was so the answer can be retried.
		s.stats = revert(s.stats, res)
		if s.rules.HeartsEnabled && !correct && !skipped {
			s.hearts++
			s.gameOver = false
		}
		return nil, err
	}

	s.last = res
	s.phase = PhaseShowingResult
	s.recordAnswer(ctx, res)

	s.deps.Logger.WithFields(logrus.Fields{
		"session":  s.id,
		"question": q.ID,
		"correct":  correct,
		"xp":       res.XP,
	}).Debug("answer scored")
	return res, nil
}

// persist writes the answer's effects to the progress store. The practice
// record goes first: a failed save must not leave XP behind for a retried
// answer to count again. Callers hold mu.
func (s *Session) persist(ctx context.Context, res *Result, now time.Time) error {
	ps := s.deps.Progress
	key := LessonKey(s.lesson)

	before, seen := s.record[res.QuestionID]
	restore := func() {
		if seen {
			s.record[res.QuestionID] = before
		} else {
			delete(s.record, res.QuestionID)
		}
	}
	item := s.record.Apply(res.QuestionID, res.Correct, now)
	if err := ps.SavePracticeRecord(ctx, key, s.record); err != nil {
		restore()
		return fmt.Errorf("save practice record: %w", err)
	}

	total := s.totalXP
	streak := s.streak
	if res.XP > 0 {
		var err error
		if total, err = ps.AddXP(ctx, res.XP); err != nil {
			restore()
			if rerr := ps.SavePracticeRecord(ctx, key, s.record); rerr != nil {
				s.deps.Logger.WithError(rerr).Warn("restore practice record")
			}
			return fmt.Errorf("add xp: %w", err)
		}
		if streak, err = ps.TouchStreak(ctx, now); err != nil {
			// XP is already counted; the streak catches up on the next answer.
			s.deps.Logger.WithError(err).Warn("touch streak")
			streak = s.streak
		}
	}

	s.totalXP = total
	s.streak = streak
	res.TotalXP = total
	res.Streak = streak
	res.Item = item
	return nil
}

func revert(st Stats, res *Result) Stats {
	st.Answered--
	switch {
	case res.Correct:
		st.Correct--
	case res.Skipped:
		st.Skipped--
	default:
		st.Wrong--
	}
	st.XP -= res.XP
	return st
}

// AnswerXP returns the XP an answer earns.
func AnswerXP(t questions.Type, correct bool, answer string) int {
	switch {
	case correct && t == questions.TypeTypeWord:
		return XPCorrect + XPTypingBonus
	case correct:
		return XPCorrect
	case strings.TrimSpace(answer) != "":
		return XPAttempt
	default:
		return 0
	}
}

// Next leaves the result of the last answer. It moves to the following
// question, or to PhaseComplete after the last question or when the
// hearts ran out.
func (s *Session) Next(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseShowingResult {
		return ErrWrongPhase
	}
	if s.gameOver || s.index >= len(s.questions)-1 {
		s.phase = PhaseComplete
		s.deps.Logger.WithFields(logrus.Fields{
			"session":   s.id,
			"answered":  s.stats.Answered,
			"correct":   s.stats.Correct,
			"xp":        s.stats.XP,
			"game_over": s.gameOver,
		}).Info("practice session complete")
		s.recordSession(ctx, "end")
		return nil
	}
	s.index++
	s.phase = PhasePresenting
	return nil
}

// Restart starts the same questions over with fresh stats and hearts.
func (s *Session) Restart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case PhaseLoading:
		return ErrWrongPhase
	case PhaseError:
		if s.err != nil {
			return s.err
		}
		return ErrWrongPhase
	}
	s.reset(s.deps.Now())
	s.recordSession(ctx, "restart")
	return nil
}

func (s *Session) recordAnswer(ctx context.Context, res *Result) {
	if s.deps.Events == nil {
		return
	}
	err := s.deps.Events.AppendAnswer(ctx, store.AnswerEventData{
		SessionID:    s.id,
		LessonSlug:   s.lesson.Slug,
		QuestionID:   res.QuestionID,
		QuestionType: string(res.Type),
		Answer:       res.Answer,
		Correct:      res.Correct,
		Skipped:      res.Skipped,
		XP:           res.XP,
		Ease:         int(res.Item.Ease),
	})
	if err != nil {
		s.deps.Logger.WithError(err).Warn("record answer event")
	}
}

func (s *Session) recordSession(ctx context.Context, action string) {
	if s.deps.Events == nil {
		return
	}
	err := s.deps.Events.AppendSession(ctx, store.SessionEventData{
		SessionID:    s.id,
		LessonSlug:   s.lesson.Slug,
		Action:       action,
		Questions:    len(s.questions),
		Answered:     s.stats.Answered,
		Correct:      s.stats.Correct,
		XPEarned:     s.stats.XP,
		GameOver:     s.gameOver,
		DurationSecs: int(s.deps.Now().Sub(s.startTime).Seconds()),
	})
	if err != nil {
		s.deps.Logger.WithError(err).Warn("record session event")
	}
}

// LessonKey names the practice record of a lesson. Lessons without an id
// are keyed by slug.
func LessonKey(l *content.Lesson) string {
	if l.ID != "" {
		return l.ID
	}
	return l.Slug
}
