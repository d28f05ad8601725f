package store

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/fjala/internal/content"
)

// ErrNotFound is returned when a lesson does not exist.
var ErrNotFound = errors.New("not found")

// LessonInfo is a lesson without its children, plus their counts.
type LessonInfo struct {
	content.Lesson
	VocabCount int `json:"vocab_count"`
	QuizCount  int `json:"quiz_count"`
}

// ImportResult reports what ImportPack changed.
type ImportResult struct {
	Version  string
	Created  []string
	Updated  []string
	Problems []content.Problem
}

// ContentRepo stores lessons with their vocabulary and quizzes.
type ContentRepo interface {
	// ImportPack upserts every lesson of pack by slug, replacing the
	// vocabulary and quiz of lessons that already exist. It refuses a pack
	// older than the last imported one unless force is set.
	ImportPack(ctx context.Context, pack *content.Pack, force bool) (*ImportResult, error)

	// PackVersion returns the version of the last imported pack, or "".
	PackVersion(ctx context.Context) (string, error)

	// ListLessons returns lessons in pack order.
	ListLessons(ctx context.Context, publishedOnly bool) ([]LessonInfo, error)

	// LessonBySlug returns a lesson without vocabulary or quiz.
	LessonBySlug(ctx context.Context, slug string) (*content.Lesson, error)

	// LoadPractice returns a lesson with vocabulary, variants and quiz.
	LoadPractice(ctx context.Context, slug string) (*content.Lesson, error)
}

// KVRepo is a string key-value table. It implements progress.KV.
type KVRepo interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// AnswerEventData captures a single scored answer.
type AnswerEventData struct {
	SessionID    string
	LessonSlug   string
	QuestionID   string
	QuestionType string
	Answer       string
	Correct      bool
	Skipped      bool
	XP           int
	Ease         int
}

// SessionEventData captures a session lifecycle change.
type SessionEventData struct {
	SessionID    string
	LessonSlug   string
	Action       string // "start", "restart" or "end"
	Questions    int
	Answered     int
	Correct      int
	XPEarned     int
	GameOver     bool
	DurationSecs int
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// ModelUsage is the token total recorded for one model.
type ModelUsage struct {
	Model        string
	Requests     int
	InputTokens  int
	OutputTokens int
}

// SessionRecord is a finished session as stored by AppendSession.
type SessionRecord struct {
	Sequence  int64
	Timestamp time.Time
	SessionEventData
}

// DayXP is the XP earned on one calendar day.
type DayXP struct {
	Date string
	XP   int
}

// Accuracy summarises the answers given for a lesson.
type Accuracy struct {
	Answered int
	Correct  int
}

// Ratio returns correct/answered, or 0 without answers.
func (a Accuracy) Ratio() float64 {
	if a.Answered == 0 {
		return 0
	}
	return float64(a.Correct) / float64(a.Answered)
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	AppendAnswer(ctx context.Context, data AnswerEventData) error
	AppendSession(ctx context.Context, data SessionEventData) error

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// RecentSessions returns the last n finished sessions, newest first.
	RecentSessions(ctx context.Context, n int) ([]SessionRecord, error)

	// LessonAccuracy counts the non-skipped answers given for a lesson.
	LessonAccuracy(ctx context.Context, slug string) (Accuracy, error)

	// DailyXP returns the XP earned per day over the last days days
	// ending at now, oldest first. Days without practice are included.
	DailyXP(ctx context.Context, days int, now time.Time) ([]DayXP, error)

	// LLMUsage sums recorded LLM token usage per model.
	LLMUsage(ctx context.Context) ([]ModelUsage, error)
}
