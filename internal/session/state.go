package session

import (
	"errors"
	"math"
	"time"

	"github.com/abhisek/fjala/internal/content"
	"github.com/abhisek/fjala/internal/questions"
	"github.com/abhisek/fjala/internal/spacedrep"
)

var (
	// ErrNoQuestions is returned by Load when the lesson yields nothing to practice.
	ErrNoQuestions = errors.New("No practice questions available for this lesson.")
	// ErrWrongPhase is returned when an operation does not fit the current phase.
	ErrWrongPhase = errors.New("operation not allowed in current phase")
	// ErrNotMatchPairs is returned by SubmitPairs when the current question has no pairs.
	ErrNotMatchPairs = errors.New("current question is not a match_pairs question")
)

// SessionPhase represents the current phase of the session.
type SessionPhase int

const (
	PhaseLoading       SessionPhase = iota // Fetching the lesson and building questions
	PhaseError                             // Loading failed, Err is set
	PhasePresenting                        // Waiting for an answer to the current question
	PhaseShowingResult                     // Showing the result of the last answer
	PhaseComplete                          // Last question done or out of hearts
)

func (p SessionPhase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseError:
		return "error"
	case PhasePresenting:
		return "presenting"
	case PhaseShowingResult:
		return "showing_result"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// XP awards.
const (
	XPCorrect     = 10
	XPTypingBonus = 2
	XPAttempt     = 5
)

// DefaultQuestionCount is the number of questions a practice session asks
// unless configured otherwise.
const DefaultQuestionCount = 15

// DefaultTipEvery is how often a cultural tip is attached to a result.
const DefaultTipEvery = 4

// DefaultMaxHearts is the number of hearts a session starts with.
const DefaultMaxHearts = 5

// Rules are the tunable parts of a session.
type Rules struct {
	QuestionCount int
	TipEvery      int

	HeartsEnabled bool
	MaxHearts     int

	// DueOnly drops questions whose practice item is not due yet.
	DueOnly bool

	Match questions.MatchRules
}

// DefaultRules returns the rules used when nothing is configured.
func DefaultRules() Rules {
	return Rules{
		QuestionCount: DefaultQuestionCount,
		TipEvery:      DefaultTipEvery,
		MaxHearts:     DefaultMaxHearts,
		Match:         questions.DefaultMatchRules(),
	}
}

func (r Rules) withDefaults() Rules {
	if r.QuestionCount <= 0 {
		r.QuestionCount = DefaultQuestionCount
	}
	if r.TipEvery <= 0 {
		r.TipEvery = DefaultTipEvery
	}
	if r.MaxHearts <= 0 {
		r.MaxHearts = DefaultMaxHearts
	}
	return r
}

// Stats are the running counters of a session.
type Stats struct {
	Answered int `json:"answered"`
	Correct  int `json:"correct"`
	Wrong    int `json:"wrong"`
	Skipped  int `json:"skipped"`
	XP       int `json:"xp_earned"`
}

// Accuracy returns correct/answered as a rounded percentage.
func (s Stats) Accuracy() int {
	if s.Answered == 0 {
		return 0
	}
	return int(math.Round(float64(s.Correct) / float64(s.Answered) * 100))
}

// Result is the outcome of one submitted answer.
type Result struct {
	QuestionID    string         `json:"question_id"`
	Type          questions.Type `json:"type"`
	Answer        string         `json:"answer"`
	Correct       bool           `json:"correct"`
	Skipped       bool           `json:"skipped"`
	CorrectAnswer string         `json:"correct_answer"`
	Explanation   string         `json:"explanation,omitempty"`
	XP            int            `json:"xp"`
	TotalXP       int            `json:"total_xp"`
	Streak        int            `json:"streak"`
	Tip           string         `json:"tip,omitempty"`
	HeartsLeft    int            `json:"hearts_left"`
	GameOver      bool           `json:"game_over"`

	Item spacedrep.PracticeItem `json:"item"`
}

// State is a copy of the session's observable fields.
type State struct {
	ID         string              `json:"id"`
	Lesson     string              `json:"lesson"`
	Dialect    content.Dialect     `json:"dialect"`
	Phase      string              `json:"phase"`
	Index      int                 `json:"index"`
	Total      int                 `json:"total"`
	Stats      Stats               `json:"stats"`
	Hearts     int                 `json:"hearts"`
	HeartsOn   bool                `json:"hearts_enabled"`
	GameOver   bool                `json:"game_over"`
	Question   *questions.Question `json:"question,omitempty"`
	LastResult *Result             `json:"last_result,omitempty"`
	StartTime  time.Time           `json:"start_time"`
}
