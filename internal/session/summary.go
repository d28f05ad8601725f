package session

import (
	"time"

	"github.com/abhisek/fjala/internal/progress"
)

// SessionSummary holds the data displayed on the summary screen.
type SessionSummary struct {
	Lesson        string        `json:"lesson"`
	Accuracy      int           `json:"accuracy"`
	XPEarned      int           `json:"xp_earned"`
	Answered      int           `json:"answered"`
	Correct       int           `json:"correct"`
	Incorrect     int           `json:"incorrect"`
	Skipped       int           `json:"skipped"`
	HeartsLeft    int           `json:"hearts_left"`
	HeartsEnabled bool          `json:"hearts_enabled"`
	GameOver      bool          `json:"game_over"`
	Streak        int           `json:"streak"`
	NextMilestone int           `json:"next_milestone"`
	TotalXP       int           `json:"total_xp"`
	Duration      time.Duration `json:"duration"`
}

// Summary reports the session so far. Incorrect counts skips as well as
// wrong answers.
func (s *Session) Summary() SessionSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := SessionSummary{
		Accuracy:      s.stats.Accuracy(),
		XPEarned:      s.stats.XP,
		Answered:      s.stats.Answered,
		Correct:       s.stats.Correct,
		Incorrect:     s.stats.Answered - s.stats.Correct,
		Skipped:       s.stats.Skipped,
		HeartsLeft:    s.hearts,
		HeartsEnabled: s.rules.HeartsEnabled,
		GameOver:      s.gameOver,
		Streak:        s.streak,
		NextMilestone: progress.NextStreakMilestone(s.streak),
		TotalXP:       s.totalXP,
	}
	if s.lesson != nil {
		sum.Lesson = s.lesson.Slug
	}
	if !s.startTime.IsZero() {
		sum.Duration = s.deps.Now().Sub(s.startTime)
	}
	return sum
}
