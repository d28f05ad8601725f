package spacedrep

import "time"

// Ease approximates how well a question is known, from 0 (just missed) to
// MaxEase.
type Ease int

const (
	// MinEase is the floor reached by repeated wrong answers.
	MinEase Ease = 0

	// MaxEase is the cap reached by repeated correct answers.
	MaxEase Ease = 5

	// InitialEase is assigned to a question the first time it is answered.
	InitialEase Ease = 2
)

// Intervals maps ease to the delay before a correctly answered question
// is due again. Ease values past the end use the last entry.
var Intervals = []time.Duration{
	1 * time.Minute,
	10 * time.Minute,
	24 * time.Hour,
	3 * 24 * time.Hour,
	7 * 24 * time.Hour,
}

// RetryDelay is how soon a wrongly answered question comes back,
// regardless of ease.
const RetryDelay = 60 * time.Second

// Interval returns the review delay for ease e.
func Interval(e Ease) time.Duration {
	switch {
	case e < 0:
		return Intervals[0]
	case int(e) >= len(Intervals):
		return Intervals[len(Intervals)-1]
	}
	return Intervals[e]
}

// UpdateEase moves e one step up on a correct answer and one step down on
// a wrong one, staying within [MinEase, MaxEase].
func UpdateEase(e Ease, correct bool) Ease {
	if correct {
		return min(MaxEase, e+1)
	}
	return max(MinEase, e-1)
}

// NextDue returns when a question answered at now with the updated ease
// should be shown again.
func NextDue(e Ease, correct bool, now time.Time) time.Time {
	if !correct {
		return now.Add(RetryDelay)
	}
	return now.Add(Interval(e))
}
