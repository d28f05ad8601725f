package progress

import "time"

// Date returns the calendar day of t in t's location as YYYY-MM-DD.
func Date(t time.Time) string {
	return t.Format(time.DateOnly)
}

// ValidStreak returns streak if the last practice happened today or
// yesterday relative to now, and 0 otherwise.
func ValidStreak(streak int, lastPractice string, now time.Time) int {
	if streak <= 0 {
		return 0
	}
	if lastPractice == Date(now) || lastPractice == Date(now.AddDate(0, 0, -1)) {
		return streak
	}
	return 0
}

// AdvanceStreak returns the streak after practicing at now. Practicing
// again on the same day leaves it unchanged; a lapse restarts it at 1.
func AdvanceStreak(streak int, lastPractice string, now time.Time) int {
	if lastPractice == Date(now) {
		return max(streak, 1)
	}
	return ValidStreak(streak, lastPractice, now) + 1
}

// NextStreakMilestone returns the next streak length worth celebrating.
func NextStreakMilestone(current int) int {
	milestones := []int{3, 7, 14, 30, 50, 100}
	for _, m := range milestones {
		if m > current {
			return m
		}
	}
	// Beyond 100, every 50 days.
	return ((current / 50) + 1) * 50
}
