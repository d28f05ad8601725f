package questions

import (
	"fmt"
	"strings"
)

// Check reports whether answer is correct for q. It depends only on its
// arguments, so re-checking the same pair always gives the same verdict.
//
// Rules per type:
//   - multiple choice and audio: exact match against CorrectAnswer
//   - type_word: whitespace-trimmed, case-insensitive match
//   - match_pairs: answer is a MatchBoard result token and every pair
//     must have been matched
func Check(q *Question, answer string) bool {
	if q == nil {
		return false
	}

	switch q.Type {
	case TypeMCQEnSq, TypeMCQSqEn, TypeAudio:
		return answer == q.CorrectAnswer

	case TypeTypeWord:
		typed := strings.TrimSpace(answer)
		if typed == "" {
			return false
		}
		return strings.EqualFold(typed, strings.TrimSpace(q.CorrectAnswer))

	case TypeMatchPairs:
		matched, total, ok := ParseMatchResult(answer)
		if !ok {
			return false
		}
		return total > 0 && total == len(q.Pairs) && matched == total
	}
	return false
}

// MatchResult formats the outcome of a match board as "<matched>/<total>".
func MatchResult(matched, total int) string {
	return fmt.Sprintf("%d/%d", matched, total)
}

// ScorePairs counts the pairings in got that match want and formats them
// as a match result. Each left item counts once.
func ScorePairs(want, got []Pair) string {
	right := make(map[string]string, len(want))
	for _, p := range want {
		right[p.Left] = p.Right
	}
	seen := make(map[string]bool, len(got))
	matched := 0
	for _, p := range got {
		if seen[p.Left] {
			continue
		}
		seen[p.Left] = true
		if r, ok := right[p.Left]; ok && r == p.Right {
			matched++
		}
	}
	return MatchResult(matched, len(want))
}

// ParseMatchResult parses a token written by MatchResult.
func ParseMatchResult(s string) (matched, total int, ok bool) {
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d/%d", &matched, &total); err != nil {
		return 0, 0, false
	}
	if matched < 0 || total < 0 || matched > total {
		return 0, 0, false
	}
	return matched, total, true
}
