package questions

import (
	"math/rand/v2"
	"strings"

	"github.com/samber/lo"
)

// Shuffle permutes s in place using Fisher–Yates.
func Shuffle[T any](r *rand.Rand, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

// DistractorPool holds the candidate wrong answers for one direction of
// multiple choice (all English glosses, or all picked Albanian phrases).
type DistractorPool struct {
	candidates []string
}

// NewDistractorPool builds a pool from candidates, dropping blanks and
// duplicates.
func NewDistractorPool(candidates []string) DistractorPool {
	kept := lo.Filter(candidates, func(c string, _ int) bool {
		return strings.TrimSpace(c) != ""
	})
	return DistractorPool{candidates: lo.Uniq(kept)}
}

// Len returns the number of distinct candidates.
func (p DistractorPool) Len() int {
	return len(p.candidates)
}

// Options returns up to n shuffled options: correct plus at most n-1
// distractors drawn without replacement. The result never contains
// duplicates.
func (p DistractorPool) Options(r *rand.Rand, correct string, n int) []string {
	if n < 1 {
		n = 1
	}
	avail := lo.Without(p.candidates, correct)

	options := make([]string, 0, n)
	options = append(options, correct)
	for len(options) < n && len(avail) > 0 {
		i := r.IntN(len(avail))
		options = append(options, avail[i])
		avail[i] = avail[len(avail)-1]
		avail = avail[:len(avail)-1]
	}

	Shuffle(r, options)
	return options
}
