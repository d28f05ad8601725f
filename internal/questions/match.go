package questions

import "math/rand/v2"

// Side is a column of the match board.
type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// MatchRules tune how forgiving a match board is.
type MatchRules struct {
	// EitherOrder lets the learner start a match from the right column.
	EitherOrder bool

	// MissLimit ends the board as failed after this many wrong matches.
	// Zero means wrong matches are discarded without penalty.
	MissLimit int
}

// DefaultMatchRules accepts either order and never penalizes misses.
func DefaultMatchRules() MatchRules {
	return MatchRules{EitherOrder: true}
}

// MatchOutcome describes what a Select call did.
type MatchOutcome int

const (
	// MatchIgnored means the click had no effect.
	MatchIgnored MatchOutcome = iota
	// MatchSelected means the item is now the pending selection.
	MatchSelected
	// MatchCommitted means a correct pair was locked in.
	MatchCommitted
	// MatchMissed means a wrong pair was discarded.
	MatchMissed
)

// MatchBoard is the interaction state of a match_pairs question. The left
// column keeps pair order; the right column can be shuffled for display.
type MatchBoard struct {
	pairs      []Pair
	rules      MatchRules
	rightOrder []int // display index -> pair index

	leftDone  []bool
	rightDone []bool // by display index

	hasSel  bool
	selSide Side
	selIdx  int

	matched int
	misses  int
}

// NewMatchBoard creates a board for pairs.
func NewMatchBoard(pairs []Pair, rules MatchRules) *MatchBoard {
	order := make([]int, len(pairs))
	for i := range order {
		order[i] = i
	}
	return &MatchBoard{
		pairs:      pairs,
		rules:      rules,
		rightOrder: order,
		leftDone:   make([]bool, len(pairs)),
		rightDone:  make([]bool, len(pairs)),
	}
}

// ShuffleRight randomizes the display order of the right column. Call it
// before any selection is made.
func (b *MatchBoard) ShuffleRight(r *rand.Rand) {
	Shuffle(r, b.rightOrder)
}

// Len returns the number of rows.
func (b *MatchBoard) Len() int {
	return len(b.pairs)
}

// Item returns the text shown at row i of column side.
func (b *MatchBoard) Item(side Side, i int) string {
	if side == Left {
		return b.pairs[i].Left
	}
	return b.pairs[b.rightOrder[i]].Right
}

// IsMatched reports whether row i of column side is already locked in.
func (b *MatchBoard) IsMatched(side Side, i int) bool {
	if side == Left {
		return b.leftDone[i]
	}
	return b.rightDone[i]
}

// Selection returns the pending selection, if any.
func (b *MatchBoard) Selection() (side Side, i int, ok bool) {
	return b.selSide, b.selIdx, b.hasSel
}

// Select handles a click on row i of column side. A second click in the
// other column commits the pair if both belong to the same declared pair;
// otherwise the pair is discarded and counted as a miss.
func (b *MatchBoard) Select(side Side, i int) MatchOutcome {
	if b.Done() || i < 0 || i >= len(b.pairs) || b.IsMatched(side, i) {
		return MatchIgnored
	}

	if !b.hasSel || b.selSide == side {
		if !b.hasSel && side == Right && !b.rules.EitherOrder {
			return MatchIgnored
		}
		b.hasSel, b.selSide, b.selIdx = true, side, i
		return MatchSelected
	}

	li, ri := b.selIdx, i
	if side == Left {
		li, ri = i, b.selIdx
	}
	b.hasSel = false

	if b.pairs[li].Right == b.pairs[b.rightOrder[ri]].Right {
		b.leftDone[li] = true
		b.rightDone[ri] = true
		b.matched++
		return MatchCommitted
	}
	b.misses++
	return MatchMissed
}

// Matched returns the number of committed pairs.
func (b *MatchBoard) Matched() int {
	return b.matched
}

// Misses returns the number of discarded wrong pairs.
func (b *MatchBoard) Misses() int {
	return b.misses
}

// Failed reports whether the miss limit has been reached.
func (b *MatchBoard) Failed() bool {
	return b.rules.MissLimit > 0 && b.misses >= b.rules.MissLimit
}

// Done reports whether the board accepts no more input.
func (b *MatchBoard) Done() bool {
	return b.matched == len(b.pairs) || b.Failed()
}

// Result returns the answer token to pass to Check.
func (b *MatchBoard) Result() string {
	return MatchResult(b.matched, len(b.pairs))
}
