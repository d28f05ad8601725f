package questions

import (
	"math/rand/v2"
	"slices"
	"testing"
)

func TestCheck(t *testing.T) {
	mcq := &Question{Type: TypeMCQEnSq, CorrectAnswer: "ujë", Options: []string{"ujë", "bukë"}}
	audio := &Question{Type: TypeAudio, CorrectAnswer: "water"}
	typed := &Question{Type: TypeTypeWord, CorrectAnswer: "bukë"}
	match := &Question{Type: TypeMatchPairs, Pairs: make([]Pair, 4)}

	tests := []struct {
		name   string
		q      *Question
		answer string
		want   bool
	}{
		{"mcq exact", mcq, "ujë", true},
		{"mcq wrong", mcq, "bukë", false},
		{"mcq is case sensitive", mcq, "UJË", false},
		{"mcq is not trimmed", mcq, " ujë", false},
		{"audio exact", audio, "water", true},
		{"audio wrong", audio, "bread", false},
		{"type trimmed and folded", typed, " BUKË ", true},
		{"type exact", typed, "bukë", true},
		{"type wrong", typed, "buke", false},
		{"type empty", typed, "   ", false},
		{"match complete", match, "4/4", true},
		{"match partial", match, "3/4", false},
		{"match wrong total", match, "6/6", false},
		{"match garbage", match, "all", false},
		{"match empty", match, "", false},
		{"nil question", nil, "x", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Check(tt.q, tt.answer)
			if got != tt.want {
				t.Errorf("Check(%q) = %v, want %v", tt.answer, got, tt.want)
			}
			// Scoring is a pure function of its inputs.
			if again := Check(tt.q, tt.answer); again != got {
				t.Errorf("Check(%q) not idempotent: %v then %v", tt.answer, got, again)
			}
		})
	}
}

func TestCheck_EmptyMatchQuestion(t *testing.T) {
	q := &Question{Type: TypeMatchPairs}
	if Check(q, MatchResult(0, 0)) {
		t.Error("match question without pairs must never be correct")
	}
}

func TestParseMatchResult(t *testing.T) {
	tests := []struct {
		in          string
		wantMatched int
		wantTotal   int
		wantOK      bool
	}{
		{"2/6", 2, 6, true},
		{" 6/6 ", 6, 6, true},
		{"7/6", 0, 0, false},
		{"-1/6", 0, 0, false},
		{"x", 0, 0, false},
	}
	for _, tt := range tests {
		m, n, ok := ParseMatchResult(tt.in)
		if m != tt.wantMatched || n != tt.wantTotal || ok != tt.wantOK {
			t.Errorf("ParseMatchResult(%q) = (%d, %d, %v), want (%d, %d, %v)",
				tt.in, m, n, ok, tt.wantMatched, tt.wantTotal, tt.wantOK)
		}
	}
}

func TestScorePairs(t *testing.T) {
	want := []Pair{{Left: "po", Right: "yes"}, {Left: "jo", Right: "no"}, {Left: "ujë", Right: "water"}}

	tests := []struct {
		name string
		got  []Pair
		want string
	}{
		{"all", want, "3/3"},
		{"swapped", []Pair{{Left: "po", Right: "no"}, {Left: "jo", Right: "yes"}, {Left: "ujë", Right: "water"}}, "1/3"},
		{"repeated left", []Pair{{Left: "po", Right: "yes"}, {Left: "po", Right: "yes"}}, "1/3"},
		{"unknown", []Pair{{Left: "bukë", Right: "bread"}}, "0/3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScorePairs(want, tt.got); got != tt.want {
				t.Errorf("ScorePairs() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDistractorPool(t *testing.T) {
	pool := NewDistractorPool([]string{"water", "bread", "", "water", "coffee", "cheese", "meat"})
	if pool.Len() != 5 {
		t.Errorf("Len() = %d, want 5", pool.Len())
	}

	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 100; i++ {
		opts := pool.Options(r, "water", 4)
		if len(opts) != 4 {
			t.Fatalf("len = %d, want 4", len(opts))
		}
		if !slices.Contains(opts, "water") {
			t.Fatalf("options %v missing correct answer", opts)
		}
		sorted := slices.Clone(opts)
		slices.Sort(sorted)
		if len(slices.Compact(sorted)) != 4 {
			t.Fatalf("options %v contain duplicates", opts)
		}
	}
}

func TestDistractorPool_Exhausted(t *testing.T) {
	pool := NewDistractorPool([]string{"water", "bread"})
	opts := pool.Options(rand.New(rand.NewPCG(1, 2)), "water", 4)
	if len(opts) != 2 {
		t.Errorf("Options = %v, want 2 entries", opts)
	}
}

func TestShuffle_IsPermutation(t *testing.T) {
	in := []int{1, 2, 3, 4, 5, 6, 7}
	s := slices.Clone(in)
	Shuffle(rand.New(rand.NewPCG(3, 4)), s)
	slices.Sort(s)
	if !slices.Equal(s, in) {
		t.Errorf("Shuffle lost elements: %v", s)
	}
}

func TestShuffle_UsesEveryPosition(t *testing.T) {
	r := rand.New(rand.NewPCG(5, 6))
	firsts := map[int]bool{}
	for i := 0; i < 200; i++ {
		s := []int{0, 1, 2, 3}
		Shuffle(r, s)
		firsts[s[0]] = true
	}
	if len(firsts) != 4 {
		t.Errorf("first position only ever held %v", firsts)
	}
}
