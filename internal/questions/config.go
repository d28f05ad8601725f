package questions

// DefaultCount is used when Generate is asked for zero or fewer questions.
const DefaultCount = 20

// Config controls the shape of generated question sets.
type Config struct {
	// MaxOptions is the number of options shown for multiple choice,
	// including the correct answer.
	MaxOptions int

	// MatchPairs is how many vocabulary items feed the match_pairs
	// question.
	MatchPairs int

	// MinMatchVocab is the smallest vocabulary size that gets a
	// match_pairs question.
	MinMatchVocab int
}

// DefaultConfig returns the stock question-set shape.
func DefaultConfig() Config {
	return Config{
		MaxOptions:    4,
		MatchPairs:    6,
		MinMatchVocab: 4,
	}
}
