package questions

// Type describes how the learner answers a question.
type Type string

const (
	// TypeMCQEnSq asks for the Albanian phrase of an English gloss.
	TypeMCQEnSq Type = "mcq_en_sq"

	// TypeMCQSqEn asks for the English meaning of an Albanian phrase.
	TypeMCQSqEn Type = "mcq_sq_en"

	// TypeTypeWord asks the learner to type the Albanian phrase.
	TypeTypeWord Type = "type_word"

	// TypeMatchPairs asks the learner to match glosses with phrases.
	TypeMatchPairs Type = "match_pairs"

	// TypeAudio plays a recording and asks for the English meaning.
	TypeAudio Type = "audio"
)

// IsMultipleChoice reports whether questions of this type carry Options.
func (t Type) IsMultipleChoice() bool {
	switch t {
	case TypeMCQEnSq, TypeMCQSqEn, TypeAudio:
		return true
	}
	return false
}

// Label returns a short human-readable name for the type.
func (t Type) Label() string {
	switch t {
	case TypeMCQEnSq:
		return "English → Albanian"
	case TypeMCQSqEn:
		return "Albanian → English"
	case TypeTypeWord:
		return "Type it"
	case TypeMatchPairs:
		return "Match pairs"
	case TypeAudio:
		return "Listen"
	}
	return string(t)
}

// Pair is one left/right entry of a match_pairs question.
type Pair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// Question is a generated practice question. Questions are rebuilt for
// every session and never stored.
type Question struct {
	// ID is stable across sessions for the same source item and type,
	// e.g. "<vocabID>_en_sq" or "quiz_<quizItemID>". Practice records are
	// keyed by it.
	ID string `json:"id"`

	Type   Type   `json:"type"`
	Prompt string `json:"prompt"`

	// CorrectAnswer is the expected option or typed text. For
	// match_pairs it is the full-board result, e.g. "6/6".
	CorrectAnswer string `json:"correct_answer"`

	// Options is set for multiple-choice types and always contains
	// CorrectAnswer.
	Options []string `json:"options,omitempty"`

	// Pairs is set for match_pairs only.
	Pairs []Pair `json:"pairs,omitempty"`

	Explanation string `json:"explanation,omitempty"`
	AudioURL    string `json:"audio_url,omitempty"`
}
