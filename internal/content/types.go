package content

import "strings"

// Dialect is one of the two regional variants of Albanian.
type Dialect string

const (
	Gheg Dialect = "gheg"
	Tosk Dialect = "tosk"
)

// DefaultDialect is used when no preference has been stored.
const DefaultDialect = Tosk

// AllDialects returns the supported dialects in display order.
func AllDialects() []Dialect {
	return []Dialect{Gheg, Tosk}
}

// ParseDialect normalizes s into a Dialect.
func ParseDialect(s string) (Dialect, bool) {
	switch Dialect(strings.ToLower(strings.TrimSpace(s))) {
	case Gheg:
		return Gheg, true
	case Tosk:
		return Tosk, true
	}
	return "", false
}

func (d Dialect) String() string {
	return string(d)
}

// DisplayName returns a title-cased name for the dialect.
func (d Dialect) DisplayName() string {
	switch d {
	case Gheg:
		return "Gheg"
	case Tosk:
		return "Tosk"
	}
	return string(d)
}

// Level is the difficulty band of a lesson.
type Level string

const (
	Beginner     Level = "beginner"
	Intermediate Level = "intermediate"
	Advanced     Level = "advanced"
)

// AllLevels returns the levels from easiest to hardest.
func AllLevels() []Level {
	return []Level{Beginner, Intermediate, Advanced}
}

// NormalizeLevel maps a level name or a CEFR code (A1..C2) onto a Level.
// Unknown input yields Beginner and ok == false.
func NormalizeLevel(s string) (l Level, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "beginner", "a1", "a2":
		return Beginner, true
	case "intermediate", "b1", "b2":
		return Intermediate, true
	case "advanced", "c1", "c2":
		return Advanced, true
	}
	return Beginner, false
}

// Variant is the spelling of a vocabulary item in one dialect.
type Variant struct {
	Dialect  Dialect `json:"dialect"`
	Phrase   string  `json:"phrase"`
	IPA      string  `json:"ipa,omitempty"`
	AudioURL string  `json:"audio_url,omitempty"`
}

// VocabItem is a single word or phrase taught by a lesson.
type VocabItem struct {
	ID       string    `json:"id,omitempty"`
	BaseTerm string    `json:"base_term"`
	Gloss    string    `json:"eng_gloss"`
	Notes    string    `json:"notes,omitempty"`
	Variants []Variant `json:"variants,omitempty"`
}

// Pick returns the variant to show for dialect d. An exact dialect match
// wins, then the first variant; IPA and audio missing on the chosen variant
// are taken from the first one. Items without variants fall back to the
// base term.
func (v VocabItem) Pick(d Dialect) Variant {
	if len(v.Variants) == 0 {
		return Variant{Dialect: d, Phrase: v.BaseTerm}
	}

	first := v.Variants[0]
	picked := first
	for _, vr := range v.Variants {
		if vr.Dialect == d {
			picked = vr
			break
		}
	}
	if picked.IPA == "" {
		picked.IPA = first.IPA
	}
	if picked.AudioURL == "" {
		picked.AudioURL = first.AudioURL
	}
	return picked
}

// QuizKind is the authoring type of a quiz question.
type QuizKind string

const (
	QuizMCQ       QuizKind = "mcq"
	QuizTrueFalse QuizKind = "truefalse"
	QuizFill      QuizKind = "fill"
)

// Answer is one selectable answer of a quiz question.
type Answer struct {
	Label   string `json:"label"`
	Correct bool   `json:"is_correct"`
}

// QuizItem is an authored quiz question.
type QuizItem struct {
	ID          string   `json:"id,omitempty"`
	Kind        QuizKind `json:"type"`
	Prompt      string   `json:"prompt"`
	Explanation string   `json:"explanation,omitempty"`
	Answers     []Answer `json:"answers"`
}

// CorrectAnswer returns the first answer marked correct.
func (q QuizItem) CorrectAnswer() (string, bool) {
	for _, a := range q.Answers {
		if a.Correct {
			return a.Label, true
		}
	}
	return "", false
}

// Usable reports whether at least one answer is marked correct.
func (q QuizItem) Usable() bool {
	_, ok := q.CorrectAnswer()
	return ok
}

// Quiz groups the quiz questions of a lesson.
type Quiz struct {
	ID        string     `json:"id,omitempty"`
	Title     string     `json:"title"`
	Questions []QuizItem `json:"questions"`
}

// Lesson is a unit of content with vocabulary and an optional quiz.
type Lesson struct {
	ID           string      `json:"id,omitempty"`
	Slug         string      `json:"slug"`
	Title        string      `json:"title"`
	Level        Level       `json:"level,omitempty"`
	Summary      string      `json:"summary,omitempty"`
	BodyMarkdown string      `json:"body_markdown,omitempty"`
	Published    bool        `json:"published"`
	Vocab        []VocabItem `json:"vocab,omitempty"`
	Quiz         *Quiz       `json:"quiz,omitempty"`
}

// QuizItems returns the lesson's quiz questions, or nil without a quiz.
func (l *Lesson) QuizItems() []QuizItem {
	if l.Quiz == nil {
		return nil
	}
	return l.Quiz.Questions
}
