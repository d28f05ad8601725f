package content

import (
	"errors"
	"strings"
	"testing"
)

func TestVocabItem_Pick(t *testing.T) {
	item := VocabItem{
		BaseTerm: "ujë",
		Gloss:    "water",
		Variants: []Variant{
			{Dialect: Gheg, Phrase: "uj"},
			{Dialect: Tosk, Phrase: "ujë", IPA: "ujə"},
		},
	}

	tests := []struct {
		name    string
		item    VocabItem
		dialect Dialect
		want    string
	}{
		{"exact tosk", item, Tosk, "ujë"},
		{"exact gheg", item, Gheg, "uj"},
		{"first variant fallback", VocabItem{BaseTerm: "x", Variants: []Variant{{Dialect: Gheg, Phrase: "uj"}}}, Tosk, "uj"},
		{"base term fallback", VocabItem{BaseTerm: "bukë"}, Tosk, "bukë"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.item.Pick(tt.dialect)
			if got.Phrase != tt.want {
				t.Errorf("Pick(%s).Phrase = %q, want %q", tt.dialect, got.Phrase, tt.want)
			}
		})
	}

	if got := item.Pick(Tosk).IPA; got != "ujə" {
		t.Errorf("Pick(tosk).IPA = %q, want %q", got, "ujə")
	}

	// Gheg has no IPA of its own; it borrows from the first variant.
	withIPA := VocabItem{Variants: []Variant{
		{Dialect: Tosk, Phrase: "bukë", IPA: "bukə", AudioURL: "buke.mp3"},
		{Dialect: Gheg, Phrase: "bukë"},
	}}
	got := withIPA.Pick(Gheg)
	if got.IPA != "bukə" || got.AudioURL != "buke.mp3" {
		t.Errorf("Pick(gheg) = %+v, want IPA and audio from first variant", got)
	}
}

func TestParseDialect(t *testing.T) {
	tests := []struct {
		in     string
		want   Dialect
		wantOK bool
	}{
		{"gheg", Gheg, true},
		{" TOSK ", Tosk, true},
		{"arbëresh", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseDialect(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseDialect(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestNormalizeLevel(t *testing.T) {
	tests := []struct {
		in     string
		want   Level
		wantOK bool
	}{
		{"beginner", Beginner, true},
		{"A2", Beginner, true},
		{"b1", Intermediate, true},
		{"C2", Advanced, true},
		{"expert", Beginner, false},
	}
	for _, tt := range tests {
		got, ok := NormalizeLevel(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("NormalizeLevel(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestQuizItem_CorrectAnswer(t *testing.T) {
	q := QuizItem{Answers: []Answer{{Label: "a"}, {Label: "b", Correct: true}, {Label: "c", Correct: true}}}
	got, ok := q.CorrectAnswer()
	if !ok || got != "b" {
		t.Errorf("CorrectAnswer() = (%q, %v), want (%q, true)", got, ok, "b")
	}

	none := QuizItem{Answers: []Answer{{Label: "a"}}}
	if none.Usable() {
		t.Error("Usable() = true for quiz item without correct answer")
	}
}

func TestStarterPack(t *testing.T) {
	p, err := Starter()
	if err != nil {
		t.Fatalf("Starter() error: %v", err)
	}
	if len(p.Lessons) == 0 {
		t.Fatal("starter pack has no lessons")
	}
	problems, err := p.Validate()
	if err != nil {
		t.Fatalf("starter pack invalid: %v", err)
	}
	for _, pr := range problems {
		t.Errorf("unexpected problem: %s", pr)
	}
}

func TestParsePack_RejectsUnknownFields(t *testing.T) {
	_, err := ParsePack(strings.NewReader(`{"version":"v1.0.0","lesons":[]}`))
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestValidate(t *testing.T) {
	p := &Pack{
		Version: "1.0",
		Lessons: []Lesson{
			{Slug: "a", Title: "A", Vocab: []VocabItem{{BaseTerm: "po"}}},
			{Slug: "a", Title: "Again"},
			{Slug: "b", Title: "B", Vocab: []VocabItem{{BaseTerm: "jo", Gloss: "no", Variants: []Variant{{Dialect: "arb", Phrase: "jo"}}}}},
			{Slug: "c", Title: "C", Quiz: &Quiz{Questions: []QuizItem{
				{Kind: QuizMCQ, Prompt: "?", Answers: []Answer{{Label: "x"}}},
			}}},
		},
	}

	problems, err := p.Validate()
	if !errors.Is(err, ErrInvalidPack) {
		t.Fatalf("Validate() error = %v, want ErrInvalidPack", err)
	}

	var warnings, errs int
	for _, pr := range problems {
		if pr.Warning {
			warnings++
		} else {
			errs++
		}
	}
	// bad version, missing gloss, duplicate slug, unknown dialect
	if errs != 4 {
		t.Errorf("errors = %d, want 4: %v", errs, problems)
	}
	if warnings != 1 {
		t.Errorf("warnings = %d, want 1: %v", warnings, problems)
	}
}

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		name    string
		current string
		next    string
		force   bool
		wantErr bool
	}{
		{"fresh install", "", "v1.0.0", false, false},
		{"upgrade", "v1.0.0", "v1.1.0", false, false},
		{"same", "v1.1.0", "v1.1.0", false, false},
		{"downgrade", "v1.2.0", "v1.1.0", false, true},
		{"forced downgrade", "v1.2.0", "v1.1.0", true, false},
		{"unversioned pack", "v1.2.0", "", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckVersion(tt.current, tt.next, tt.force)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckVersion(%q, %q) error = %v, wantErr %v", tt.current, tt.next, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrOlderPack) {
				t.Errorf("error %v is not ErrOlderPack", err)
			}
		})
	}
}
