package content

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/mod/semver"
)

var (
	ErrInvalidPack = errors.New("invalid content pack")
	ErrOlderPack   = errors.New("content pack is older than the installed content")
)

//go:embed starter/lessons.json
var starterFS embed.FS

// Pack is the JSON seed format used to import lessons.
type Pack struct {
	Version string   `json:"version"`
	Lessons []Lesson `json:"lessons"`
}

// ParsePack decodes a pack from r. Unknown fields are rejected so that
// typos in hand-written packs surface early.
func ParsePack(r io.Reader) (*Pack, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var p Pack
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode pack: %w", err)
	}
	return &p, nil
}

// Starter returns the pack bundled with the binary.
func Starter() (*Pack, error) {
	f, err := starterFS.Open("starter/lessons.json")
	if err != nil {
		return nil, fmt.Errorf("open starter pack: %w", err)
	}
	defer f.Close()
	return ParsePack(f)
}

// Problem is a single finding from Validate.
type Problem struct {
	Lesson  string
	Message string
	Warning bool
}

func (p Problem) String() string {
	if p.Lesson == "" {
		return p.Message
	}
	return fmt.Sprintf("lesson %q: %s", p.Lesson, p.Message)
}

// Validate checks the pack. Warnings describe content that will be
// skipped at practice time; any non-warning problem makes err non-nil.
func (p *Pack) Validate() (problems []Problem, err error) {
	add := func(lesson, format string, args ...any) {
		problems = append(problems, Problem{Lesson: lesson, Message: fmt.Sprintf(format, args...)})
	}
	warn := func(lesson, format string, args ...any) {
		problems = append(problems, Problem{Lesson: lesson, Message: fmt.Sprintf(format, args...), Warning: true})
	}

	if p.Version != "" && !semver.IsValid(p.Version) {
		add("", "version %q is not a valid semantic version", p.Version)
	}

	slugs := make(map[string]bool, len(p.Lessons))
	for _, l := range p.Lessons {
		if strings.TrimSpace(l.Slug) == "" {
			add(l.Title, "missing slug")
			continue
		}
		if slugs[l.Slug] {
			add(l.Slug, "duplicate slug")
		}
		slugs[l.Slug] = true

		if strings.TrimSpace(l.Title) == "" {
			add(l.Slug, "missing title")
		}
		if _, ok := NormalizeLevel(string(l.Level)); l.Level != "" && !ok {
			warn(l.Slug, "unknown level %q, treating as %s", l.Level, Beginner)
		}

		for i, v := range l.Vocab {
			if strings.TrimSpace(v.Gloss) == "" {
				add(l.Slug, "vocab %d (%q): missing English gloss", i, v.BaseTerm)
			}
			if strings.TrimSpace(v.BaseTerm) == "" && len(v.Variants) == 0 {
				add(l.Slug, "vocab %d: needs a base term or at least one variant", i)
			}
			for _, vr := range v.Variants {
				if _, ok := ParseDialect(string(vr.Dialect)); !ok {
					add(l.Slug, "vocab %q: unknown dialect %q", v.BaseTerm, vr.Dialect)
				}
				if strings.TrimSpace(vr.Phrase) == "" {
					add(l.Slug, "vocab %q: empty %s phrase", v.BaseTerm, vr.Dialect)
				}
			}
		}

		for i, q := range l.QuizItems() {
			switch q.Kind {
			case QuizMCQ, QuizTrueFalse, QuizFill:
			default:
				add(l.Slug, "quiz question %d: unknown type %q", i, q.Kind)
			}
			if len(q.Answers) == 0 {
				warn(l.Slug, "quiz question %d has no answers and will be skipped", i)
			} else if !q.Usable() {
				warn(l.Slug, "quiz question %d has no correct answer and will be skipped", i)
			}
		}
	}

	var errs []string
	for _, pr := range problems {
		if !pr.Warning {
			errs = append(errs, pr.String())
		}
	}
	if len(errs) > 0 {
		return problems, fmt.Errorf("%w:\n  %s", ErrInvalidPack, strings.Join(errs, "\n  "))
	}
	return problems, nil
}

// CheckVersion decides whether a pack at version next may replace the
// installed content at version current. Empty versions are always
// accepted. Unless force is set, downgrades are rejected.
func CheckVersion(current, next string, force bool) error {
	if current == "" || next == "" || force {
		return nil
	}
	if !semver.IsValid(current) || !semver.IsValid(next) {
		return nil
	}
	if semver.Compare(next, current) < 0 {
		return fmt.Errorf("%w: %s < %s", ErrOlderPack, next, current)
	}
	return nil
}
