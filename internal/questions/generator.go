package questions

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/samber/lo"

	"github.com/abhisek/fjala/internal/content"
)

// Generator turns a lesson's vocabulary and quiz into practice questions.
// It is safe for concurrent use.
type Generator struct {
	cfg Config

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a Generator.
type Option func(*Generator)

// WithRand sets the random source. Tests use a seeded source to get a
// deterministic order.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) {
		g.rng = r
	}
}

// New creates a Generator.
func New(cfg Config, opts ...Option) *Generator {
	g := &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, o := range opts {
		o(g)
	}
	def := DefaultConfig()
	if g.cfg.MaxOptions < 1 {
		g.cfg.MaxOptions = def.MaxOptions
	}
	if g.cfg.MatchPairs < 1 {
		g.cfg.MatchPairs = def.MatchPairs
	}
	if g.cfg.MinMatchVocab < 1 {
		g.cfg.MinMatchVocab = def.MinMatchVocab
	}
	return g
}

// Generate builds at most count questions (DefaultCount if count <= 0).
// Items that cannot form a usable question are skipped, so empty input
// gives an empty result. The order is shuffled.
func (g *Generator) Generate(vocab []content.VocabItem, quiz []content.QuizItem, dialect content.Dialect, count int) []Question {
	if count <= 0 {
		count = DefaultCount
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	picked := lo.Map(vocab, func(v content.VocabItem, _ int) content.Variant {
		return v.Pick(dialect)
	})
	glosses := NewDistractorPool(lo.Map(vocab, func(v content.VocabItem, _ int) string {
		return v.Gloss
	}))
	phrases := NewDistractorPool(lo.Map(picked, func(v content.Variant, _ int) string {
		return v.Phrase
	}))

	var out []Question
	used := make(map[string]bool)

vocabLoop:
	for i, item := range vocab {
		if len(out) >= count {
			break
		}
		variant := picked[i]
		if variant.Phrase == "" {
			continue
		}
		key := itemKey(item.ID, i)
		if used[key] {
			continue
		}
		used[key] = true

		for _, t := range vocabTypes(variant) {
			if len(out) >= count {
				break vocabLoop
			}
			out = append(out, g.vocabQuestion(key, item, variant, t, glosses, phrases))
		}
	}

	for i, qi := range quiz {
		if len(out) >= count {
			break
		}
		key := itemKey(qi.ID, i)
		if used["quiz:"+key] {
			continue
		}
		if q, ok := g.quizQuestion(key, qi); ok {
			out = append(out, q)
			used["quiz:"+key] = true
		}
	}

	if len(out) < count && len(vocab) >= g.cfg.MinMatchVocab {
		if q, ok := g.matchQuestion(vocab, picked); ok {
			out = append(out, q)
		}
	}

	Shuffle(g.rng, out)
	if len(out) > count {
		out = out[:count]
	}
	return out
}

func vocabTypes(v content.Variant) []Type {
	types := []Type{TypeMCQEnSq, TypeMCQSqEn, TypeTypeWord}
	if v.AudioURL != "" {
		types = append(types, TypeAudio)
	}
	return types
}

// itemKey falls back to the position for rows imported without an ID.
func itemKey(id string, i int) string {
	if id != "" {
		return id
	}
	return fmt.Sprintf("item%d", i)
}

func pronunciation(v content.Variant) string {
	if v.IPA == "" {
		return ""
	}
	return fmt.Sprintf("Pronunciation: /%s/", v.IPA)
}

func (g *Generator) vocabQuestion(key string, item content.VocabItem, v content.Variant, t Type, glosses, phrases DistractorPool) Question {
	switch t {
	case TypeMCQEnSq:
		return Question{
			ID:            key + "_en_sq",
			Type:          t,
			Prompt:        fmt.Sprintf("What is \"%s\" in Albanian?", item.Gloss),
			CorrectAnswer: v.Phrase,
			Options:       phrases.Options(g.rng, v.Phrase, g.cfg.MaxOptions),
			Explanation:   pronunciation(v),
		}
	case TypeMCQSqEn:
		return Question{
			ID:            key + "_sq_en",
			Type:          t,
			Prompt:        fmt.Sprintf("What does \"%s\" mean in English?", v.Phrase),
			CorrectAnswer: item.Gloss,
			Options:       glosses.Options(g.rng, item.Gloss, g.cfg.MaxOptions),
		}
	case TypeTypeWord:
		return Question{
			ID:            key + "_type",
			Type:          t,
			Prompt:        fmt.Sprintf("Type the Albanian word for \"%s\"", item.Gloss),
			CorrectAnswer: v.Phrase,
			Explanation:   pronunciation(v),
		}
	default:
		return Question{
			ID:            key + "_audio",
			Type:          TypeAudio,
			Prompt:        "Listen and select the correct meaning",
			CorrectAnswer: item.Gloss,
			Options:       glosses.Options(g.rng, item.Gloss, g.cfg.MaxOptions),
			AudioURL:      v.AudioURL,
		}
	}
}

// quizQuestion keeps the authored answer order. Duplicate labels are
// dropped and the list is capped at MaxOptions, always keeping the
// correct label.
func (g *Generator) quizQuestion(key string, qi content.QuizItem) (Question, bool) {
	correct, ok := qi.CorrectAnswer()
	if !ok {
		return Question{}, false
	}

	labels := lo.Uniq(lo.Map(qi.Answers, func(a content.Answer, _ int) string {
		return a.Label
	}))
	options := make([]string, 0, g.cfg.MaxOptions)
	budget := g.cfg.MaxOptions - 1 // one slot reserved for the correct label
	for _, l := range labels {
		if l == correct {
			options = append(options, l)
			continue
		}
		if budget > 0 {
			options = append(options, l)
			budget--
		}
	}

	return Question{
		ID:            "quiz_" + key,
		Type:          TypeMCQEnSq,
		Prompt:        qi.Prompt,
		CorrectAnswer: correct,
		Options:       options,
		Explanation:   qi.Explanation,
	}, true
}

func (g *Generator) matchQuestion(vocab []content.VocabItem, picked []content.Variant) (Question, bool) {
	n := min(len(vocab), g.cfg.MatchPairs)
	pairs := make([]Pair, 0, n)
	for i := 0; i < n; i++ {
		pairs = append(pairs, Pair{Left: vocab[i].Gloss, Right: picked[i].Phrase})
	}
	if len(pairs) == 0 || len(pairs) < min(g.cfg.MinMatchVocab, g.cfg.MatchPairs) {
		return Question{}, false
	}
	return Question{
		ID:            "match_pairs",
		Type:          TypeMatchPairs,
		Prompt:        "Match the English words with their Albanian translations",
		CorrectAnswer: MatchResult(len(pairs), len(pairs)),
		Pairs:         pairs,
	}, true
}
