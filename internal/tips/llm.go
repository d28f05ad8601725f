package tips

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/abhisek/fjala/internal/llm"
)

// MaxTipLength is the longest generated tip that is kept.
const MaxTipLength = 240

// Config holds tip generation settings.
type Config struct {
	BatchSize   int
	MaxTokens   int
	Temperature float64

	// LowWater triggers a background refill when the cache drops
	// to this many tips.
	LowWater int

	// Cooldown is how long to wait after a failed batch before asking
	// the provider again.
	Cooldown time.Duration
}

// DefaultConfig returns sensible defaults for tip generation.
func DefaultConfig() Config {
	return Config{
		BatchSize:   8,
		MaxTokens:   768,
		Temperature: 0.8,
		LowWater:    2,
		Cooldown:    5 * time.Minute,
	}
}

// LLMSource serves generated tips from a cache and refills it in the
// background. When the cache is empty or the provider fails it serves
// from the fallback source instead.
type LLMSource struct {
	provider llm.Provider
	fallback Source
	cfg      Config
	log      logrus.FieldLogger
	now      func() time.Time

	group singleflight.Group

	mu         sync.Mutex
	cache      []string
	seen       map[string]bool
	failedAt   time.Time
	refillDone chan struct{}
}

// NewLLMSource creates a source backed by provider. A nil fallback uses a
// fresh builtin Catalog.
func NewLLMSource(provider llm.Provider, fallback Source, cfg Config, log logrus.FieldLogger) *LLMSource {
	if fallback == nil {
		fallback = NewCatalog(nil)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &LLMSource{
		provider: provider,
		fallback: fallback,
		cfg:      cfg,
		log:      log.WithField("component", "tips"),
		now:      time.Now,
		seen:     make(map[string]bool),
	}
}

// Tip returns a cached generated tip, or a fallback tip when none is
// cached. It never blocks on the provider.
func (s *LLMSource) Tip(ctx context.Context) string {
	s.mu.Lock()
	var tip string
	if len(s.cache) > 0 {
		tip, s.cache = s.cache[0], s.cache[1:]
	}
	low := len(s.cache) <= s.cfg.LowWater
	s.mu.Unlock()

	if low {
		s.Prefetch(ctx)
	}
	if tip == "" {
		return s.fallback.Tip(ctx)
	}
	return tip
}

// Prefetch starts a background refill unless one is running or the last
// failure is within the cooldown. The returned channel closes when the
// refill finishes; it is already closed when no refill was started.
func (s *LLMSource) Prefetch(ctx context.Context) <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.refillDone != nil {
		return s.refillDone
	}
	done := make(chan struct{})
	if !s.failedAt.IsZero() && s.now().Sub(s.failedAt) < s.cfg.Cooldown {
		close(done)
		return done
	}

	s.refillDone = done
	// The refill outlives the caller's request, so it drops cancellation.
	bg := context.WithoutCancel(ctx)
	go func() {
		defer func() {
			s.mu.Lock()
			s.refillDone = nil
			s.mu.Unlock()
			close(done)
		}()
		if _, err := s.Fetch(bg); err != nil {
			entry := s.log.WithError(err)
			if llm.IsTemporary(err) {
				entry.Info("tip refill deferred, provider busy")
			} else {
				entry.Warn("tip refill failed, using builtin tips")
			}
		}
	}()
	return done
}

// Fetch asks the provider for one batch, adds the new tips to the cache
// and returns them. Concurrent calls share one request.
func (s *LLMSource) Fetch(ctx context.Context) ([]string, error) {
	v, err, _ := s.group.Do("batch", func() (any, error) {
		return s.generate(ctx)
	})
	if err != nil {
		s.mu.Lock()
		s.failedAt = s.now()
		s.mu.Unlock()
		return nil, err
	}

	batch := v.([]string)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failedAt = time.Time{}
	var fresh []string
	for _, t := range batch {
		if s.seen[t] {
			continue
		}
		s.seen[t] = true
		fresh = append(fresh, t)
	}
	s.cache = append(s.cache, fresh...)
	return fresh, nil
}

// Cached reports how many generated tips are waiting.
func (s *LLMSource) Cached() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cache)
}

type batchOutput struct {
	Tips []string `json:"tips"`
}

func (s *LLMSource) generate(ctx context.Context) ([]string, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeTips)

	req := llm.Prompt(systemPrompt, buildUserMessage(s.cfg.BatchSize), BatchSchema, s.cfg.MaxTokens)
	req.Temperature = s.cfg.Temperature

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("tip generation: %w", err)
	}

	var out batchOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse tip response: %w", err)
	}

	tips := lo.Uniq(lo.FilterMap(out.Tips, func(t string, _ int) (string, bool) {
		t = strings.Join(strings.Fields(t), " ")
		return t, t != "" && len([]rune(t)) <= MaxTipLength
	}))
	if len(tips) == 0 {
		return nil, fmt.Errorf("tip generation: no usable tips in response")
	}
	return tips, nil
}

func buildUserMessage(n int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write %d new tips. Each tip is one or two sentences.\n\n", n)
	b.WriteString("Match the tone of these examples but do not repeat them:\n")
	for _, t := range builtin[:3] {
		fmt.Fprintf(&b, "- %s\n", t)
	}
	return b.String()
}
