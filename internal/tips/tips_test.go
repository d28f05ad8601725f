package tips

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/abhisek/fjala/internal/llm"
)

func seeded() *rand.Rand {
	return rand.New(rand.NewPCG(4, 2))
}

func TestCatalog_RoundCoversEveryTip(t *testing.T) {
	c := NewCatalog(seeded())
	if c.Len() != 24 {
		t.Fatalf("Len = %d, want 24", c.Len())
	}

	seen := make(map[string]bool)
	for i := 0; i < c.Len(); i++ {
		tip := c.Tip(context.Background())
		if seen[tip] {
			t.Fatalf("tip repeated within a round at call %d: %q", i, tip)
		}
		seen[tip] = true
	}

	// The next round starts over with every tip available again.
	if next := c.Tip(context.Background()); !seen[next] {
		t.Fatalf("unexpected tip %q", next)
	}
}

func TestCatalog_Empty(t *testing.T) {
	if got := NewCatalogOf(nil, seeded()).Tip(context.Background()); got != "" {
		t.Fatalf("Tip = %q, want empty", got)
	}
}

func TestBuiltinIsCopy(t *testing.T) {
	b := Builtin()
	b[0] = "changed"
	if Builtin()[0] == "changed" {
		t.Fatal("Builtin exposed the backing slice")
	}
}

func batch(tips ...string) llm.MockResponse {
	raw, _ := json.Marshal(map[string]any{"tips": tips})
	return llm.MockResponse{Content: raw}
}

func TestLLMSource_FetchFiltersAndDedupes(t *testing.T) {
	mock := llm.NewMockProvider(
		batch("Tirana is the capital of Albania.", "  Tirana   is the capital of Albania. "),
		batch("Tirana is the capital of Albania.", "Durrës has a Roman amphitheatre."),
	)
	src := NewLLMSource(mock, NewCatalogOf([]string{"static"}, seeded()), DefaultConfig(), nil)

	got, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(got) != 1 || got[0] != "Tirana is the capital of Albania." {
		t.Fatalf("first batch = %q", got)
	}

	got, err = src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(got) != 1 || got[0] != "Durrës has a Roman amphitheatre." {
		t.Fatalf("second batch keeps only unseen tips, got %q", got)
	}
	if src.Cached() != 2 {
		t.Fatalf("Cached = %d, want 2", src.Cached())
	}

	call := mock.Calls[0]
	if call.Schema != BatchSchema {
		t.Error("request did not carry the batch schema")
	}
}

func TestLLMSource_TipServesCacheThenFallback(t *testing.T) {
	mock := llm.NewMockProvider(batch("Gjirokastër is called the city of stone."))
	cfg := DefaultConfig()
	cfg.LowWater = 0
	src := NewLLMSource(mock, NewCatalogOf([]string{"static"}, seeded()), cfg, nil)

	ctx := context.Background()
	select {
	case <-src.Prefetch(ctx):
	case <-time.After(5 * time.Second):
		t.Fatal("prefetch did not finish")
	}

	if got := src.Tip(ctx); got != "Gjirokastër is called the city of stone." {
		t.Fatalf("Tip = %q, want the generated tip", got)
	}
	// The cache is empty and the mock has nothing left, so the fallback answers.
	if got := src.Tip(ctx); got != "static" {
		t.Fatalf("Tip = %q, want fallback", got)
	}
}

func TestLLMSource_FailureFallsBackAndCoolsDown(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}},
		batch("unused because of the cooldown"),
	)
	src := NewLLMSource(mock, NewCatalogOf([]string{"static"}, seeded()), DefaultConfig(), nil)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	src.now = func() time.Time { return now }

	ctx := context.Background()
	<-src.Prefetch(ctx)
	if got := src.Tip(ctx); got != "static" {
		t.Fatalf("Tip = %q, want fallback after failure", got)
	}
	<-src.Prefetch(ctx)
	if mock.CallCount() != 1 {
		t.Fatalf("expected no second call inside the cooldown, got %d calls", mock.CallCount())
	}

	now = now.Add(DefaultConfig().Cooldown + time.Second)
	<-src.Prefetch(ctx)
	if mock.CallCount() != 2 {
		t.Fatalf("expected a retry after the cooldown, got %d calls", mock.CallCount())
	}
}

func TestLLMSource_InvalidBatch(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"tips":[]}`)})
	src := NewLLMSource(mock, nil, DefaultConfig(), nil)

	_, err := src.Fetch(context.Background())
	var inv *llm.ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected schema rejection, got %v", err)
	}
	if tip := src.Tip(context.Background()); tip == "" {
		t.Fatal("fallback catalog returned no tip")
	}
}

func TestBatchSchemaCompiles(t *testing.T) {
	if err := BatchSchema.Compile(); err != nil {
		t.Fatalf("BatchSchema: %v", err)
	}
}
