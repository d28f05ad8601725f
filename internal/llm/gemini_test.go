package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestGeminiProvider(t *testing.T, handler http.HandlerFunc) *GeminiProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewGeminiProvider(context.Background(), Config{Provider: ProviderGemini, APIKey: "test-key", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewGeminiProvider: %v", err)
	}
	return p
}

func geminiReply(text, finish string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{{
			"content":      map[string]any{"role": "model", "parts": []map[string]any{{"text": text}}},
			"finishReason": finish,
		}},
		"usageMetadata": map[string]any{"promptTokenCount": 12, "candidatesTokenCount": 9, "totalTokenCount": 21},
	}
}

func TestGeminiProvider_HappyPath(t *testing.T) {
	var sent map[string]any
	handler := func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&sent)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(geminiReply(`{"tips":["Kafe is for conversation."]}`, "STOP"))
	}

	p := newTestGeminiProvider(t, handler)
	schema := &Schema{Name: "tips", Definition: map[string]any{
		"type":       "object",
		"properties": map[string]any{"tips": map[string]any{"type": "array", "items": map[string]any{"type": "string"}}},
		"required":   []any{"tips"},
	}}
	resp, err := p.Generate(context.Background(), Prompt("You write short Albanian culture notes.", "Write one tip.", schema, 256))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.TotalTokens != 21 {
		t.Fatalf("expected 21 total tokens, got %d", resp.Usage.TotalTokens)
	}
	if resp.StopReason != "end" {
		t.Fatalf("expected stop reason 'end', got %q", resp.StopReason)
	}

	cfg, _ := sent["generationConfig"].(map[string]any)
	if _, ok := cfg["responseJsonSchema"]; !ok {
		t.Errorf("schema not sent as JSON Schema: %v", cfg)
	}
}

func TestGeminiProvider_Truncated(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(geminiReply(`{"tips":["Be`, "MAX_TOKENS"))
	}

	p := newTestGeminiProvider(t, handler)
	_, err := p.Generate(context.Background(), Prompt("", "tips", nil, 8))
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("expected ErrMaxTokensExceeded, got: %T (%v)", err, err)
	}
}

func TestGeminiProvider_RateLimit(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 429, "message": "quota", "status": "RESOURCE_EXHAUSTED"},
		})
	}

	p := newTestGeminiProvider(t, handler)
	_, err := p.Generate(context.Background(), Prompt("", "tips", nil, 64))
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got: %T (%v)", err, err)
	}
}

func TestNewGeminiProvider_RequiresKey(t *testing.T) {
	if _, err := NewGeminiProvider(context.Background(), Config{Provider: ProviderGemini}); err == nil {
		t.Fatal("expected error for empty API key")
	}
}
