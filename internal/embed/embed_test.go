package embed

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestParseFlag(t *testing.T) {
	cfg, err := ParseFlag("ollama/nomic-embed-text")
	if err != nil {
		t.Fatalf("ParseFlag: %v", err)
	}
	if cfg.Provider != "ollama" || cfg.Model != "nomic-embed-text" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Endpoint == "" {
		t.Fatal("ollama endpoint should have a default")
	}
}

func TestParseFlagComplexModelName(t *testing.T) {
	cfg, err := ParseFlag("openrouter/sentence-transformers/all-MiniLM-L6-v2")
	if err != nil {
		t.Fatalf("ParseFlag: %v", err)
	}
	if cfg.Model != "sentence-transformers/all-MiniLM-L6-v2" {
		t.Fatalf("model with slashes mangled: %q", cfg.Model)
	}
}

func TestParseFlagErrors(t *testing.T) {
	for _, flag := range []string{"", "noslash", "/model", "provider/", "bogus/model"} {
		if _, err := ParseFlag(flag); err == nil {
			t.Errorf("ParseFlag(%q) should fail", flag)
		}
	}
}

func TestClientEmbed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"embedding":[0.1,0.2,0.3],"index":0}]}`))
	}))
	defer srv.Close()

	c, err := NewClient(&Config{Provider: "test", Model: "m", Endpoint: srv.URL, TimeoutSecs: 5})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	vec, err := c.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vec) != 3 {
		t.Fatalf("expected 3 dims, got %d", len(vec))
	}
	if c.Dimensions() != 3 {
		t.Fatalf("Dimensions = %d, want 3", c.Dimensions())
	}
}

func TestClientEmbedHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c, err := NewClient(&Config{Provider: "test", Model: "m", Endpoint: srv.URL, TimeoutSecs: 5})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := c.Embed(context.Background(), "hello"); err == nil {
		t.Fatal("expected error on HTTP 429")
	}
}

func TestCosine(t *testing.T) {
	a := []float32{1, 0, 0}
	b := []float32{1, 0, 0}
	if got := Cosine(a, b); math.Abs(got-1.0) > 1e-9 {
		t.Fatalf("identical vectors should be 1.0, got %v", got)
	}
	if got := Cosine(a, []float32{0, 1, 0}); math.Abs(got) > 1e-9 {
		t.Fatalf("orthogonal vectors should be 0, got %v", got)
	}
	if got := Cosine(a, []float32{1, 2}); got != 0 {
		t.Fatalf("mismatched dims should be 0, got %v", got)
	}
	if got := Cosine(nil, nil); got != 0 {
		t.Fatalf("empty vectors should be 0, got %v", got)
	}
}

// countingEmbedder counts calls so cache behavior is observable.
type countingEmbedder struct {
	calls atomic.Int64
}

func (e *countingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.calls.Add(1)
	return []float32{float32(len(text)), 1}, nil
}

func (e *countingEmbedder) Dimensions() int { return 2 }

func TestCacheMemoizes(t *testing.T) {
	inner := &countingEmbedder{}
	c := WithCache(inner, 10)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := c.Embed(ctx, "same text"); err != nil {
			t.Fatalf("Embed: %v", err)
		}
	}
	if got := inner.calls.Load(); got != 1 {
		t.Fatalf("expected 1 upstream call, got %d", got)
	}
}

func TestCacheEvictsOldestFirst(t *testing.T) {
	inner := &countingEmbedder{}
	c := WithCache(inner, 2)
	ctx := context.Background()

	c.Embed(ctx, "first")
	c.Embed(ctx, "second")
	c.Embed(ctx, "third") // evicts "first"

	before := inner.calls.Load()
	c.Embed(ctx, "third") // cached
	c.Embed(ctx, "second") // cached
	if got := inner.calls.Load(); got != before {
		t.Fatalf("expected cached hits, calls went %d -> %d", before, got)
	}

	c.Embed(ctx, "first") // was evicted, re-fetches
	if got := inner.calls.Load(); got != before+1 {
		t.Fatalf("expected eviction of oldest entry, calls=%d want %d", got, before+1)
	}
}
