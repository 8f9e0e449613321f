// Package attrib is the context-attribution engine.
//
// Given a document's sentences and a set of externally extracted
// (field, value) pairs, it determines which sentences actually describe
// each pair and reports a calibrated confidence. The pipeline per pair:
// classify the value's shape, score every sentence, discount multi-domain
// sentences, filter by the shape's adaptive threshold, aggregate survivors
// in document order, fall back to a lexical-only weak recovery when
// nothing cleared the bar, and report the maximum per-sentence confidence.
//
// The engine is stateless per call and never fails hard: absence of
// evidence degrades to an empty context with zero confidence.
package attrib

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/docprov/docprov/internal/classify"
	"github.com/docprov/docprov/internal/domain"
	"github.com/docprov/docprov/internal/embed"
	"github.com/docprov/docprov/internal/score"
	"github.com/docprov/docprov/internal/sentence"
)

const (
	// defaultMaxContextChars bounds the joined context string; truncation
	// drops whole trailing sentences, never cutting mid-sentence.
	defaultMaxContextChars = 800

	// embedWeight scales the optional embedding-similarity term.
	embedWeight = 0.20

	// embedTimeout bounds each embedding lookup. A slow or failing
	// embedder degrades to keyword-only scoring, it never stalls a field.
	embedTimeout = 2 * time.Second

	// recoveryCutoff is the relaxed fuzzy similarity for weak recovery.
	recoveryCutoff = 0.65

	// recoveryMaxSentences caps how many sentences weak recovery returns.
	recoveryMaxSentences = 3

	// recoveryMaxConfidence caps recovered confidence: recovery trades
	// precision for coverage and must not report certainty.
	recoveryMaxConfidence = 0.40

	// defaultWorkers is the fan-out width for AttributeAll.
	defaultWorkers = 4
)

// Pair is one externally extracted datum. Source and Page pass through to
// the result untouched, for downstream display.
type Pair struct {
	Field  string `json:"field"`
	Value  string `json:"value"`
	Source string `json:"source,omitempty"`
	Page   string `json:"page,omitempty"`
}

// ContextResult is the attribution output for one pair. Context is either
// empty or a concatenation of original sentences in document order,
// verbatim. Confidence is 0.0 if and only if Context is empty.
type ContextResult struct {
	Field      string  `json:"field"`
	Value      string  `json:"value"`
	Source     string  `json:"source,omitempty"`
	Page       string  `json:"page,omitempty"`
	Context    string  `json:"context"`
	Confidence float64 `json:"confidence"`
	Shape      string  `json:"shape"`
	Recovered  bool    `json:"recovered,omitempty"`
}

// Config configures an Engine.
type Config struct {
	Table           *domain.Table // nil selects the builtin table
	Scoring         *score.Options
	Embedder        embed.Embedder // optional; nil means keyword-only
	MaxContextChars int
	EmbedCacheSize  int
}

// Engine runs the attribution pipeline. Safe for concurrent use: it holds
// only immutable tables and a bounded embedding cache.
type Engine struct {
	scorer          *score.Scorer
	table           *domain.Table
	embedder        embed.Embedder
	maxContextChars int
}

// New creates an engine from the configuration.
func New(cfg Config) *Engine {
	table := cfg.Table
	if table == nil {
		table = domain.Builtin()
	}
	opts := score.DefaultOptions()
	if cfg.Scoring != nil {
		opts = *cfg.Scoring
	}
	maxChars := cfg.MaxContextChars
	if maxChars <= 0 {
		maxChars = defaultMaxContextChars
	}
	embedder := cfg.Embedder
	if embedder != nil {
		embedder = embed.WithCache(embedder, cfg.EmbedCacheSize)
	}
	return &Engine{
		scorer:          score.New(table, opts),
		table:           table,
		embedder:        embedder,
		maxContextChars: maxChars,
	}
}

// Attribute runs the pipeline for a single pair against indexed sentences.
func (e *Engine) Attribute(ctx context.Context, sentences []sentence.Sentence, pair Pair) ContextResult {
	target := e.scorer.NewTarget(pair.Field, pair.Value)
	result := ContextResult{
		Field:  pair.Field,
		Value:  pair.Value,
		Source: pair.Source,
		Page:   pair.Page,
		Shape:  target.Shape.String(),
	}
	if len(sentences) == 0 {
		return result
	}

	threshold := classify.Threshold(target.Shape)
	queryVec := e.embedQuery(ctx, pair)

	var included []score.Match
	for _, snt := range sentences {
		m := e.scorer.Score(target, snt)

		if queryVec != nil {
			if sim := e.embedSimilarity(ctx, queryVec, snt.Text); sim > 0 {
				m.Score += embedWeight * sim
				m.Confidence = clamp01(m.Score)
			}
		}

		// Multi-domain discount: a sentence describing several attributes
		// stays usable for each field, at proportionally reduced certainty.
		if n := len(m.Domains); n > 1 {
			m.Confidence /= float64(n)
		}

		if m.Confidence >= threshold {
			included = append(included, m)
		}
	}

	text, conf := e.aggregate(sentences, included)
	if text == "" {
		text, conf = e.recover(target, sentences)
		result.Recovered = text != ""
	}

	result.Context = text
	result.Confidence = conf
	return result
}

// AttributeText indexes raw document text and attributes every pair.
// Results are returned in input order.
func (e *Engine) AttributeText(ctx context.Context, text string, pairs []Pair) []ContextResult {
	return e.AttributeAll(ctx, sentence.Index(text), pairs, AttributeOptions{})
}

// AttributeOptions tunes a batch attribution run.
type AttributeOptions struct {
	// Workers is the fan-out width; <= 0 selects the default. Field
	// evaluations are independent, so they parallelize freely.
	Workers int

	// FieldFilter, when non-empty, restricts attribution to fields whose
	// name contains one of these keywords (case-insensitive). Filtered-out
	// pairs still appear in the output, with empty context.
	FieldFilter []string
}

// AttributeAll fans pair processing out across a bounded worker pool.
// The output slice is index-aligned with the input pairs.
func (e *Engine) AttributeAll(ctx context.Context, sentences []sentence.Sentence, pairs []Pair, opts AttributeOptions) []ContextResult {
	results := make([]ContextResult, len(pairs))
	if len(pairs) == 0 {
		return results
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	if workers > len(pairs) {
		workers = len(pairs)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				p := pairs[i]
				if len(opts.FieldFilter) > 0 && !fieldMatches(p.Field, opts.FieldFilter) {
					results[i] = ContextResult{
						Field: p.Field, Value: p.Value,
						Source: p.Source, Page: p.Page,
						Shape: classify.Shape(p.Value).String(),
					}
					continue
				}
				results[i] = e.Attribute(ctx, sentences, p)
			}
		}()
	}
	for i := range pairs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

// aggregate restores document order, deduplicates identical sentence text
// (first occurrence wins), joins with a single space, and truncates whole
// trailing sentences over the length budget. Returns the context and the
// maximum confidence among the sentences that made the final cut.
func (e *Engine) aggregate(sentences []sentence.Sentence, included []score.Match) (string, float64) {
	if len(included) == 0 {
		return "", 0
	}

	sort.Slice(included, func(i, j int) bool {
		return included[i].Index < included[j].Index
	})

	byIndex := make(map[int]string, len(sentences))
	for _, s := range sentences {
		byIndex[s.Index] = s.Text
	}

	type kept struct {
		text string
		conf float64
	}
	seen := map[string]bool{}
	var keeps []kept
	total := 0
	for _, m := range included {
		text, ok := byIndex[m.Index]
		if !ok {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(text))
		if seen[key] {
			continue
		}
		seen[key] = true

		// Truncate from the end: drop whole trailing sentences once the
		// budget is exceeded. Never mid-word, never mid-sentence.
		add := len(text)
		if total > 0 {
			add++ // joining space
		}
		if total+add > e.maxContextChars && total > 0 {
			break
		}
		keeps = append(keeps, kept{text: text, conf: m.Confidence})
		total += add
	}
	if len(keeps) == 0 {
		return "", 0
	}

	parts := make([]string, len(keeps))
	maxConf := 0.0
	for i, k := range keeps {
		parts[i] = k.text
		if k.conf > maxConf {
			maxConf = k.conf
		}
	}
	return strings.Join(parts, " "), maxConf
}

// embedQuery embeds the "field: value" query text once per pair.
// Any failure disables the embedding term for this pair.
func (e *Engine) embedQuery(ctx context.Context, pair Pair) []float32 {
	if e.embedder == nil {
		return nil
	}
	query := strings.TrimSpace(pair.Field + " " + pair.Value)
	if query == "" {
		return nil
	}
	ectx, cancel := context.WithTimeout(ctx, embedTimeout)
	defer cancel()
	vec, err := e.embedder.Embed(ectx, query)
	if err != nil {
		return nil
	}
	return vec
}

// embedSimilarity returns the cosine similarity between the query vector
// and the sentence, 0 on any failure or timeout.
func (e *Engine) embedSimilarity(ctx context.Context, queryVec []float32, text string) float64 {
	ectx, cancel := context.WithTimeout(ctx, embedTimeout)
	defer cancel()
	vec, err := e.embedder.Embed(ectx, text)
	if err != nil {
		return 0
	}
	sim := embed.Cosine(queryVec, vec)
	if sim < 0 {
		return 0
	}
	return sim
}

func fieldMatches(field string, keywords []string) bool {
	lower := strings.ToLower(field)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
