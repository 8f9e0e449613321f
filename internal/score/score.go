// Package score computes the composite relevance of a sentence to a
// (field, value) pair.
//
// The score is a sum of additive terms: exact or fuzzy value match,
// field-name word overlap, domain-keyword overlap, an anti-pattern
// penalty, a keyword-proximity bonus, and a length-shape deduction.
// Confidence is the score clamped into [0,1]; the caller compares it
// against the adaptive threshold for the value's shape.
package score

import (
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"github.com/docprov/docprov/internal/classify"
	"github.com/docprov/docprov/internal/domain"
	"github.com/docprov/docprov/internal/sentence"
)

// Options holds the scoring weights. Tuned against example documents;
// override at engine construction, not per call.
type Options struct {
	ExactWeight        float64 // exact value occurrence
	FuzzyWeight        float64 // scaled by similarity when above the cutoff
	FieldWordWeight    float64 // per field-name word present
	FieldWordCap       float64
	DomainWordWeight   float64 // per domain keyword present
	DomainWordCap      float64
	ProximityWeight    float64 // scaled by closeness of field and value terms
	AntiPatternPenalty float64 // negative; near-veto, survivable by an exact match
	LengthPenalty      float64 // negative; sentences outside the expected span
	MinWords           int
	MaxWords           int
}

// DefaultOptions returns the standard weights.
func DefaultOptions() Options {
	return Options{
		ExactWeight:        0.75,
		FuzzyWeight:        0.50,
		FieldWordWeight:    0.10,
		FieldWordCap:       0.30,
		DomainWordWeight:   0.05,
		DomainWordCap:      0.20,
		ProximityWeight:    0.15,
		AntiPatternPenalty: -0.60,
		LengthPenalty:      -0.10,
		MinWords:           4,
		MaxWords:           40,
	}
}

// Match is the ephemeral result of scoring one sentence for one field.
type Match struct {
	Index       int
	Score       float64
	Confidence  float64
	Domains     []string // all domains the sentence hit
	Exact       bool
	AntiPattern string // the phrase that penalized the sentence, if any
}

// Scorer evaluates sentences against targets using a fixed domain table.
// Safe for concurrent use.
type Scorer struct {
	table *domain.Table
	opts  Options
	lev   *metrics.Levenshtein
}

// New creates a scorer over the given domain table.
func New(table *domain.Table, opts Options) *Scorer {
	return &Scorer{table: table, opts: opts, lev: metrics.NewLevenshtein()}
}

// Target is the precomputed view of a (field, value) pair. Build one per
// pair and reuse it across all sentences of the document.
type Target struct {
	Field string
	Value string
	Shape classify.ValueShape

	fieldWords  []string
	valueTokens []string
	valueNorm   string
	domains     []string
	fuzzyCutoff float64
}

// NewTarget classifies the pair and precomputes its lexical views.
func (s *Scorer) NewTarget(field, value string) *Target {
	shape := classify.Shape(value)
	return &Target{
		Field:       field,
		Value:       value,
		Shape:       shape,
		fieldWords:  domain.FieldWords(field),
		valueTokens: domain.Tokenize(value),
		valueNorm:   normalizeValue(value),
		domains:     s.table.DomainsForField(field),
		fuzzyCutoff: classify.FuzzyCutoff(shape),
	}
}

// FieldDomains returns the domains the target's field maps to.
func (t *Target) FieldDomains() []string { return t.domains }

// Score computes the composite match for one sentence.
func (s *Scorer) Score(t *Target, sent sentence.Sentence) Match {
	m := Match{Index: sent.Index}
	tokens := domain.Tokenize(sent.Text)
	words := make(map[string]bool, len(tokens))
	for _, w := range tokens {
		words[w] = true
	}

	// Exact / fuzzy value match: the highest-weighted term.
	switch {
	case s.exactMatch(t, sent.Text, words):
		m.Score += s.opts.ExactWeight
		m.Exact = true
	case len(t.valueTokens) > 0:
		if sim := s.partialSimilarity(t, tokens); sim >= t.fuzzyCutoff {
			m.Score += s.opts.FuzzyWeight * sim
		}
	}

	// Field-name word overlap.
	fieldHits := 0
	for _, w := range t.fieldWords {
		if words[w] {
			fieldHits++
		}
	}
	m.Score += capped(float64(fieldHits)*s.opts.FieldWordWeight, s.opts.FieldWordCap)

	// Domain-keyword overlap, restricted to the field's own domains.
	domainHits := 0
	for _, d := range t.domains {
		for _, kw := range s.table.Keywords(d) {
			if words[kw] {
				domainHits++
			}
		}
	}
	m.Score += capped(float64(domainHits)*s.opts.DomainWordWeight, s.opts.DomainWordCap)

	// Anti-pattern penalty: near-veto for the field's domains. An
	// overwhelming exact match can still survive it.
	if phrase, ok := s.table.HasAntiPattern(sent.Text, t.domains); ok {
		m.Score += s.opts.AntiPatternPenalty
		m.AntiPattern = phrase
	}

	// Keyword proximity: relevant sentences mention the field and its
	// value near each other, not in unrelated clauses.
	if prox := proximity(tokens, t.fieldWords, t.valueTokens); prox > 0 {
		m.Score += s.opts.ProximityWeight * prox
	}

	// Length shape: too short to be meaningful, or sprawling multi-topic.
	if len(tokens) < s.opts.MinWords || len(tokens) > s.opts.MaxWords {
		m.Score += s.opts.LengthPenalty
	}

	m.Domains = s.table.DetectDomains(sent.Text)
	m.Confidence = clamp01(m.Score)
	return m
}

// LexicalScore is the relaxed lexical-only score used by weak recovery:
// field-word overlap plus exact/fuzzy value match at the given cutoff.
// Domain tables, anti-patterns and proximity are ignored.
func (s *Scorer) LexicalScore(t *Target, sent sentence.Sentence, cutoff float64) float64 {
	tokens := domain.Tokenize(sent.Text)
	words := make(map[string]bool, len(tokens))
	for _, w := range tokens {
		words[w] = true
	}

	var score float64
	if s.exactMatch(t, sent.Text, words) {
		score += s.opts.ExactWeight
	} else if len(t.valueTokens) > 0 {
		if sim := s.partialSimilarity(t, tokens); sim >= cutoff {
			score += s.opts.FuzzyWeight * sim
		}
	}
	hits := 0
	for _, w := range t.fieldWords {
		if words[w] {
			hits++
		}
	}
	score += capped(float64(hits)*s.opts.FieldWordWeight, s.opts.FieldWordCap)
	return score
}

// exactMatch reports whether the normalized value occurs in the sentence.
// Single-token values must match a whole token so that "40" does not hit
// "1940"; multi-token values use substring containment on normalized text.
func (s *Scorer) exactMatch(t *Target, text string, words map[string]bool) bool {
	if t.valueNorm == "" {
		return false
	}
	if len(t.valueTokens) == 1 {
		return words[t.valueTokens[0]]
	}
	return strings.Contains(normalizeValue(text), t.valueNorm)
}

// partialSimilarity slides a window of the value's token length across the
// sentence and returns the best normalized Levenshtein similarity,
// approximating a partial-ratio fuzzy match.
func (s *Scorer) partialSimilarity(t *Target, tokens []string) float64 {
	val := strings.Join(t.valueTokens, " ")
	if val == "" || len(tokens) == 0 {
		return 0
	}
	n := len(t.valueTokens)
	if len(tokens) <= n {
		return strutil.Similarity(val, strings.Join(tokens, " "), s.lev)
	}
	best := 0.0
	for i := 0; i+n <= len(tokens); i++ {
		window := strings.Join(tokens[i:i+n], " ")
		if sim := strutil.Similarity(val, window, s.lev); sim > best {
			best = sim
		}
	}
	return best
}

// proximity returns a closeness score in (0,1] when both a field word and
// a value token occur in the sentence: 1 for adjacent terms, decaying with
// word distance. Zero when either side is absent.
func proximity(tokens, fieldWords, valueTokens []string) float64 {
	fieldPos := positions(tokens, fieldWords)
	valuePos := positions(tokens, valueTokens)
	if len(fieldPos) == 0 || len(valuePos) == 0 {
		return 0
	}
	best := -1
	for _, f := range fieldPos {
		for _, v := range valuePos {
			d := f - v
			if d < 0 {
				d = -d
			}
			if best < 0 || d < best {
				best = d
			}
		}
	}
	if best < 1 {
		best = 1
	}
	return 1.0 / float64(best)
}

func positions(tokens, terms []string) []int {
	var out []int
	for i, tok := range tokens {
		for _, term := range terms {
			if tok == term {
				out = append(out, i)
				break
			}
		}
	}
	return out
}

// normalizeValue lowercases and strips currency/percentage punctuation so
// "$115.5 Million" matches "115.5 million".
func normalizeValue(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	v = strings.NewReplacer("$", "", "€", "", "£", "", "₹", "", "%", "", ",", "").Replace(v)
	return strings.Join(strings.Fields(v), " ")
}

func capped(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	return v
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
