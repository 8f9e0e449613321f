package attrib

import (
	"sort"
	"strings"

	"github.com/docprov/docprov/internal/score"
	"github.com/docprov/docprov/internal/sentence"
)

// recover is the weak-recovery fallback: when primary aggregation yields
// nothing, re-scan with lexical terms only (field-word overlap plus
// exact/fuzzy value match at a relaxed cutoff), keep the top few by
// lexical score, and re-sort them into document order. It guarantees a
// non-empty context whenever any plausible lexical signal exists, at a
// capped confidence that reflects the precision trade-off.
func (e *Engine) recover(target *score.Target, sentences []sentence.Sentence) (string, float64) {
	type candidate struct {
		snt sentence.Sentence
		lex float64
	}

	var candidates []candidate
	for _, snt := range sentences {
		lex := e.scorer.LexicalScore(target, snt, recoveryCutoff)
		if lex > 0 {
			candidates = append(candidates, candidate{snt: snt, lex: lex})
		}
	}
	if len(candidates) == 0 {
		return "", 0
	}

	// Rank by lexical score, ties broken by document position for
	// deterministic output.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].lex != candidates[j].lex {
			return candidates[i].lex > candidates[j].lex
		}
		return candidates[i].snt.Index < candidates[j].snt.Index
	})
	if len(candidates) > recoveryMaxSentences {
		candidates = candidates[:recoveryMaxSentences]
	}

	// Back into document order before concatenation.
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].snt.Index < candidates[j].snt.Index
	})

	var parts []string
	total := 0
	maxLex := 0.0
	for _, c := range candidates {
		add := len(c.snt.Text)
		if total > 0 {
			add++
		}
		if total+add > e.maxContextChars && total > 0 {
			break
		}
		parts = append(parts, c.snt.Text)
		total += add
		if c.lex > maxLex {
			maxLex = c.lex
		}
	}
	if len(parts) == 0 {
		return "", 0
	}

	conf := clamp01(maxLex)
	if conf > recoveryMaxConfidence {
		conf = recoveryMaxConfidence
	}
	return strings.Join(parts, " "), conf
}
