// Package sentence splits raw document text into an ordered, indexed
// sequence of sentences, preserving the exact original wording.
//
// The index assigned to each sentence is its rank of appearance in the
// source and is never reused or reordered. Downstream attribution relies
// on it to restore document order after scoring.
package sentence

import (
	"strings"
	"unicode"
)

// minSentenceLen filters out fragments and OCR noise. Candidates at or
// below this many characters are dropped.
const minSentenceLen = 15

// Sentence is one sentence of the source document with its position.
type Sentence struct {
	Text  string `json:"text"`
	Index int    `json:"index"`
}

// abbreviations that commonly precede a period without ending a sentence.
var abbreviations = map[string]struct{}{
	"mr": {}, "mrs": {}, "ms": {}, "dr": {}, "prof": {}, "rev": {},
	"jr": {}, "sr": {}, "st": {}, "vs": {}, "etc": {}, "approx": {},
	"inc": {}, "corp": {}, "ltd": {}, "llc": {}, "co": {}, "no": {},
	"fig": {}, "dept": {}, "est": {}, "jan": {}, "feb": {}, "mar": {},
	"apr": {}, "jun": {}, "jul": {}, "aug": {}, "sep": {}, "sept": {},
	"oct": {}, "nov": {}, "dec": {},
}

// Index splits text into sentences and tags each with its appearance rank.
// Pure function: empty or whitespace-only input yields an empty slice,
// never an error.
func Index(text string) []Sentence {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	runes := []rune(text)
	var sentences []Sentence
	var cur strings.Builder
	next := 0

	flush := func() {
		s := strings.TrimSpace(cur.String())
		cur.Reset()
		if len(s) > minSentenceLen {
			sentences = append(sentences, Sentence{Text: s, Index: next})
			next++
		}
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		cur.WriteRune(r)

		if r != '.' && r != '!' && r != '?' {
			continue
		}
		// A sentence ends only when terminal punctuation is followed by
		// whitespace (or end of text). Decimal points like "115.5" have no
		// trailing space and never trigger a split.
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if r == '.' && isAbbreviation(cur.String()) {
			continue
		}
		flush()
		// Skip the whitespace run between sentences.
		for i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			i++
		}
	}
	flush()

	return sentences
}

// isAbbreviation reports whether the text ends in a known abbreviation
// followed by its period (e.g. "Life360 Inc.").
func isAbbreviation(text string) bool {
	trimmed := strings.TrimSuffix(text, ".")
	cut := len(trimmed)
	for cut > 0 && !unicode.IsSpace(rune(trimmed[cut-1])) {
		cut--
	}
	word := strings.ToLower(trimmed[cut:])
	if word == "" {
		return false
	}
	// Single letters read as initials ("J. Smith"); words with internal
	// periods are dotted acronyms ("U.S. markets").
	if len(word) == 1 && word[0] >= 'a' && word[0] <= 'z' {
		return true
	}
	if strings.ContainsRune(word, '.') {
		return true
	}
	_, ok := abbreviations[word]
	return ok
}
