// Package classify derives the structural shape of an extracted value and
// selects scoring parameters from it.
//
// A code-like value ("O+", a phone number) is highly diagnostic when it
// occurs verbatim, so it earns a low acceptance threshold. Descriptive text
// overlaps by accident far more easily and needs a higher bar.
package classify

import (
	"regexp"
	"strings"
	"unicode"
)

// ValueShape is the closed classification of an extracted value.
type ValueShape int

const (
	ShapeNumeric ValueShape = iota
	ShapeCodeLike
	ShapeShortText
	ShapeLongText
)

func (s ValueShape) String() string {
	switch s {
	case ShapeNumeric:
		return "numeric"
	case ShapeCodeLike:
		return "code-like"
	case ShapeShortText:
		return "short-text"
	default:
		return "long-text"
	}
}

const (
	// maxCodeLikeLen is the longest value still considered a code/token.
	maxCodeLikeLen = 10

	// maxShortTextLen splits short captions from long descriptive text.
	maxShortTextLen = 40
)

// Acceptance thresholds per shape. Exact numeric/code occurrence is itself
// strong evidence, so those shapes favor recall; text shapes favor
// precision. Starting defaults, tuned against example documents.
const (
	thresholdNumeric   = 0.25
	thresholdCodeLike  = 0.25
	thresholdShortText = 0.45
	thresholdLongText  = 0.55
)

// Fuzzy similarity cut-offs per shape. Short and code-like values must
// match almost exactly; longer text tolerates more drift.
const (
	fuzzyCutoffTight = 0.90
	fuzzyCutoffLoose = 0.75
)

// numericRE matches currency, percentage and plain number values,
// including magnitude suffixes ("$125.5 million", "15%", "1,250").
var numericRE = regexp.MustCompile(`^[\$€£₹]?\s?-?\d[\d,]*(\.\d+)?\s?(%|percent|million|billion|thousand|crore|lakh|k|m|bn|mn)?$`)

// Shape classifies a value by its character composition and length.
// Deterministic; malformed input (empty string) degrades to short-text.
func Shape(value string) ValueShape {
	v := strings.TrimSpace(value)
	if v == "" {
		return ShapeShortText
	}
	if numericRE.MatchString(strings.ToLower(v)) {
		return ShapeNumeric
	}
	if len(v) <= maxCodeLikeLen && isCodeLike(v) {
		return ShapeCodeLike
	}
	if len(v) <= maxShortTextLen {
		return ShapeShortText
	}
	return ShapeLongText
}

// isCodeLike reports whether a short token reads as a code: no internal
// spaces, and dense in digits or punctuation ("O+", "AB-123", "IN-2024").
func isCodeLike(v string) bool {
	if strings.ContainsAny(v, " \t") {
		return false
	}
	var letters, other int
	for _, r := range v {
		if unicode.IsLetter(r) {
			letters++
		} else {
			other++
		}
	}
	return other > 0 || letters <= 4
}

// Threshold returns the minimum confidence for including a sentence in a
// field's context, chosen by value shape.
func Threshold(s ValueShape) float64 {
	switch s {
	case ShapeNumeric:
		return thresholdNumeric
	case ShapeCodeLike:
		return thresholdCodeLike
	case ShapeShortText:
		return thresholdShortText
	default:
		return thresholdLongText
	}
}

// FuzzyCutoff returns the minimum fuzzy similarity for a value match to
// contribute to a sentence's score.
func FuzzyCutoff(s ValueShape) float64 {
	if s == ShapeNumeric || s == ShapeCodeLike {
		return fuzzyCutoffTight
	}
	return fuzzyCutoffLoose
}
