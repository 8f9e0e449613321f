// Package domain holds the static semantic domain and anti-pattern tables
// used to judge topical relevance beyond literal value matching.
//
// A semantic domain is a named cluster of topically related keywords
// ("medical": blood, hospital, ...). An anti-pattern is a phrase that
// lexically resembles a domain match but is semantically unrelated
// ("blood money" for the medical domain). Tables are immutable after
// construction and safe for concurrent reads without locking.
package domain

import (
	"sort"
	"strings"
)

// Table maps domain names to keyword sets and anti-pattern phrase sets.
type Table struct {
	keywords     map[string][]string
	antiPatterns map[string][]string
}

// builtinKeywords is the shipped domain table. Keywords are matched on
// word boundaries, lowercase.
var builtinKeywords = map[string][]string{
	"age": {
		"age", "aged", "years", "old", "born", "birth", "birthday", "dob",
	},
	"identity": {
		"name", "named", "called", "known", "citizen", "citizenship",
		"national", "nationality", "passport", "identity",
	},
	"medical": {
		"blood", "medical", "health", "hospital", "doctor", "patient",
		"emergency", "clinical", "diagnosis", "treatment", "records",
	},
	"financial": {
		"revenue", "profit", "earnings", "margin", "income", "sales",
		"cash", "dividend", "fiscal", "quarter", "quarterly", "million",
		"billion", "premium", "expenses", "ebitda",
	},
	"technical": {
		"technical", "technology", "software", "cloud", "platform",
		"engineering", "data", "expertise", "skills", "analytics",
		"infrastructure",
	},
	"geographic": {
		"city", "state", "country", "region", "location", "address",
		"headquartered", "based", "birthplace", "district",
	},
	"education": {
		"education", "degree", "university", "college", "school",
		"studied", "graduated", "diploma", "engineering",
	},
	"employment": {
		"job", "work", "role", "position", "employer", "team", "leads",
		"manager", "career", "authorization", "visa",
	},
}

// builtinAntiPatterns lists phrases that look like a domain hit but are
// idioms, metaphors or unrelated compounds. A sentence containing one is
// heavily penalized for fields in that domain unless an exact value match
// overwhelms the penalty.
var builtinAntiPatterns = map[string][]string{
	"age": {
		"company's age", "age in the market", "average age",
		"age verification", "age of the company", "golden age",
		"digital age", "coming of age", "age-old", "age demographics",
		"age of our user base",
	},
	"identity": {
		"citizenship requirements vary", "brand identity",
		"corporate identity", "identity theft",
	},
	"medical": {
		"blood money", "blood flow in the financial", "bloodbath",
		"new blood", "fresh blood", "bad blood", "blood sport",
		"lifeblood",
	},
	"financial": {
		"revenue recognition policies", "non-profit",
		"profit of experience", "emotional dividend",
	},
	"technical": {
		"technical foul", "technically speaking", "technical knockout",
	},
	"geographic": {
		"all over the place", "taking place", "in the first place",
		"out of place",
	},
	"education": {
		"school of thought", "old school", "schooled in",
	},
	"employment": {
		"position in the market", "work of art", "team of horses",
	},
}

// Builtin returns the shipped table.
func Builtin() *Table {
	return &Table{keywords: builtinKeywords, antiPatterns: builtinAntiPatterns}
}

// Domains returns the sorted list of domain names in the table.
func (t *Table) Domains() []string {
	names := make([]string, 0, len(t.keywords))
	for name := range t.keywords {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Keywords returns the keyword set for a domain, nil if unknown.
func (t *Table) Keywords(domain string) []string {
	return t.keywords[domain]
}

// AntiPatterns returns the anti-pattern phrases for a domain, nil if none.
func (t *Table) AntiPatterns(domain string) []string {
	return t.antiPatterns[domain]
}

// DomainsForField maps a field name to the domains it plausibly belongs
// to. The mapping is approximate: a field word that equals a domain name
// or appears in a domain's keyword set associates the field with that
// domain ("Blood_Group" → medical, "Revenue" → financial).
func (t *Table) DomainsForField(field string) []string {
	words := FieldWords(field)
	if len(words) == 0 {
		return nil
	}

	hit := map[string]bool{}
	for _, w := range words {
		for name, kws := range t.keywords {
			if w == name {
				hit[name] = true
				continue
			}
			for _, kw := range kws {
				if w == kw {
					hit[name] = true
					break
				}
			}
		}
	}

	if len(hit) == 0 {
		return nil
	}
	names := make([]string, 0, len(hit))
	for name := range hit {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DetectDomains returns every domain with at least one keyword present in
// the sentence, sorted by name. Sentences hitting two or more domains are
// multi-domain: still usable for each field, at discounted confidence.
func (t *Table) DetectDomains(sentenceText string) []string {
	words := wordSet(sentenceText)
	var names []string
	for name, kws := range t.keywords {
		for _, kw := range kws {
			if words[kw] {
				names = append(names, name)
				break
			}
		}
	}
	sort.Strings(names)
	return names
}

// HasAntiPattern reports whether the sentence contains an anti-pattern
// phrase for any of the given domains, and returns the first phrase found.
func (t *Table) HasAntiPattern(sentenceText string, domains []string) (string, bool) {
	lower := strings.ToLower(sentenceText)
	for _, d := range domains {
		for _, phrase := range t.antiPatterns[d] {
			if strings.Contains(lower, phrase) {
				return phrase, true
			}
		}
	}
	return "", false
}

// FieldWords normalizes a field name into its content words: separators
// become spaces, everything lowercased, words under three characters
// dropped ("Blood_Group" → [blood, group]).
func FieldWords(field string) []string {
	cleaned := strings.ToLower(field)
	cleaned = strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(cleaned)
	var words []string
	for _, w := range strings.Fields(cleaned) {
		if len(w) > 2 {
			words = append(words, w)
		}
	}
	return words
}

// wordSet tokenizes text into a lowercase word membership set, splitting
// on any non-alphanumeric rune.
func wordSet(text string) map[string]bool {
	set := map[string]bool{}
	for _, w := range Tokenize(text) {
		set[w] = true
	}
	return set
}

// Tokenize splits text into lowercase words on non-alphanumeric
// boundaries, keeping '+' so blood groups and similar codes survive
// ("O+" stays one token).
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '+':
			return false
		default:
			return true
		}
	})
}
