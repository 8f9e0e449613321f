package domain

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// fileTable is the YAML override format:
//
//	domains:
//	  medical: [blood, hospital]
//	anti_patterns:
//	  medical: ["blood money"]
type fileTable struct {
	Domains      map[string][]string `yaml:"domains"`
	AntiPatterns map[string][]string `yaml:"anti_patterns"`
}

// LoadFile builds a table from the builtin data merged with a YAML
// override file. Entries in the file extend the builtin sets; a domain
// listed with an empty keyword list is removed entirely.
func LoadFile(path string) (*Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading domain table %s: %w", path, err)
	}
	return Merge(b)
}

// Merge parses YAML override bytes and merges them over the builtin table.
func Merge(b []byte) (*Table, error) {
	var ft fileTable
	if err := yaml.Unmarshal(b, &ft); err != nil {
		return nil, fmt.Errorf("parsing domain table: %w", err)
	}

	kws := make(map[string][]string, len(builtinKeywords))
	for name, list := range builtinKeywords {
		kws[name] = list
	}
	for name, list := range ft.Domains {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if len(list) == 0 {
			delete(kws, name)
			continue
		}
		kws[name] = mergeLists(kws[name], list)
	}

	aps := make(map[string][]string, len(builtinAntiPatterns))
	for name, list := range builtinAntiPatterns {
		aps[name] = list
	}
	for name, list := range ft.AntiPatterns {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		aps[name] = mergeLists(aps[name], list)
	}

	return &Table{keywords: kws, antiPatterns: aps}, nil
}

// mergeLists unions two lowercase string lists, deduplicated and sorted.
func mergeLists(base, extra []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, list := range [][]string{base, extra} {
		for _, v := range list {
			v = strings.ToLower(strings.TrimSpace(v))
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
