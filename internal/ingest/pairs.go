package ingest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/docprov/docprov/internal/attrib"
)

// LoadPairs reads field/value pairs from a JSON, CSV or TSV file.
func LoadPairs(path string) ([]attrib.Pair, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return loadPairsJSON(path)
	case ".csv", ".tsv":
		return loadPairsCSV(path, ext == ".tsv")
	default:
		return nil, fmt.Errorf("unsupported pairs format %q (want .json, .csv or .tsv)", ext)
	}
}

func loadPairsJSON(path string) ([]attrib.Pair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	pairs, err := ParsePairsJSON(data)
	if err != nil {
		return nil, fmt.Errorf("parsing pairs %s: %w", path, err)
	}
	return validatePairs(path, pairs)
}

// ParsePairsJSON accepts either an array of pair objects or a flat
// object whose keys are field names. Object keys are sorted so the
// result order is deterministic.
func ParsePairsJSON(data []byte) ([]attrib.Pair, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var pairs []attrib.Pair
		if err := json.Unmarshal(data, &pairs); err != nil {
			return nil, err
		}
		return pairs, nil
	}

	var flat map[string]string
	if err := json.Unmarshal(data, &flat); err != nil {
		return nil, err
	}
	fields := make([]string, 0, len(flat))
	for f := range flat {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	pairs := make([]attrib.Pair, 0, len(fields))
	for _, f := range fields {
		pairs = append(pairs, attrib.Pair{Field: f, Value: flat[f]})
	}
	return pairs, nil
}

// loadPairsCSV expects a header row naming at least "field" and "value";
// "source" and "page" columns pass through when present.
func loadPairsCSV(path string, tsv bool) ([]attrib.Pair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	if tsv {
		reader.Comma = '\t'
	}
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing pairs %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	cols := map[string]int{}
	for i, h := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	fieldCol, okF := cols["field"]
	valueCol, okV := cols["value"]
	if !okF || !okV {
		return nil, fmt.Errorf("pairs %s: header must name field and value columns", path)
	}

	cell := func(row []string, col int, ok bool) string {
		if !ok || col >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[col])
	}
	sourceCol, okS := cols["source"]
	pageCol, okP := cols["page"]

	var pairs []attrib.Pair
	for _, row := range records[1:] {
		p := attrib.Pair{
			Field:  cell(row, fieldCol, true),
			Value:  cell(row, valueCol, true),
			Source: cell(row, sourceCol, okS),
			Page:   cell(row, pageCol, okP),
		}
		if p.Field == "" {
			continue
		}
		pairs = append(pairs, p)
	}
	return validatePairs(path, pairs)
}

func validatePairs(path string, pairs []attrib.Pair) ([]attrib.Pair, error) {
	for i, p := range pairs {
		if strings.TrimSpace(p.Field) == "" {
			return nil, fmt.Errorf("pairs %s: entry %d has no field name", path, i)
		}
	}
	return pairs, nil
}
