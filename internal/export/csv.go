package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/docprov/docprov/internal/attrib"
)

var csvHeader = []string{
	"field", "value", "source", "page", "context", "confidence", "shape", "recovered",
}

// WriteCSV writes one row per result. Embedded newlines are flattened so
// each record stays a single physical line for downstream spreadsheet
// tools that mishandle quoted newlines.
func WriteCSV(w io.Writer, results []attrib.ContextResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, r := range results {
		row := []string{
			cleanCell(r.Field),
			cleanCell(r.Value),
			cleanCell(r.Source),
			cleanCell(r.Page),
			cleanCell(r.Context),
			fmt.Sprintf("%.3f", r.Confidence),
			r.Shape,
			fmt.Sprintf("%t", r.Recovered),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row for %s: %w", r.Field, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// cleanCell collapses newlines and surrounding whitespace into single
// spaces.
func cleanCell(s string) string {
	s = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
