// Package export writes attribution results as JSON, CSV or XLSX.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/docprov/docprov/internal/attrib"
)

// Format selects an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJSON, "":
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unknown format %q (want json, csv or xlsx)", s)
}

// Write encodes the results in the given format.
func Write(w io.Writer, format Format, results []attrib.ContextResult) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, results)
	case FormatCSV:
		return WriteCSV(w, results)
	case FormatXLSX:
		return WriteXLSX(w, results)
	}
	return fmt.Errorf("unknown format %q", format)
}
