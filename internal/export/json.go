package export

import (
	"encoding/json"
	"io"

	"github.com/docprov/docprov/internal/attrib"
)

// jsonDocument is the JSON export envelope: results plus run summary.
type jsonDocument struct {
	Results []attrib.ContextResult `json:"results"`
	Summary attrib.Summary         `json:"summary"`
}

// WriteJSON writes indented JSON with the results and a run summary.
func WriteJSON(w io.Writer, results []attrib.ContextResult) error {
	if results == nil {
		results = []attrib.ContextResult{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonDocument{
		Results: results,
		Summary: attrib.Summarize(results),
	})
}
