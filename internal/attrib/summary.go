package attrib

// Summary aggregates coverage statistics over one attribution run.
type Summary struct {
	TotalFields       int     `json:"total_fields"`
	FieldsWithContext int     `json:"fields_with_context"`
	CoveragePct       float64 `json:"coverage_pct"`
	AvgContextChars   float64 `json:"avg_context_chars"`
	TotalContextChars int     `json:"total_context_chars"`
	Recovered         int     `json:"recovered"`
}

// Summarize computes coverage statistics for a batch of results.
func Summarize(results []ContextResult) Summary {
	s := Summary{TotalFields: len(results)}
	for _, r := range results {
		if r.Context == "" {
			continue
		}
		s.FieldsWithContext++
		s.TotalContextChars += len(r.Context)
		if r.Recovered {
			s.Recovered++
		}
	}
	if s.TotalFields > 0 {
		s.CoveragePct = 100 * float64(s.FieldsWithContext) / float64(s.TotalFields)
	}
	if s.FieldsWithContext > 0 {
		s.AvgContextChars = float64(s.TotalContextChars) / float64(s.FieldsWithContext)
	}
	return s
}
