package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/docprov/docprov/internal/attrib"
)

const (
	resultsSheet = "Results"
	summarySheet = "Summary"
)

// WriteXLSX writes a workbook with a Results sheet (one row per field)
// and a Summary sheet with the run statistics.
func WriteXLSX(w io.Writer, results []attrib.ContextResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), resultsSheet); err != nil {
		return fmt.Errorf("creating results sheet: %w", err)
	}

	header := []interface{}{
		"Field", "Value", "Source", "Page", "Context", "Confidence", "Shape", "Recovered",
	}
	if err := setRow(f, resultsSheet, 1, header); err != nil {
		return err
	}
	for i, r := range results {
		row := []interface{}{
			r.Field, r.Value, r.Source, r.Page, r.Context, r.Confidence, r.Shape, r.Recovered,
		}
		if err := setRow(f, resultsSheet, i+2, row); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("creating summary sheet: %w", err)
	}
	s := attrib.Summarize(results)
	summaryRows := [][]interface{}{
		{"Total fields", s.TotalFields},
		{"Fields with context", s.FieldsWithContext},
		{"Coverage %", s.CoveragePct},
		{"Average context chars", s.AvgContextChars},
		{"Total context chars", s.TotalContextChars},
		{"Recovered", s.Recovered},
	}
	for i, row := range summaryRows {
		if err := setRow(f, summarySheet, i+1, row); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, row, err)
	}
	return nil
}
