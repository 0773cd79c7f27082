// Package exporter writes analytics reports as xlsx workbooks.
package exporter

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"cryptopulse/internal/analysis"
)

const dateLayout = "2006-01-02"

// WriteTopImpact writes the top-impact ranking as a single-sheet xlsx
// workbook to w.
func WriteTopImpact(w io.Writer, rows []analysis.RankedEvent) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Top Impact Events"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headers := []interface{}{"Rank", "Event", "Date", "Country", "Event Type", "Impact Score", "Daily Return", "Volatility", "Symbol"}
	if err := setRow(f, sheet, 1, headers); err != nil {
		return err
	}

	for i, row := range rows {
		values := []interface{}{
			row.Rank,
			row.EventName,
			row.Date.Format(dateLayout),
			deref(row.Country),
			deref(row.EventType),
			row.ImpactScore,
			row.DailyReturn,
			row.Volatility,
			row.CurrencySymbol,
		}
		if err := setRow(f, sheet, i+2, values); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheet, "B", "B", 40); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// WriteCorrelationSummary writes a symbol's correlation report as a
// label/value sheet to w.
func WriteCorrelationSummary(w io.Writer, summary *analysis.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Correlation Summary"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	rows := [][]interface{}{
		{"Symbol", summary.Symbol},
		{"Data Points", summary.DataPoints},
		{"Start Date", summary.StartDate.Format(dateLayout)},
		{"End Date", summary.EndDate.Format(dateLayout)},
		{"Avg Impact Score", summary.AvgImpactScore},
		{"Avg Daily Return", summary.AvgDailyReturn},
		{"Avg Volatility", summary.AvgVolatility},
		{"Daily Return Correlation", summary.DailyReturnCorrelation.Coefficient},
		{"Daily Return Strength", summary.DailyReturnCorrelation.String()},
		{"Volatility Correlation", summary.VolatilityCorrelation.Coefficient},
		{"Volatility Strength", summary.VolatilityCorrelation.String()},
		{"Strongest Correlation", summary.StrongestCorrelation},
		{"Generated At", time.Now().UTC().Format(time.RFC3339)},
	}
	for i, row := range rows {
		if err := setRow(f, sheet, i+1, row); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 28); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name for row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("set row %d: %w", row, err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
