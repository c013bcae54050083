// Package report renders run results into shareable artifacts: an Excel
// workbook of summary rows and an HTML run report.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"lcmonte/internal/runner"
)

const summarySheet = "Summary"

// WriteWorkbook writes one workbook with a row per bin statistic: bin
// label, statistic name, mean, stddev and defined fraction.
func WriteWorkbook(path string, results []runner.BinResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headers := []string{"Bin", "Family", "Statistic", "Mean", "StdDev", "DefinedFraction", "Trials"}
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(summarySheet, cell, h); err != nil {
			return err
		}
	}

	row := 2
	for _, result := range results {
		for _, ns := range result.Summaries {
			values := []interface{}{
				result.Identity.Label(),
				string(ns.Family),
				ns.Name,
				ns.Summary.Mean,
				ns.Summary.StdDev,
				ns.Summary.DefinedFraction,
				result.Trials,
			}
			for col, v := range values {
				cell, err := excelize.CoordinatesToCellName(col+1, row)
				if err != nil {
					return err
				}
				if err := f.SetCellValue(summarySheet, cell, v); err != nil {
					return err
				}
			}
			row++
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
