package report

import (
	"fmt"

	"statfit/domain/model"

	"github.com/xuri/excelize/v2"
)

// WorkbookEntry pairs a sheet name with the model behind it
type WorkbookEntry struct {
	Sheet   string
	Summary *model.Summary
	Fit     *model.Fitted
}

// WriteWorkbook writes one sheet per model with its inference table, followed
// by a fitted-vs-residual sheet for each fit. The residual sheets are the
// plot-ready consumer of the fitted models: fitted value, residual, and
// outcome per observation.
func WriteWorkbook(path string, entries []WorkbookEntry) error {
	f := excelize.NewFile()

	for i, entry := range entries {
		if err := addSummarySheet(f, entry.Sheet, entry.Summary, i == 0); err != nil {
			return err
		}
		if err := addResidualSheet(f, entry.Sheet+" residuals", entry.Fit); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}

func addSummarySheet(f *excelize.File, sheet string, s *model.Summary, first bool) error {
	if err := ensureSheet(f, sheet, first); err != nil {
		return err
	}

	headers := []interface{}{"coefficient", "estimate", "std.err", "statistic", "p-value", "lower", "upper"}
	if s.ModelKind == model.KindLogistic {
		headers = append(headers, "odds ratio", "OR lower", "OR upper")
	}
	if err := writeRow(f, sheet, 1, headers); err != nil {
		return err
	}

	for i, c := range s.Coefficients {
		row := []interface{}{c.Label, c.Estimate, c.StdErr, c.Statistic, c.PValue, c.Lower, c.Upper}
		if s.ModelKind == model.KindLogistic {
			row = append(row, c.OddsRatio, c.ORLower, c.ORUpper)
		}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func addResidualSheet(f *excelize.File, sheet string, fit *model.Fitted) error {
	if err := ensureSheet(f, sheet, false); err != nil {
		return err
	}

	if err := writeRow(f, sheet, 1, []interface{}{"row", "outcome", "fitted", "residual"}); err != nil {
		return err
	}
	for i := range fit.FittedValues {
		row := []interface{}{i + 1, fit.Design.Y[i], fit.FittedValues[i], fit.Residuals[i]}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

// ensureSheet creates the sheet, reusing the default Sheet1 for the first one
func ensureSheet(f *excelize.File, sheet string, first bool) error {
	if first {
		return f.SetSheetName("Sheet1", sheet)
	}
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, rowIdx int, values []interface{}) error {
	for c, v := range values {
		cell, err := excelize.CoordinatesToCellName(c+1, rowIdx)
		if err != nil {
			return fmt.Errorf("cell coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}
