package report

import (
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/user/feor_plateqc_go/internal/analysis"
)

// Workbook sheet names.
const (
	SummarySheet  = "Summary"
	ControlsSheet = "Controls"
	FailedSheet   = "Failed"
)

var workbookSummaryHeader = []interface{}{
	"Plate", "Label", "Signal to Background", "Z'",
	"Positive Mean", "Positive SD", "Positive N",
	"Negative Mean", "Negative SD", "Negative N",
}

// WriteWorkbook saves the run as an xlsx workbook: one row per successful plate
// on the Summary sheet, every control reading on the Controls sheet and, when
// any plate failed, the failures on a Failed sheet.
func WriteWorkbook(path string, results *analysis.RunResults) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return errors.Wrap(err, "failed to name summary sheet")
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "failed to create header style")
	}

	summary := make([][]interface{}, 0, results.Len())
	controls := make([][]interface{}, 0)
	for _, p := range results.Plates() {
		summary = append(summary, []interface{}{
			p.Name, p.Label, p.QC.SignalToBackground, p.QC.ZPrime,
			p.QC.PositiveMean, p.QC.PositiveSD, p.QC.PositiveN,
			p.QC.NegativeMean, p.QC.NegativeSD, p.QC.NegativeN,
		})
		for _, rec := range p.Controls {
			var value interface{}
			if rec.Value.Valid {
				value = rec.Value.Value
			}
			controls = append(controls, []interface{}{rec.ControlType, rec.Plate, value})
		}
	}
	if err := writeSheet(f, SummarySheet, workbookSummaryHeader, summary, bold); err != nil {
		return err
	}

	if _, err := f.NewSheet(ControlsSheet); err != nil {
		return errors.Wrap(err, "failed to add controls sheet")
	}
	if err := writeSheet(f, ControlsSheet, []interface{}{"Control_Type", "Plate", "Value"}, controls, bold); err != nil {
		return err
	}

	if len(results.Failed) > 0 {
		failed := make([][]interface{}, 0, len(results.Failed))
		for _, p := range results.Failed {
			failed = append(failed, []interface{}{p.Index + 1, p.Label, p.Err.Error()})
		}
		if _, err := f.NewSheet(FailedSheet); err != nil {
			return errors.Wrap(err, "failed to add failed plates sheet")
		}
		if err := writeSheet(f, FailedSheet, []interface{}{"Block", "Plate", "Error"}, failed, bold); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.Wrap(err, "failed to save workbook")
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, header []interface{}, rows [][]interface{}, headerStyle int) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return errors.Wrapf(err, "failed to write %s header", sheet)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return errors.Wrap(err, "failed to resolve header range")
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return errors.Wrapf(err, "failed to style %s header", sheet)
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrap(err, "failed to resolve row cell")
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return errors.Wrapf(err, "failed to write %s row %d", sheet, i+1)
		}
	}
	return nil
}
