package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/user/feor_plateqc_go/internal/analysis"
)

// SummaryHeader is the column header of the run summary table.
var SummaryHeader = []string{"Plate", "Signal to Background", "Z'"}

// ControlHeader is the column header of a plate's control table.
var ControlHeader = []string{"Control_Type", "Plate", "Value"}

func writeCSV(path string, header []string, records [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create CSV file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if len(header) > 0 {
		if err := writer.Write(header); err != nil {
			return errors.Wrap(err, "failed to write CSV header")
		}
	}
	if err := writer.WriteAll(records); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return file.Close()
}

// WriteRawBlock saves a plate block's raw rows exactly as they appeared in the export.
func WriteRawBlock(path string, rows [][]string) error {
	return writeCSV(path, nil, rows)
}

// WriteControlTable saves a plate's control records. Missing readings are left empty.
func WriteControlTable(path string, records []analysis.ControlRecord) error {
	rows := lo.Map(records, func(r analysis.ControlRecord, _ int) []string {
		return []string{r.ControlType, r.Plate, formatReading(r.Value.Value, r.Value.Valid)}
	})
	return writeCSV(path, ControlHeader, rows)
}

// SummaryRows formats one row per successful plate, in block order, with
// metrics to three decimals.
func SummaryRows(results *analysis.RunResults) [][]string {
	return lo.Map(results.Plates(), func(p *analysis.PlateResult, _ int) []string {
		return []string{
			p.Name,
			fmt.Sprintf("%.3f", p.QC.SignalToBackground),
			fmt.Sprintf("%.3f", p.QC.ZPrime),
		}
	})
}

// WriteSummaryCSV saves the run summary table.
func WriteSummaryCSV(path string, results *analysis.RunResults) error {
	return writeCSV(path, SummaryHeader, SummaryRows(results))
}

// PrintSummary renders the run summary as a grid table.
func PrintSummary(w io.Writer, results *analysis.RunResults) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader(SummaryHeader)
	table.SetRowLine(true)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.AppendBulk(SummaryRows(results))
	table.Render()
}

func formatReading(v float64, valid bool) string {
	if !valid {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
