package analysis

import (
	"strconv"

	"github.com/user/feor_plateqc_go/internal/parser"
)

// plateWells returns a 3-row FeOR/Hoechst pair where the vehicle columns read
// 100, the 1mM FAC column reads 280/300/320 and Hoechst is flat at 100.
// Normalized: vehicle 1.0, FAC 2.8/3.0/3.2, so S/B = 3 and Z' = 0.7.
func plateWells(scale float64) (feor, hoechst [][]float64) {
	fac := []float64{280, 300, 320}
	for r := 0; r < 3; r++ {
		fe := make([]float64, 12)
		ho := make([]float64, 12)
		for c := range fe {
			fe[c] = 150 * scale
			ho[c] = 100 * scale
		}
		fe[0], fe[11] = 100*scale, 100*scale
		fe[10] = fac[r] * scale
		feor = append(feor, fe)
		hoechst = append(hoechst, ho)
	}
	return feor, hoechst
}

// blockRows lays out one plate block as the reader exports it: marker row,
// header row, data rows with two metadata cells and a spacer between the
// channels, and a footer row. The closing "~End" row is not included.
func blockRows(label string, feor, hoechst [][]float64) [][]string {
	rows := [][]string{
		{parser.StartMarker, label, "1.3", "PlateFormat", "Endpoint"},
		header(),
	}
	for r := range feor {
		row := []string{"", "25.0"}
		for _, v := range feor[r] {
			row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
		}
		row = append(row, "")
		for _, v := range hoechst[r] {
			row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
		}
		rows = append(rows, row)
	}
	return append(rows, []string{""})
}

func header() []string {
	row := []string{"", "Temperature(¡C)"}
	for i := 1; i <= 25; i++ {
		row = append(row, strconv.Itoa(i))
	}
	return row
}

// narrowBlockRows is a block whose rows are only 10 cells wide.
func narrowBlockRows(label string) [][]string {
	rows := [][]string{{parser.StartMarker, label}}
	for r := 0; r < 4; r++ {
		rows = append(rows, []string{"", "25.0", "1", "2", "3", "4", "5", "6", "7", "8"})
	}
	return append(rows, []string{""})
}

// exportTable joins blocks into one raw table, closing each with "~End".
func exportTable(blocks ...[][]string) *parser.RawTable {
	rows := [][]string{{"##BLOCKS= " + strconv.Itoa(len(blocks))}}
	for _, b := range blocks {
		rows = append(rows, b...)
		rows = append(rows, []string{parser.EndMarker})
	}
	rows = append(rows, []string{"Original Filename: test.sda"})
	return parser.NewRawTable(rows)
}

func readings(vs ...float64) []parser.Reading {
	out := make([]parser.Reading, len(vs))
	for i, v := range vs {
		out[i] = parser.Some(v)
	}
	return out
}

func matrixFrom(rows [][]float64) *parser.Matrix {
	m := parser.NewMatrix(len(rows), len(rows[0]))
	for r, row := range rows {
		for c, v := range row {
			m.Set(r, c, parser.Some(v))
		}
	}
	return m
}
