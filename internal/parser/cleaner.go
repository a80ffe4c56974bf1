package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	headerRows   = 2 // marker row + column header row
	footerRows   = 1
	metadataCols = 2 // row label + temperature/metadata column
	minBlockRows = headerRows + footerRows
	minBlockCols = metadataCols + 1
)

// CleanBlock turns the raw rows of one plate block into a numeric matrix.
// The first two rows, the last row and the first two columns are dropped and
// the remaining cells are parsed as numbers. Cells that do not parse become
// missing readings; that is never an error.
//
// The block width is its widest row. Short rows are padded with missing readings.
func CleanBlock(rows [][]string) (*Matrix, error) {
	if len(rows) < minBlockRows {
		return nil, errors.Wrapf(ErrInsufficientRows,
			"plate block has %d rows, need at least %d", len(rows), minBlockRows)
	}
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	if width < minBlockCols {
		return nil, errors.Wrapf(ErrInsufficientColumns,
			"plate block has %d columns, need at least %d", width, minBlockCols)
	}

	data := rows[headerRows : len(rows)-footerRows]
	m := NewMatrix(len(data), width-metadataCols)
	for r, row := range data {
		for c := 0; c < m.Cols; c++ {
			src := c + metadataCols
			if src < len(row) {
				m.Set(r, c, ParseReading(row[src]))
			}
		}
	}
	return m, nil
}

// ParseReading coerces one cell to a number. Blank, non-numeric and non-finite
// cells are missing.
func ParseReading(cell string) Reading {
	s := strings.TrimSpace(cell)
	if s == "" {
		return Missing()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Missing()
	}
	return Some(v)
}
