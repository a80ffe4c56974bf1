package parser

import (
	"fmt"
	"math"
	"strings"
)

// Block markers written by the plate reader into column 0 of the export.
const (
	StartMarker = "Plate:"
	EndMarker   = "~End"
)

// RawTable is the untyped grid loaded from an instrument export.
// Rows may be ragged; cells past the end of a row read as empty.
// A RawTable is never modified after LoadTable returns it.
type RawTable struct {
	rows  [][]string
	width int
}

// NewRawTable copies rows into a RawTable.
func NewRawTable(rows [][]string) *RawTable {
	t := &RawTable{rows: make([][]string, len(rows))}
	for i, row := range rows {
		t.rows[i] = append([]string(nil), row...)
		if len(row) > t.width {
			t.width = len(row)
		}
	}
	return t
}

// NumRows returns the number of rows in the table.
func (t *RawTable) NumRows() int { return len(t.rows) }

// Width returns the length of the widest row.
func (t *RawTable) Width() int { return t.width }

// Cell returns the trimmed cell at (row, col), or "" when out of range.
func (t *RawTable) Cell(row, col int) string {
	if row < 0 || row >= len(t.rows) || col < 0 || col >= len(t.rows[row]) {
		return ""
	}
	return strings.TrimSpace(t.rows[row][col])
}

// RawCell returns the cell at (row, col) as read, or "" when out of range.
func (t *RawTable) RawCell(row, col int) string {
	if row < 0 || row >= len(t.rows) || col < 0 || col >= len(t.rows[row]) {
		return ""
	}
	return t.rows[row][col]
}

// Rows returns a copy of rows [start, end).
func (t *RawTable) Rows(start, end int) [][]string {
	start = max(start, 0)
	end = min(end, len(t.rows))
	if start >= end {
		return nil
	}
	out := make([][]string, 0, end-start)
	for _, row := range t.rows[start:end] {
		out = append(out, append([]string(nil), row...))
	}
	return out
}

// Reading is a numeric cell that may be missing. Missing readings come from
// cells that failed numeric coercion or from undefined arithmetic downstream.
type Reading struct {
	Value float64
	Valid bool
}

// Some wraps a present value.
func Some(v float64) Reading { return Reading{Value: v, Valid: true} }

// Missing is the missing-value sentinel.
func Missing() Reading { return Reading{} }

func (r Reading) String() string {
	if !r.Valid {
		return ""
	}
	return fmt.Sprintf("%g", r.Value)
}

// ValidValues returns the present values of rs in order.
func ValidValues(rs []Reading) []float64 {
	out := make([]float64, 0, len(rs))
	for _, r := range rs {
		if r.Valid && !math.IsNaN(r.Value) {
			out = append(out, r.Value)
		}
	}
	return out
}

// Matrix is a dense numeric grid of readings, indexed [row][col].
type Matrix struct {
	Rows int
	Cols int
	Data [][]Reading
}

// NewMatrix allocates a rows x cols matrix of missing readings.
func NewMatrix(rows, cols int) *Matrix {
	m := &Matrix{Rows: rows, Cols: cols, Data: make([][]Reading, rows)}
	for i := range m.Data {
		m.Data[i] = make([]Reading, cols)
	}
	return m
}

// At returns the reading at (row, col).
func (m *Matrix) At(row, col int) Reading { return m.Data[row][col] }

// Set stores a reading at (row, col).
func (m *Matrix) Set(row, col int, r Reading) { m.Data[row][col] = r }

// Column returns a copy of column col in row order.
func (m *Matrix) Column(col int) []Reading {
	out := make([]Reading, m.Rows)
	for i := 0; i < m.Rows; i++ {
		out[i] = m.Data[i][col]
	}
	return out
}

// SubColumns returns columns [from, from+width) re-indexed from 0.
func (m *Matrix) SubColumns(from, width int) *Matrix {
	sub := NewMatrix(m.Rows, width)
	for i := 0; i < m.Rows; i++ {
		copy(sub.Data[i], m.Data[i][from:from+width])
	}
	return sub
}

// Block is one plate segment of a RawTable, covering rows [Start, End).
type Block struct {
	Index int // 0-based position among located blocks
	Start int
	End   int
	Label string
}

// NumRows returns the number of rows the block spans.
func (b Block) NumRows() int { return b.End - b.Start }
