package parser

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// LocateBlocks scans column 0 for cells exactly equal to StartMarker and
// EndMarker, whitespace included, and pairs the i-th start with the i-th end. Each block spans [start, end); the end marker
// row itself is excluded.
//
// A differing number of start and end markers is ErrMalformedInput. When strict
// is set, pairs that are out of order or overlap the previous block are rejected
// as well; otherwise they are returned as found.
func LocateBlocks(table *RawTable, strict bool) ([]Block, error) {
	var starts, ends []int
	for row := 0; row < table.NumRows(); row++ {
		switch table.RawCell(row, 0) {
		case StartMarker:
			starts = append(starts, row)
		case EndMarker:
			ends = append(ends, row)
		}
	}

	if len(starts) != len(ends) {
		return nil, errors.Wrapf(ErrMalformedInput,
			"found %d %q markers but %d %q markers", len(starts), StartMarker, len(ends), EndMarker)
	}

	blocks := make([]Block, 0, len(starts))
	prevEnd := -1
	for i := range starts {
		start, end := starts[i], ends[i]
		if strict && (start >= end || start < prevEnd) {
			return nil, errors.Wrapf(ErrMalformedInput,
				"plate block %d has start row %d and end row %d (previous block ended at row %d)", i+1, start, end, prevEnd)
		}
		prevEnd = end
		blocks = append(blocks, Block{
			Index: i,
			Start: start,
			End:   end,
			Label: blockLabel(table, start, i),
		})
	}
	return blocks, nil
}

// blockLabel reads the plate name next to the start marker, falling back to a
// positional name.
func blockLabel(table *RawTable, start, index int) string {
	if label := table.Cell(start, 1); label != "" {
		return label
	}
	return fmt.Sprintf("Plate %d", index+1)
}

// SanitizeLabel makes a plate label safe for file names and result keys.
func SanitizeLabel(label string) string {
	return strings.NewReplacer(" ", "_", "/", "_").Replace(label)
}
