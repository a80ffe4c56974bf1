package analysis

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/user/feor_plateqc_go/internal/parser"
)

// PlateSink receives every plate outcome as soon as it is known, failed plates
// included, so the caller can persist artifacts.
type PlateSink interface {
	HandlePlate(p *PlateResult) error
}

// SinkFunc adapts a function to PlateSink.
type SinkFunc func(p *PlateResult) error

func (f SinkFunc) HandlePlate(p *PlateResult) error { return f(p) }

// Runner drives the per-plate pipeline over every block of a raw export.
type Runner struct {
	layout Layout
	strict bool
	log    zerolog.Logger
}

// NewRunner creates a Runner. With strictMarkers set, out-of-order block
// markers fail the run instead of producing meaningless blocks.
func NewRunner(layout Layout, strictMarkers bool, log zerolog.Logger) *Runner {
	return &Runner{layout: layout, strict: strictMarkers, log: log}
}

// Run processes all plate blocks of table in order. Marker errors are returned
// before any plate is processed. A plate that fails is logged, handed to sink
// and left out of the results; the run continues with the next block.
// sink may be nil.
func (r *Runner) Run(table *parser.RawTable, sink PlateSink) (*RunResults, error) {
	blocks, err := r.Locate(table)
	if err != nil {
		return nil, err
	}
	return r.RunBlocks(table, blocks, sink), nil
}

// Locate finds the plate blocks of table. It fails on unpaired markers, and on
// misordered ones in strict mode, before any plate is touched.
func (r *Runner) Locate(table *parser.RawTable) ([]parser.Block, error) {
	blocks, err := parser.LocateBlocks(table, r.strict)
	if err != nil {
		return nil, errors.Wrap(err, "failed to locate plate blocks")
	}
	r.log.Info().Msgf("Found %d plate blocks", len(blocks))
	return blocks, nil
}

// RunBlocks processes blocks previously returned by Locate for the same table.
func (r *Runner) RunBlocks(table *parser.RawTable, blocks []parser.Block, sink PlateSink) *RunResults {
	results := NewRunResults()
	results.TotalBlocks = len(blocks)

	for _, block := range blocks {
		plate := &PlateResult{
			Index:   block.Index,
			Label:   block.Label,
			Name:    parser.SanitizeLabel(block.Label),
			RawRows: table.Rows(block.Start, block.End),
		}
		plog := r.log.With().Str("plate", plate.Name).Int("index", plate.Index+1).Logger()
		plog.Info().Msgf("Processing Plate %d of %d: %s", block.Index+1, len(blocks), plate.Name)

		plate.Err = r.processPlate(plate)
		if plate.Err != nil {
			plog.Error().Err(plate.Err).Msgf("Error processing Plate %s", plate.Label)
			results.Failed = append(results.Failed, plate)
		} else {
			plog.Info().Msgf("Calculated QC metrics for %s -- S/B: %.3f, Z: %.3f",
				plate.Name, plate.QC.SignalToBackground, plate.QC.ZPrime)
			if results.Set(plate) {
				plog.Warn().Msgf("Plate name %s already used by an earlier plate, overwriting its results", plate.Name)
			}
		}

		if sink != nil {
			if err := sink.HandlePlate(plate); err != nil {
				plog.Error().Err(err).Msg("Failed to save plate artifacts")
			}
		}
	}

	r.log.Info().Msgf("Processed %d of %d plates successfully", results.Len(), results.TotalBlocks)
	return results
}

// processPlate runs clean, split, normalize, controls and metrics for one plate.
func (r *Runner) processPlate(plate *PlateResult) error {
	cleaned, err := parser.CleanBlock(plate.RawRows)
	if err != nil {
		return errors.Wrap(err, "clean")
	}
	signals, err := SplitSignals(cleaned, r.layout)
	if err != nil {
		return errors.Wrap(err, "split signals")
	}
	normalized, err := Normalize(signals, r.layout)
	if err != nil {
		return errors.Wrap(err, "normalize")
	}
	controls, err := ExtractControls(normalized, r.layout)
	if err != nil {
		return errors.Wrap(err, "extract controls")
	}
	qc, err := CalculateQC(controls)
	if err != nil {
		return errors.Wrap(err, "qc metrics")
	}

	plate.Normalized = normalized
	plate.QC = qc
	plate.Controls = BuildControlTable(controls, plate.Label)
	return nil
}
