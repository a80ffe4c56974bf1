package report

import (
	"github.com/pkg/errors"

	"github.com/user/feor_plateqc_go/internal/analysis"
	"github.com/user/feor_plateqc_go/internal/parser"
)

// samplePlate is a processed plate with vehicle columns at 1.0, the FAC
// column at 2.8/3.0/3.2 and one missing well.
func samplePlate(label string) *analysis.PlateResult {
	normalized := parser.NewMatrix(3, 12)
	fac := []float64{2.8, 3.0, 3.2}
	for r := 0; r < 3; r++ {
		for c := 0; c < 12; c++ {
			normalized.Set(r, c, parser.Some(1.5))
		}
		normalized.Set(r, 0, parser.Some(1.0))
		normalized.Set(r, 11, parser.Some(1.0))
		normalized.Set(r, 10, parser.Some(fac[r]))
	}
	normalized.Set(1, 5, parser.Missing())

	controls := analysis.ControlSet{
		Positive: []parser.Reading{parser.Some(2.8), parser.Some(3.0), parser.Some(3.2)},
		Negative: []parser.Reading{
			parser.Some(1), parser.Missing(), parser.Some(1),
			parser.Some(1), parser.Some(1), parser.Some(1),
		},
	}

	return &analysis.PlateResult{
		Index: 0,
		Label: label,
		Name:  parser.SanitizeLabel(label),
		RawRows: [][]string{
			{parser.StartMarker, label},
			{"", "Temperature(¡C)", "1", "2"},
			{"", "25.0", "100", "150"},
		},
		QC: analysis.QCResult{
			SignalToBackground: 3, ZPrime: 0.7,
			PositiveMean: 3, NegativeMean: 1,
			PositiveSD: 0.2, NegativeSD: 0,
			PositiveN: 3, NegativeN: 5,
		},
		Controls:   analysis.BuildControlTable(controls, label),
		Normalized: normalized,
	}
}

func failedPlate(index int, label string) *analysis.PlateResult {
	return &analysis.PlateResult{
		Index:   index,
		Label:   label,
		Name:    parser.SanitizeLabel(label),
		RawRows: [][]string{{parser.StartMarker, label}, {"", "25.0", "1"}},
		Err:     errors.Wrap(parser.ErrInsufficientColumns, "clean"),
	}
}

func sampleResults(labels ...string) *analysis.RunResults {
	results := analysis.NewRunResults()
	for _, label := range labels {
		results.Set(samplePlate(label))
	}
	results.TotalBlocks = len(labels)
	return results
}
