package analysis

import (
	"math"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/user/feor_plateqc_go/internal/parser"
)

// SplitSignals separates a cleaned plate matrix into its FeOR and Hoechst
// channels. The Hoechst columns are re-indexed from 0 so both channels align
// well for well; anything between the channels is dropped.
func SplitSignals(cleaned *parser.Matrix, layout Layout) (SignalPair, error) {
	if need := layout.MinCleanedCols(); cleaned.Cols < need {
		return SignalPair{}, errors.Wrapf(parser.ErrInsufficientColumns,
			"cleaned plate has %d columns, need %d for both channels", cleaned.Cols, need)
	}
	return SignalPair{
		FeOR:    cleaned.SubColumns(0, layout.ChannelAWidth),
		Hoechst: cleaned.SubColumns(layout.ChannelBStart, layout.ChannelBWidth),
	}, nil
}

// Normalize divides FeOR by Hoechst well by well and scales the ratios by the
// mean ratio of the negative control columns. Missing readings and zero
// Hoechst values give missing ratios.
func Normalize(signals SignalPair, layout Layout) (*parser.Matrix, error) {
	feor, hoechst := signals.FeOR, signals.Hoechst
	if feor.Rows != hoechst.Rows || feor.Cols != hoechst.Cols {
		return nil, errors.Errorf("channel shapes differ: %dx%d vs %dx%d",
			feor.Rows, feor.Cols, hoechst.Rows, hoechst.Cols)
	}
	if need := layout.MinNormalizedCols(); feor.Cols < need {
		return nil, errors.Wrapf(parser.ErrInsufficientColumns,
			"channel has %d columns, control wells need %d", feor.Cols, need)
	}

	ratio := parser.NewMatrix(feor.Rows, feor.Cols)
	for r := 0; r < ratio.Rows; r++ {
		for c := 0; c < ratio.Cols; c++ {
			ratio.Set(r, c, divide(feor.At(r, c), hoechst.At(r, c)))
		}
	}

	reference := parser.ValidValues(lo.FlatMap(layout.NegativeControlCols, func(col int, _ int) []parser.Reading {
		return ratio.Column(col)
	}))
	if len(reference) == 0 {
		return nil, errors.Wrap(ErrDegenerateControl, "no valid readings in the negative control wells")
	}
	controlAverage := stat.Mean(reference, nil)
	if controlAverage == 0 || math.IsNaN(controlAverage) || math.IsInf(controlAverage, 0) {
		return nil, errors.Wrapf(ErrDegenerateControl, "control average is %v", controlAverage)
	}

	normalized := parser.NewMatrix(ratio.Rows, ratio.Cols)
	for r := 0; r < ratio.Rows; r++ {
		for c := 0; c < ratio.Cols; c++ {
			normalized.Set(r, c, divide(ratio.At(r, c), parser.Some(controlAverage)))
		}
	}
	return normalized, nil
}

func divide(num, den parser.Reading) parser.Reading {
	if !num.Valid || !den.Valid || den.Value == 0 {
		return parser.Missing()
	}
	q := num.Value / den.Value
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return parser.Missing()
	}
	return parser.Some(q)
}

// ExtractControls pulls the control wells out of a normalized matrix. Missing
// readings are kept; CalculateQC skips them.
func ExtractControls(normalized *parser.Matrix, layout Layout) (ControlSet, error) {
	if need := layout.MinNormalizedCols(); normalized.Cols < need {
		return ControlSet{}, errors.Wrapf(parser.ErrInsufficientColumns,
			"normalized plate has %d columns, control wells need %d", normalized.Cols, need)
	}
	return ControlSet{
		Positive: normalized.Column(layout.PositiveControlCol),
		Negative: lo.FlatMap(layout.NegativeControlCols, func(col int, _ int) []parser.Reading {
			return normalized.Column(col)
		}),
	}, nil
}
