package analysis

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"github.com/user/feor_plateqc_go/internal/parser"
)

const minControlReadings = 2

// CalculateQC computes signal-to-background and Z' from the control wells.
// Missing readings are ignored. Standard deviations use the N-1 denominator.
func CalculateQC(controls ControlSet) (QCResult, error) {
	pos := parser.ValidValues(controls.Positive)
	neg := parser.ValidValues(controls.Negative)
	if len(pos) < minControlReadings || len(neg) < minControlReadings {
		return QCResult{}, errors.Wrapf(ErrInsufficientData,
			"need %d readings per control set, have %d positive and %d negative",
			minControlReadings, len(pos), len(neg))
	}

	res := QCResult{PositiveN: len(pos), NegativeN: len(neg)}
	res.PositiveMean, res.PositiveSD = stat.MeanStdDev(pos, nil)
	res.NegativeMean, res.NegativeSD = stat.MeanStdDev(neg, nil)

	if res.NegativeMean == 0 {
		return QCResult{}, errors.Wrap(ErrDivisionByZero, "negative control mean is zero")
	}
	res.SignalToBackground = res.PositiveMean / res.NegativeMean

	window := math.Abs(res.PositiveMean - res.NegativeMean)
	if window == 0 {
		return QCResult{}, errors.Wrap(ErrDivisionByZero, "positive and negative control means are equal")
	}
	res.ZPrime = 1 - (3*res.PositiveSD+3*res.NegativeSD)/window
	return res, nil
}
