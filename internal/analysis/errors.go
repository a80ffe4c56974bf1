package analysis

import "github.com/pkg/errors"

var (
	// ErrDegenerateControl means the negative control average cannot be used
	// as a normalization reference (no readings, zero, or not finite).
	ErrDegenerateControl = errors.New("degenerate control average")

	// ErrDivisionByZero means a QC metric denominator is zero.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrInsufficientData means a control set has fewer than two readings.
	ErrInsufficientData = errors.New("insufficient data")
)
