package analysis

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/feor_plateqc_go/internal/parser"
)

func TestCalculateQCConstantControls(t *testing.T) {
	res, err := CalculateQC(ControlSet{
		Positive: readings(10, 10, 10),
		Negative: readings(1, 1, 1, 1, 1, 1),
	})
	require.NoError(t, err)

	assert.Equal(t, 10.0, res.SignalToBackground)
	assert.Equal(t, 1.0, res.ZPrime)
	assert.Equal(t, 0.0, res.PositiveSD)
	assert.Equal(t, 0.0, res.NegativeSD)
}

func TestCalculateQCUsesSampleStdDev(t *testing.T) {
	res, err := CalculateQC(ControlSet{
		Positive: readings(2.8, 3.0, 3.2),
		Negative: readings(1, 1, 1, 1, 1, 1),
	})
	require.NoError(t, err)

	assert.InDelta(t, 0.2, res.PositiveSD, 1e-12)
	assert.InDelta(t, 3.0, res.SignalToBackground, 1e-12)
	assert.InDelta(t, 0.7, res.ZPrime, 1e-12)
	assert.Equal(t, 3, res.PositiveN)
	assert.Equal(t, 6, res.NegativeN)
}

func TestCalculateQCIgnoresMissing(t *testing.T) {
	pos := append(readings(4, 6), parser.Missing())
	neg := append([]parser.Reading{parser.Missing()}, readings(1, 3)...)

	res, err := CalculateQC(ControlSet{Positive: pos, Negative: neg})
	require.NoError(t, err)

	assert.InDelta(t, 2.5, res.SignalToBackground, 1e-12)
	assert.InDelta(t, 1-(3*math.Sqrt2+3*math.Sqrt2)/3, res.ZPrime, 1e-12)
	assert.Equal(t, 2, res.PositiveN)
}

func TestCalculateQCNegativeZPrimeIsNotClamped(t *testing.T) {
	res, err := CalculateQC(ControlSet{
		Positive: readings(1, 5),
		Negative: readings(0.9, 1.1),
	})
	require.NoError(t, err)
	assert.Less(t, res.ZPrime, 0.0)
	assert.False(t, math.IsInf(res.ZPrime, 0))
}

func TestCalculateQCFailures(t *testing.T) {
	tests := []struct {
		name     string
		controls ControlSet
		want     error
	}{
		{"ZeroNegativeMean", ControlSet{Positive: readings(2, 3), Negative: readings(-1, 1)}, ErrDivisionByZero},
		{"EqualMeans", ControlSet{Positive: readings(1, 3), Negative: readings(2, 2)}, ErrDivisionByZero},
		{"OnePositive", ControlSet{Positive: append(readings(5), parser.Missing()), Negative: readings(1, 2)}, ErrInsufficientData},
		{"NoNegatives", ControlSet{Positive: readings(5, 6), Negative: nil}, ErrInsufficientData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := CalculateQC(tt.controls)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Equal(t, QCResult{}, res)
		})
	}
}

func TestBuildControlTable(t *testing.T) {
	controls := ControlSet{
		Positive: readings(3, 4),
		Negative: append(readings(1), parser.Missing(), parser.Some(2)),
	}
	records := BuildControlTable(controls, "Plate 1/A")

	require.Len(t, records, 5)
	assert.Equal(t, ControlRecord{ControlType: "1mM FAC", Plate: "Plate 1/A", Value: parser.Some(3)}, records[0])
	assert.Equal(t, "1mM FAC", records[1].ControlType)
	assert.Equal(t, ControlRecord{ControlType: "Vehicle", Plate: "Plate 1/A", Value: parser.Some(1)}, records[2])
	assert.False(t, records[3].Value.Valid)
	assert.Equal(t, parser.Some(2), records[4].Value)

	assert.Equal(t, []float64{3, 4}, ControlValues(records, PositiveControlType))
	assert.Equal(t, []float64{1, 2}, ControlValues(records, NegativeControlType))
}

func TestBuildControlTableEmpty(t *testing.T) {
	assert.Empty(t, BuildControlTable(ControlSet{}, "P"))
}
