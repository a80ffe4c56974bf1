package analysis

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/feor_plateqc_go/internal/parser"
)

func cleanedPlate(t *testing.T, scale float64) *parser.Matrix {
	t.Helper()
	feor, hoechst := plateWells(scale)
	m, err := parser.CleanBlock(blockRows("P", feor, hoechst))
	require.NoError(t, err)
	return m
}

func TestSplitSignals(t *testing.T) {
	cleaned := cleanedPlate(t, 1)
	require.Equal(t, 25, cleaned.Cols)

	pair, err := SplitSignals(cleaned, DefaultLayout())
	require.NoError(t, err)

	for _, ch := range []*parser.Matrix{pair.FeOR, pair.Hoechst} {
		assert.Equal(t, 3, ch.Rows)
		assert.Equal(t, 12, ch.Cols)
	}
	assert.Equal(t, parser.Some(280), pair.FeOR.At(0, 10))
	assert.Equal(t, parser.Some(100), pair.Hoechst.At(0, 0))
	assert.Equal(t, cleaned.At(2, 24), pair.Hoechst.At(2, 11))
}

func TestSplitSignalsTooNarrow(t *testing.T) {
	_, err := SplitSignals(parser.NewMatrix(3, 24), DefaultLayout())
	assert.True(t, errors.Is(err, parser.ErrInsufficientColumns))
}

func TestSplitSignalsCustomLayout(t *testing.T) {
	layout := Layout{
		ChannelAWidth:       2,
		ChannelBStart:       2,
		ChannelBWidth:       2,
		PositiveControlCol:  1,
		NegativeControlCols: []int{0},
	}
	pair, err := SplitSignals(matrixFrom([][]float64{{1, 2, 3, 4}}), layout)
	require.NoError(t, err)
	assert.Equal(t, []parser.Reading{parser.Some(3), parser.Some(4)}, pair.Hoechst.Data[0])
}

func TestNormalize(t *testing.T) {
	pair, err := SplitSignals(cleanedPlate(t, 1), DefaultLayout())
	require.NoError(t, err)

	norm, err := Normalize(pair, DefaultLayout())
	require.NoError(t, err)

	assert.InDelta(t, 1.0, norm.At(0, 0).Value, 1e-12)
	assert.InDelta(t, 1.0, norm.At(2, 11).Value, 1e-12)
	assert.InDelta(t, 1.5, norm.At(1, 5).Value, 1e-12)
	assert.InDelta(t, 3.2, norm.At(2, 10).Value, 1e-12)
}

func TestNormalizeIsScaleStable(t *testing.T) {
	layout := DefaultLayout()
	base, err := SplitSignals(cleanedPlate(t, 1), layout)
	require.NoError(t, err)
	want, err := Normalize(base, layout)
	require.NoError(t, err)

	for _, scale := range []float64{0.001, 2, 7.5, 1e6} {
		scaled, err := SplitSignals(cleanedPlate(t, scale), layout)
		require.NoError(t, err)
		got, err := Normalize(scaled, layout)
		require.NoError(t, err)

		for r := 0; r < want.Rows; r++ {
			for c := 0; c < want.Cols; c++ {
				assert.InDelta(t, want.At(r, c).Value, got.At(r, c).Value, 1e-9, "scale %v cell (%d,%d)", scale, r, c)
			}
		}
	}
}

func TestNormalizeMissingAndZeroHoechst(t *testing.T) {
	pair, err := SplitSignals(cleanedPlate(t, 1), DefaultLayout())
	require.NoError(t, err)
	pair.Hoechst.Set(0, 5, parser.Some(0))
	pair.Hoechst.Set(1, 5, parser.Missing())
	pair.FeOR.Set(2, 5, parser.Missing())
	// a vehicle well with zero Hoechst drops out of the control average
	pair.Hoechst.Set(0, 0, parser.Some(0))

	norm, err := Normalize(pair, DefaultLayout())
	require.NoError(t, err)

	assert.False(t, norm.At(0, 5).Valid)
	assert.False(t, norm.At(1, 5).Valid)
	assert.False(t, norm.At(2, 5).Valid)
	assert.False(t, norm.At(0, 0).Valid)
	assert.InDelta(t, 1.0, norm.At(1, 0).Value, 1e-12)
}

func TestNormalizeDegenerateControls(t *testing.T) {
	layout := DefaultLayout()

	t.Run("AllMissing", func(t *testing.T) {
		pair, err := SplitSignals(cleanedPlate(t, 1), layout)
		require.NoError(t, err)
		for r := 0; r < pair.FeOR.Rows; r++ {
			for _, c := range layout.NegativeControlCols {
				pair.FeOR.Set(r, c, parser.Missing())
			}
		}
		_, err = Normalize(pair, layout)
		assert.True(t, errors.Is(err, ErrDegenerateControl))
	})

	t.Run("ZeroAverage", func(t *testing.T) {
		pair, err := SplitSignals(cleanedPlate(t, 1), layout)
		require.NoError(t, err)
		for r := 0; r < pair.FeOR.Rows; r++ {
			for _, c := range layout.NegativeControlCols {
				pair.FeOR.Set(r, c, parser.Some(0))
			}
		}
		_, err = Normalize(pair, layout)
		assert.True(t, errors.Is(err, ErrDegenerateControl))
	})
}

func TestExtractControls(t *testing.T) {
	norm := parser.NewMatrix(2, 12)
	for r := 0; r < 2; r++ {
		for c := 0; c < 12; c++ {
			norm.Set(r, c, parser.Some(float64(r*100+c)))
		}
	}
	norm.Set(1, 10, parser.Missing())

	controls, err := ExtractControls(norm, DefaultLayout())
	require.NoError(t, err)

	assert.Equal(t, []parser.Reading{parser.Some(10), parser.Missing()}, controls.Positive)
	// column 0 first, then column 11
	assert.Equal(t, readings(0, 100, 11, 111), controls.Negative)
}

func TestExtractControlsTooNarrow(t *testing.T) {
	_, err := ExtractControls(parser.NewMatrix(3, 11), DefaultLayout())
	assert.True(t, errors.Is(err, parser.ErrInsufficientColumns))
}

func TestLayoutBounds(t *testing.T) {
	layout := DefaultLayout()
	assert.Equal(t, 25, layout.MinCleanedCols())
	assert.Equal(t, 12, layout.MinNormalizedCols())
}
