package report

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"image/color"
	"math"
	"math/rand"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/user/feor_plateqc_go/internal/analysis"
)

const (
	jitterWidth    = 0.25
	medianHalfSpan = 0.2
	pointAlpha     = 153 // 0.6 opacity
	defaultYMax    = 5.0
	plotWidth      = 4 * vg.Inch
	plotHeight     = 5.5 * vg.Inch
)

// controlCategories fixes the category order and colors on the x axis.
var controlCategories = []struct {
	Type  string
	Color color.NRGBA
}{
	{analysis.PositiveControlType, color.NRGBA{R: 0x01, G: 0x32, B: 0x20, A: 0xff}},
	{analysis.NegativeControlType, color.NRGBA{R: 0xDD, G: 0x84, B: 0x52, A: 0xff}},
}

// CreateControlPlot renders the normalized control readings of one plate as a
// jittered strip plot with a dashed median bar per category and the QC metrics
// in the top right corner. The result is PNG encoded.
func CreateControlPlot(name string, records []analysis.ControlRecord, qc analysis.QCResult) ([]byte, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Plate QC - %s", name)
	p.Y.Label.Text = "FL Ratio, Normalized to Vehicle"

	ticks := make([]plot.Tick, 0, len(controlCategories))
	for i, cat := range controlCategories {
		ticks = append(ticks, plot.Tick{Value: float64(i), Label: cat.Type})
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)

	rng := rand.New(rand.NewSource(plotSeed(name)))
	yMin, yMax := 0.0, defaultYMax

	for i, cat := range controlCategories {
		values := analysis.ControlValues(records, cat.Type)
		if len(values) == 0 {
			continue
		}

		pts := make(plotter.XYs, len(values))
		for j, v := range values {
			pts[j].X = float64(i) + (rng.Float64()*2-1)*jitterWidth
			pts[j].Y = v
			yMin = math.Min(yMin, math.Floor(v))
			yMax = math.Max(yMax, math.Ceil(v))
		}
		scatter, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create %s scatter", cat.Type)
		}
		fill := cat.Color
		fill.A = pointAlpha
		scatter.GlyphStyle.Color = fill
		scatter.GlyphStyle.Radius = vg.Points(4)
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(scatter)

		med := median(values)
		bar, err := plotter.NewLine(plotter.XYs{
			{X: float64(i) - medianHalfSpan, Y: med},
			{X: float64(i) + medianHalfSpan, Y: med},
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create %s median line", cat.Type)
		}
		bar.LineStyle.Color = color.Black
		bar.LineStyle.Width = vg.Points(2)
		bar.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
		p.Add(bar)
	}

	xMax := float64(len(controlCategories)) - 0.25
	annotation, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    plotter.XYs{{X: xMax - 0.05, Y: yMax - 0.02*(yMax-yMin)}},
		Labels: []string{fmt.Sprintf("S/B: %.3f\nZ': %.3f", qc.SignalToBackground, qc.ZPrime)},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create metrics annotation")
	}
	annotation.TextStyle[0].XAlign = text.XRight
	annotation.TextStyle[0].YAlign = text.YTop
	p.Add(annotation)

	p.X.Min, p.X.Max = -0.75, xMax
	p.Y.Min, p.Y.Max = yMin, yMax

	var buf bytes.Buffer
	w, err := p.WriterTo(plotWidth, plotHeight, "png")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create plot writer")
	}
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(err, "failed to encode control plot")
	}
	return buf.Bytes(), nil
}

// plotSeed derives the jitter seed from the plate name so reruns draw the
// same picture.
func plotSeed(name string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return int64(h.Sum64())
}

// median averages the two middle values for even-length input.
func median(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
