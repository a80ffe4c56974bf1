package report

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	"github.com/user/feor_plateqc_go/internal/parser"
)

const (
	heatmapColors = 255
	heatmapWidth  = 8 * vg.Inch
	heatmapHeight = 5.5 * vg.Inch
)

var missingWellColor = color.Gray{Y: 200}

// plateGrid exposes a normalized plate matrix as a plotter.GridXYZ. Row 0 of
// the plate is drawn at the top.
type plateGrid struct {
	m *parser.Matrix
}

func (g plateGrid) Dims() (c, r int) { return g.m.Cols, g.m.Rows }

func (g plateGrid) Z(c, r int) float64 {
	v := g.m.At(g.m.Rows-1-r, c)
	if !v.Valid {
		return math.NaN()
	}
	return v.Value
}

func (g plateGrid) X(c int) float64 { return float64(c) }
func (g plateGrid) Y(r int) float64 { return float64(r) }

// rowLabel names plate rows A, B, C... and falls back to numbers past Z.
func rowLabel(row int) string {
	if row < 26 {
		return string(rune('A' + row))
	}
	return fmt.Sprintf("%d", row+1)
}

// CreatePlateHeatmap renders the normalized FeOR/Hoechst ratios of one plate,
// one cell per well, on a diverging blue-red scale centered on 1.0 (the
// vehicle average). Missing wells are drawn gray. The result is PNG encoded.
func CreatePlateHeatmap(name string, normalized *parser.Matrix) ([]byte, error) {
	if normalized == nil || normalized.Rows == 0 || normalized.Cols == 0 {
		return nil, errors.New("no normalized wells to plot")
	}
	grid := plateGrid{m: normalized}

	span := 1.0
	var cells plotter.XYs
	var labels []string
	cols, rows := grid.Dims()
	for c := 0; c < cols; c++ {
		for r := 0; r < rows; r++ {
			v := grid.Z(c, r)
			if math.IsNaN(v) {
				continue
			}
			span = math.Max(span, math.Abs(v-1))
			cells = append(cells, plotter.XY{X: grid.X(c), Y: grid.Y(r)})
			labels = append(labels, fmt.Sprintf("%.2f", v))
		}
	}

	cm := moreland.SmoothBlueRed()
	cm.SetMin(1 - span)
	cm.SetMax(1 + span)
	pal := cm.Palette(heatmapColors)

	hm := plotter.NewHeatMap(grid, pal)
	hm.Min, hm.Max = 1-span, 1+span
	hm.NaN = missingWellColor
	colors := pal.Colors()
	hm.Underflow = colors[0]
	hm.Overflow = colors[len(colors)-1]

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Normalized Plate - %s", name)
	p.Add(hm)

	if len(cells) > 0 {
		values, err := plotter.NewLabels(plotter.XYLabels{XYs: cells, Labels: labels})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create well labels")
		}
		for i := range values.TextStyle {
			values.TextStyle[i].Font.Size = vg.Points(7)
			values.TextStyle[i].XAlign = text.XCenter
			values.TextStyle[i].YAlign = text.YCenter
		}
		p.Add(values)
	}

	xTicks := make([]plot.Tick, cols)
	for c := range xTicks {
		xTicks[c] = plot.Tick{Value: float64(c), Label: fmt.Sprintf("%d", c+1)}
	}
	yTicks := make([]plot.Tick, rows)
	for r := range yTicks {
		yTicks[r] = plot.Tick{Value: float64(r), Label: rowLabel(rows - 1 - r)}
	}
	p.X.Tick.Marker = plot.ConstantTicks(xTicks)
	p.Y.Tick.Marker = plot.ConstantTicks(yTicks)
	p.X.Min, p.X.Max = -0.5, float64(cols)-0.5
	p.Y.Min, p.Y.Max = -0.5, float64(rows)-0.5

	var buf bytes.Buffer
	w, err := p.WriterTo(heatmapWidth, heatmapHeight, "png")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create plot writer")
	}
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(err, "failed to encode heatmap")
	}
	return buf.Bytes(), nil
}
