package report

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/pkg/errors"

	"github.com/user/feor_plateqc_go/internal/analysis"
)

const (
	inchToMm               = 25.4
	pdfPageWidthLandscape  = 11 * inchToMm // Letter landscape
	pdfPageHeightLandscape = 8.5 * inchToMm
	pdfMargin              = 0.5 * inchToMm
	pdfContentWidth        = pdfPageWidthLandscape - (2 * pdfMargin)
	pdfContentBottom       = pdfPageHeightLandscape - pdfMargin

	// Z' at or above this is an excellent assay window.
	excellentZPrime = 0.5
)

// RunInfo describes the run on the report cover.
type RunInfo struct {
	Name      string
	InputFile string
	Generated time.Time
	Layout    analysis.Layout
}

// PlotImageKey and HeatmapImageKey name a plate's images in the map passed to
// BuildPDFReport.
func PlotImageKey(name string) string    { return name + "_plot" }
func HeatmapImageKey(name string) string { return name + "_heatmap" }

// pdfStyler holds reusable styling and the flow position for PDF generation.
type pdfStyler struct {
	pdf        *gofpdf.Fpdf
	styles     map[string]func()
	lineHeight float64
	currentY   float64
}

func newPDFStyler(pdf *gofpdf.Fpdf) *pdfStyler {
	s := &pdfStyler{
		pdf:        pdf,
		styles:     make(map[string]func()),
		lineHeight: 6,
		currentY:   pdfMargin,
	}
	s.defineStyles()
	return s
}

func (s *pdfStyler) defineStyles() {
	s.styles["h1"] = func() {
		s.pdf.SetFont("Arial", "B", 16)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["h2"] = func() {
		s.pdf.SetFont("Arial", "B", 14)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["normal"] = func() {
		s.pdf.SetFont("Arial", "", 10)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableHeader"] = func() {
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetFillColor(200, 200, 200)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableCell"] = func() {
		s.pdf.SetFont("Arial", "", 9)
		s.pdf.SetTextColor(50, 50, 50)
	}
	s.styles["tableCellRed"] = func() { // unusable assay window
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetTextColor(200, 0, 0)
	}
}

func (s *pdfStyler) applyStyle(styleName string) {
	if fn, ok := s.styles[styleName]; ok {
		fn()
	} else {
		s.styles["normal"]()
	}
}

func (s *pdfStyler) newPage() {
	s.pdf.AddPage()
	s.currentY = pdfMargin
}

func (s *pdfStyler) checkAddPage(neededHeight float64) {
	if s.currentY+neededHeight > pdfContentBottom {
		s.newPage()
	}
}

func (s *pdfStyler) writeParagraph(text string, styleName string, align string) {
	s.applyStyle(styleName)
	lines := s.pdf.SplitLines([]byte(text), pdfContentWidth)
	s.checkAddPage(float64(len(lines)) * s.lineHeight)

	s.pdf.SetXY(pdfMargin, s.currentY)
	s.pdf.MultiCell(pdfContentWidth, s.lineHeight, text, "", align, false)
	s.currentY = s.pdf.GetY() + 1
}

func (s *pdfStyler) addSpacer(height float64) {
	s.currentY += height
	if s.currentY > pdfContentBottom {
		s.newPage()
	}
}

// table draws a bordered table with column widths relative to the content
// width. cellStyle picks the style for each cell.
func (s *pdfStyler) table(headers []string, widthsRel []float64, rows [][]string, cellStyle func(row, col int) string) {
	widths := make([]float64, len(widthsRel))
	for i, rel := range widthsRel {
		widths[i] = rel * pdfContentWidth
	}

	header := func() {
		x := pdfMargin
		s.applyStyle("tableHeader")
		for i, h := range headers {
			s.pdf.SetXY(x, s.currentY)
			s.pdf.CellFormat(widths[i], s.lineHeight, h, "1", 0, "C", true, 0, "")
			x += widths[i]
		}
		s.currentY += s.lineHeight
	}

	s.checkAddPage(2 * s.lineHeight)
	header()
	for r, row := range rows {
		if s.currentY+s.lineHeight > pdfContentBottom {
			s.newPage()
			header()
		}
		x := pdfMargin
		for c, cell := range row {
			s.applyStyle(cellStyle(r, c))
			s.pdf.SetXY(x, s.currentY)
			s.pdf.CellFormat(widths[c], s.lineHeight, cell, "1", 0, "C", false, 0, "")
			x += widths[c]
		}
		s.currentY += s.lineHeight
	}
}

type pdfImage struct {
	key    string
	data   []byte
	aspect float64 // width / height
}

// addImageRow places images side by side at a common height, shrinking the
// row to fit the content width.
func (s *pdfStyler) addImageRow(images []pdfImage, height float64) {
	const gap = 5.0
	total := gap * float64(len(images)-1)
	for _, img := range images {
		total += height * img.aspect
	}
	if total > pdfContentWidth {
		height *= (pdfContentWidth - gap*float64(len(images)-1)) / (total - gap*float64(len(images)-1))
	}
	s.checkAddPage(height)

	x := pdfMargin
	for _, img := range images {
		s.pdf.RegisterImageReader(img.key, "PNG", bytes.NewReader(img.data))
		w := height * img.aspect
		s.pdf.Image(img.key, x, s.currentY, w, height, false, "PNG", 0, "")
		x += w + gap
	}
	s.currentY += height + 2
}

// assessment classifies a Z' factor.
func assessment(zPrime float64) string {
	switch {
	case zPrime >= excellentZPrime:
		return "Excellent"
	case zPrime > 0:
		return "Marginal"
	default:
		return "Unusable"
	}
}

// BuildPDFReport writes the run report: a summary page with the QC table and
// any failed plates, then one page per successful plate with its control plot
// and heatmap taken from images.
func BuildPDFReport(path string, info RunInfo, results *analysis.RunResults, images map[string][]byte) error {
	pdf := gofpdf.New("L", "mm", "Letter", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-pdfMargin)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	styler := newPDFStyler(pdf)
	styler.newPage()

	styler.writeParagraph(fmt.Sprintf("FeOR Plate QC Report - %s", info.Name), "h1", "C")
	styler.addSpacer(3)
	styler.writeParagraph(fmt.Sprintf("Input: %s", info.InputFile), "normal", "L")
	styler.writeParagraph(fmt.Sprintf("Generated: %s", info.Generated.Format("2006-01-02 15:04:05")), "normal", "L")
	styler.writeParagraph(fmt.Sprintf("Plates processed: %d of %d", results.Len(), results.TotalBlocks), "normal", "L")
	styler.writeParagraph(fmt.Sprintf(
		"Layout: FeOR columns 0-%d, Hoechst columns %d-%d, positive control column %d, negative control columns %v",
		info.Layout.ChannelAWidth-1, info.Layout.ChannelBStart, info.Layout.MinCleanedCols()-1,
		info.Layout.PositiveControlCol, info.Layout.NegativeControlCols,
	), "normal", "L")
	styler.addSpacer(5)

	styler.writeParagraph("Plate Summary", "h2", "L")
	if results.Len() == 0 {
		styler.writeParagraph("No plates produced QC metrics.", "normal", "L")
	} else {
		rows := make([][]string, 0, results.Len())
		unusable := make(map[int]bool)
		for i, p := range results.Plates() {
			rows = append(rows, []string{
				p.Name,
				fmt.Sprintf("%.3f", p.QC.SignalToBackground),
				fmt.Sprintf("%.3f", p.QC.ZPrime),
				fmt.Sprintf("%.3f", p.QC.PositiveMean),
				fmt.Sprintf("%.3f", p.QC.NegativeMean),
				assessment(p.QC.ZPrime),
			})
			unusable[i] = p.QC.ZPrime <= 0
		}
		styler.table(
			[]string{"Plate", "Signal to Background", "Z'", "1mM FAC Mean", "Vehicle Mean", "Assessment"},
			[]float64{0.25, 0.15, 0.12, 0.16, 0.16, 0.16},
			rows,
			func(row, col int) string {
				if unusable[row] && (col == 2 || col == 5) {
					return "tableCellRed"
				}
				return "tableCell"
			},
		)
	}
	styler.addSpacer(5)

	if len(results.Failed) > 0 {
		styler.writeParagraph("Failed Plates", "h2", "L")
		rows := make([][]string, 0, len(results.Failed))
		for _, p := range results.Failed {
			rows = append(rows, []string{strconv.Itoa(p.Index + 1), p.Label, p.Err.Error()})
		}
		styler.table(
			[]string{"Block", "Plate", "Error"},
			[]float64{0.08, 0.2, 0.72},
			rows,
			func(int, int) string { return "tableCell" },
		)
	}

	for _, p := range results.Plates() {
		styler.newPage()
		styler.writeParagraph(fmt.Sprintf("Plate %s", p.Label), "h2", "L")
		styler.writeParagraph(fmt.Sprintf("S/B: %.3f    Z': %.3f (%s)    n = %d FAC / %d Vehicle",
			p.QC.SignalToBackground, p.QC.ZPrime, assessment(p.QC.ZPrime), p.QC.PositiveN, p.QC.NegativeN), "normal", "L")
		styler.addSpacer(2)

		row := make([]pdfImage, 0, 2)
		if img, ok := images[PlotImageKey(p.Name)]; ok && len(img) > 0 {
			row = append(row, pdfImage{key: PlotImageKey(p.Name), data: img, aspect: float64(plotWidth / plotHeight)})
		}
		if img, ok := images[HeatmapImageKey(p.Name)]; ok && len(img) > 0 {
			row = append(row, pdfImage{key: HeatmapImageKey(p.Name), data: img, aspect: float64(heatmapWidth / heatmapHeight)})
		}
		if len(row) == 0 {
			styler.writeParagraph("Plots for this plate are not available.", "normal", "L")
			continue
		}
		styler.addImageRow(row, pdfContentBottom-styler.currentY-5)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return errors.Wrap(err, "failed to write PDF report")
	}
	return nil
}
