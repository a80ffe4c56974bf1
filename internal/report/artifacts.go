package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/user/feor_plateqc_go/internal/analysis"
)

// ArtifactWriter saves per-plate files as the runner hands plates over. Raw
// rows are written for every plate; control tables and plots only for plates
// that produced QC metrics. Rendered images are kept for the PDF report.
type ArtifactWriter struct {
	dirs   map[string]string
	log    zerolog.Logger
	images map[string][]byte
}

var _ analysis.PlateSink = (*ArtifactWriter)(nil)

// NewArtifactWriter writes into the folders returned by EnsureDirectories.
func NewArtifactWriter(dirs map[string]string, log zerolog.Logger) *ArtifactWriter {
	return &ArtifactWriter{
		dirs:   dirs,
		log:    log,
		images: make(map[string][]byte),
	}
}

// Images returns the rendered PNGs keyed by PlotImageKey and HeatmapImageKey.
func (w *ArtifactWriter) Images() map[string][]byte { return w.images }

// HandlePlate implements analysis.PlateSink.
func (w *ArtifactWriter) HandlePlate(p *analysis.PlateResult) error {
	rawPath := filepath.Join(w.dirs[PlateRunDir], p.Name+".csv")
	if err := WriteRawBlock(rawPath, p.RawRows); err != nil {
		return errors.Wrapf(err, "plate %s raw rows", p.Name)
	}
	w.log.Debug().Str("path", rawPath).Msg("Saved raw plate data")

	if !p.OK() {
		return nil
	}

	controlPath := filepath.Join(w.dirs[ControlsDir], fmt.Sprintf("%s_controlData.csv", p.Name))
	if err := WriteControlTable(controlPath, p.Controls); err != nil {
		return errors.Wrapf(err, "plate %s control table", p.Name)
	}
	w.log.Debug().Str("path", controlPath).Msg("Saved control data")

	plot, err := CreateControlPlot(p.Name, p.Controls, p.QC)
	if err != nil {
		return errors.Wrapf(err, "plate %s control plot", p.Name)
	}
	if err := w.savePlot(p.Name+"_plot.png", PlotImageKey(p.Name), plot); err != nil {
		return err
	}

	heatmap, err := CreatePlateHeatmap(p.Name, p.Normalized)
	if err != nil {
		return errors.Wrapf(err, "plate %s heatmap", p.Name)
	}
	return w.savePlot(p.Name+"_heatmap.png", HeatmapImageKey(p.Name), heatmap)
}

func (w *ArtifactWriter) savePlot(fileName, key string, png []byte) error {
	path := filepath.Join(w.dirs[PlotsDir], fileName)
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return errors.Wrapf(err, "failed to save %s", fileName)
	}
	w.images[key] = png
	w.log.Info().Str("path", path).Msg("Saved plot")
	return nil
}
