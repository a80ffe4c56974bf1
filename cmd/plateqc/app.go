package main

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/user/feor_plateqc_go/internal/analysis"
	"github.com/user/feor_plateqc_go/internal/config"
	"github.com/user/feor_plateqc_go/internal/logger"
	"github.com/user/feor_plateqc_go/internal/parser"
	"github.com/user/feor_plateqc_go/internal/report"
)

// App runs one QC analysis from export file to run folder.
type App struct {
	cfg    *config.Config
	layout analysis.Layout
	log    zerolog.Logger
	out    io.Writer
	now    func() time.Time
}

// NewApp configures logging and loads the plate layout. The returned function
// closes the log file.
func NewApp(cfg *config.Config, out io.Writer) (*App, func(), error) {
	log, closeLog, err := logger.Configure(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = closeLog() }

	layout, err := config.LoadLayout(cfg.LayoutFile)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return newApp(cfg, layout, log, out), cleanup, nil
}

func newApp(cfg *config.Config, layout analysis.Layout, log zerolog.Logger, out io.Writer) *App {
	return &App{cfg: cfg, layout: layout, log: log, out: out, now: time.Now}
}

func (a *App) sendStatus(message string) {
	a.log.Info().Msg(message)
}

// runName returns the configured run name or a timestamped default.
func (a *App) runName() string {
	if a.cfg.RunName != "" {
		return a.cfg.RunName
	}
	return fmt.Sprintf("plateqc_%s", a.now().Format("20060102_150405"))
}

// HandleRun analyzes the export at inputPath and writes every artifact of the
// run. Plate failures are reported but do not fail the run; unreadable input,
// unpaired block markers and summary write errors do.
func (a *App) HandleRun(inputPath string) (*analysis.RunResults, error) {
	name := a.runName()
	a.sendStatus(fmt.Sprintf("Request: input=[%s], output=[%s], run=[%s]", inputPath, a.cfg.OutputDir, name))

	a.sendStatus(fmt.Sprintf("Parsing: %s", inputPath))
	table, err := parser.LoadTable(inputPath)
	if err != nil {
		return nil, err
	}
	a.sendStatus(fmt.Sprintf("Loaded %d rows", table.NumRows()))

	runner := analysis.NewRunner(a.layout, a.cfg.StrictMarkers, a.log)
	blocks, err := runner.Locate(table)
	if err != nil {
		return nil, err
	}

	// the run folder is only created once the export is known to be usable
	dirs, err := report.EnsureDirectories(a.cfg.OutputDir, name, report.RunFolders)
	if err != nil {
		return nil, err
	}
	sink := report.NewArtifactWriter(dirs, a.log)
	results := runner.RunBlocks(table, blocks, sink)

	summaryPath := filepath.Join(dirs[report.SummaryDir], "RunSummary.csv")
	if err := report.WriteSummaryCSV(summaryPath, results); err != nil {
		return results, errors.Wrap(err, "failed to write run summary")
	}
	a.sendStatus(fmt.Sprintf("Saved run summary: %s", summaryPath))
	report.PrintSummary(a.out, results)

	if a.cfg.WriteXLSX {
		path := filepath.Join(dirs[report.SummaryDir], "RunSummary.xlsx")
		if err := report.WriteWorkbook(path, results); err != nil {
			return results, errors.Wrap(err, "failed to write run workbook")
		}
		a.sendStatus(fmt.Sprintf("Saved workbook: %s", path))
	}

	if a.cfg.WritePDF {
		path := filepath.Join(dirs[report.SummaryDir], "RunReport.pdf")
		info := report.RunInfo{
			Name:      name,
			InputFile: filepath.Base(inputPath),
			Generated: a.now(),
			Layout:    a.layout,
		}
		if err := report.BuildPDFReport(path, info, results, sink.Images()); err != nil {
			return results, err
		}
		a.sendStatus(fmt.Sprintf("PDF report successfully generated: %s", path))
	}

	for _, p := range results.Failed {
		a.log.Warn().Str("plate", p.Name).Int("index", p.Index+1).Err(p.Err).Msg("Plate skipped")
	}
	return results, nil
}
