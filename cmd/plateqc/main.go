package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/user/feor_plateqc_go/internal/config"
)

func main() {
	if err := newCLI().Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("failed to run plateqc")
	}
}

func newCLI() *cli.App {
	return &cli.App{
		Name:        "plateqc",
		Usage:       "FeOR plate reader QC",
		Description: "Splits a plate reader export into plate blocks, normalizes the FeOR signal to Hoechst and the vehicle controls, and reports S/B and Z' per plate.",
		Commands: []*cli.Command{
			runCommand(),
			layoutCommand(),
		},
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "analyze a plate reader export",
		ArgsUsage: " ",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "plate reader export (.csv, .txt or .xlsx)", Required: true},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "parent directory for the run folder"},
			&cli.StringFlag{Name: "run-name", Aliases: []string{"r"}, Usage: "run folder name (default: timestamped)"},
			&cli.StringFlag{Name: "layout", Usage: "YAML plate layout file"},
			&cli.BoolFlag{Name: "pdf", Usage: "write summary/RunReport.pdf"},
			&cli.BoolFlag{Name: "xlsx", Usage: "write summary/RunSummary.xlsx"},
			&cli.BoolFlag{Name: "strict", Usage: "reject out-of-order block markers"},
			&cli.StringFlag{Name: "log-level", Usage: "trace, debug, info, warn or error"},
			&cli.StringFlag{Name: "log-file", Usage: "append a JSON copy of the log to this file"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Parse()
			if err != nil {
				return err
			}
			applyFlags(c, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}

			app, cleanup, err := NewApp(cfg, os.Stdout)
			if err != nil {
				return err
			}
			defer cleanup()

			_, err = app.HandleRun(c.String("input"))
			return err
		},
	}
}

func layoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "layout",
		Usage: "print the plate layout as YAML",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "layout", Usage: "YAML plate layout file to validate and print (default: PLATEQC_LAYOUT_FILE)"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Parse()
			if err != nil {
				return err
			}
			applyFlags(c, cfg)

			layout, err := config.LoadLayout(cfg.LayoutFile)
			if err != nil {
				return err
			}
			data, err := config.MarshalLayout(layout)
			if err != nil {
				return err
			}
			_, err = c.App.Writer.Write(data)
			return err
		},
	}
}

// applyFlags overrides environment configuration with flags given on the
// command line.
func applyFlags(c *cli.Context, cfg *config.Config) {
	if c.IsSet("output") {
		cfg.OutputDir = c.String("output")
	}
	if c.IsSet("run-name") {
		cfg.RunName = c.String("run-name")
	}
	if c.IsSet("layout") {
		cfg.LayoutFile = c.String("layout")
	}
	if c.IsSet("pdf") {
		cfg.WritePDF = c.Bool("pdf")
	}
	if c.IsSet("xlsx") {
		cfg.WriteXLSX = c.Bool("xlsx")
	}
	if c.IsSet("strict") {
		cfg.StrictMarkers = c.Bool("strict")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("log-file") {
		cfg.LogFile = c.String("log-file")
	}
}
