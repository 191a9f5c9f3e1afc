package main

import (
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v2"

	"salesinsight/internal/app"
	"salesinsight/internal/config"
	apperrors "salesinsight/internal/errors"
	"salesinsight/internal/exporter"
	"salesinsight/internal/infrastructure"
	"salesinsight/internal/ledger"
	"salesinsight/internal/printer"
	"salesinsight/internal/services"
	"salesinsight/internal/validation"
)

// =============================================================================
// CLEAN COMMAND
// =============================================================================

func cleanCommand() *cli.Command {
	return &cli.Command{
		Name:  "clean",
		Usage: "Clean the raw ledger and write the cleaned CSV",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Usage:   "Raw ledger (CSV or XLSX)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Cleaned ledger CSV",
			},
			&cli.IntFlag{
				Name:  "head",
				Value: -1,
				Usage: "Cleaned rows to print (default from config)",
			},
		},
		Action: runClean,
	}
}

func runClean(c *cli.Context) error {
	env, err := setup(c)
	if err != nil {
		return err
	}
	cfg := env.cfg
	if v := c.String("output"); v != "" {
		cfg.Paths.CleanedFile = v
	}
	head := cfg.Report.HeadRows
	if n := c.Int("head"); n >= 0 {
		head = n
	}

	if err := env.validator.ValidateLedgerFile(cfg.Paths.InputFile); err != nil {
		return env.fail(err)
	}

	env.printer.Step("Cleaning %s", cfg.Paths.InputFile)
	result, err := env.reports.Clean(c.Context, cfg.Paths.InputFile)
	if err != nil {
		return env.fail(err)
	}

	env.printer.Missing("Missing values", result.Missing)
	if result.Malformed.Total() > 0 {
		env.printer.Missing("Malformed values replaced", result.Malformed)
	}

	if err := ledger.Save(cfg.Paths.CleanedFile, result.Table); err != nil {
		return env.fail(err)
	}

	env.printer.Head(result.Table, head)
	env.printer.Success("Cleaned %d rows into %s", result.Table.Len(), cfg.Paths.CleanedFile)
	return nil
}

// =============================================================================
// REPORT COMMAND
// =============================================================================

func reportCommand() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Clean the ledger, run every query and export the result tables",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Usage:   "Raw ledger (CSV or XLSX)",
			},
			&cli.StringFlag{
				Name:    "output-dir",
				Aliases: []string{"o"},
				Usage:   "Directory for the exported tables",
			},
			&cli.StringSliceFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format (csv, json, xlsx); repeatable",
			},
			&cli.BoolFlag{
				Name:  "bom",
				Usage: "Prefix CSV exports with a UTF-8 byte order mark",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Skip the terminal summary",
			},
		},
		Action: runReport,
	}
}

func runReport(c *cli.Context) error {
	env, err := setup(c)
	if err != nil {
		return err
	}
	cfg := env.cfg
	if v := c.String("output-dir"); v != "" {
		cfg.Paths.OutputDir = v
	}
	if v := c.StringSlice("format"); len(v) > 0 {
		cfg.Report.Formats = v
	}
	if c.IsSet("bom") {
		cfg.Report.WithBOM = c.Bool("bom")
	}

	if err := env.validator.ValidateLedgerFile(cfg.Paths.InputFile); err != nil {
		return env.fail(err)
	}
	if err := env.validator.ValidateOutputDirectory(cfg.Paths.OutputDir); err != nil {
		return env.fail(err)
	}

	env.printer.Step("Generating report from %s", cfg.Paths.InputFile)
	snap, err := env.reports.Generate(c.Context, cfg.Paths.InputFile)
	if err != nil {
		return env.fail(err)
	}

	if !c.Bool("quiet") {
		env.printer.Missing("Missing values", snap.Cleaning.Missing)
		env.printer.Report(snap.Report)
	}
	if snap.Report.Records > snap.Report.DatedRecords {
		env.printer.Warning("%d records have an unknown sale date and are left out of monthly figures",
			snap.Report.Records-snap.Report.DatedRecords)
	}

	exp := exporter.New(cfg.Paths.OutputDir, cfg.Report.Formats, cfg.Report.WithBOM, env.logger)
	files, err := exp.Export(c.Context, snap.Report)
	if err != nil {
		return env.fail(err)
	}

	env.printer.Success("Wrote %d files to %s (run %s)", len(files), cfg.Paths.OutputDir, snap.RunID)
	return nil
}

// =============================================================================
// SERVE COMMAND
// =============================================================================

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the report over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Usage:   "Raw ledger (CSV or XLSX)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Listen port (default from config)",
			},
		},
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if p := c.Int("port"); p > 0 {
		cfg.Server.Port = p
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer infrastructure.CloseLogFile()

	application, err := app.NewApplication(cfg, logger)
	if err != nil {
		return err
	}
	return application.Run(c.Context)
}

// =============================================================================
// SHARED
// =============================================================================

type commandEnv struct {
	cfg       *config.Config
	logger    *slog.Logger
	printer   *printer.Printer
	validator *validation.FileValidator
	reports   *services.ReportService
}

// setup loads the configuration and builds the report service for the
// clean and report commands
func setup(c *cli.Context) (*commandEnv, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	logger := infrastructure.NewLogger(cfg.Logging, c.App.ErrWriter)
	reader := ledger.NewReader(logger, config.LedgerSeparator)

	return &commandEnv{
		cfg:       cfg,
		logger:    logger,
		printer:   printer.New(c.App.Writer, c.App.ErrWriter),
		validator: validation.NewFileValidator(logger),
		reports:   services.NewReportService(cfg, reader, nil, logger),
	}, nil
}

// loadConfig reads the config file and applies the flags shared by every
// command
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, apperrors.NewConfigError("invalid configuration", err)
	}
	if v := c.String("log-level"); v != "" {
		cfg.Logging.Level = v
	}
	if v := c.String("input"); v != "" {
		cfg.Paths.InputFile = v
	}
	return cfg, nil
}

// fail prints err with a hint matching its kind and returns it
func (e *commandEnv) fail(err error) error {
	switch {
	case apperrors.IsType(err, apperrors.ErrTypeStorage):
		e.printer.Error("Ledger file unavailable", err.Error(), []string{
			"Check the --input path",
			"Check that the output directory is writable",
		})
	case apperrors.IsType(err, apperrors.ErrTypeValidation):
		e.printer.Error("Invalid ledger file", err.Error(), []string{
			"Pass a .csv or .xlsx ledger with --input",
		})
	case apperrors.IsType(err, apperrors.ErrTypeParsing):
		e.printer.Error("Ledger could not be parsed", err.Error(), []string{
			fmt.Sprintf("The ledger must be %q separated with a header row", string(config.LedgerSeparator)),
		})
	case apperrors.IsType(err, apperrors.ErrTypeConfig):
		e.printer.Error("Configuration error", err.Error(), nil)
	default:
		e.printer.Error("Command failed", err.Error(), nil)
	}
	return err
}
