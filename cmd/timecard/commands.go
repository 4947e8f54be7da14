package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"timecardcli/internal/app"
	"timecardcli/internal/config"
	apperrors "timecardcli/internal/errors"
	"timecardcli/internal/infrastructure"
	"timecardcli/pkg/contracts"
)

// cli carries state shared by the subcommands of one invocation
type cli struct {
	stdout io.Writer
	stderr io.Writer

	configFile string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   config.AppName,
		Short: "Timecard compliance analyzer",
		Long: `timecard scans timecard workbooks and flags employees who
  - worked 7 or more consecutive calendar days,
  - had less than 10 hours (but more than 1 hour) between shifts,
  - worked a single shift longer than 14 hours.

Thresholds, column names and outputs are configurable through a YAML file
(timecard.yaml) or TIMECARD_* environment variables.`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err: err}
	})

	root.PersistentFlags().StringVar(&c.configFile, "config", "", "configuration file (default: timecard.yaml or configs/timecard.yaml)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(c.newAnalyzeCmd(), c.newHistoryCmd(), c.newVersionCmd())
	return root
}

// setup loads configuration and the logger before any subcommand runs
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	switch cmd.Name() {
	case "version", "help":
		return nil
	}

	cfg, err := config.Load(c.configFile)
	if err != nil {
		return apperrors.NewConfigError("failed to load configuration", err)
	}
	if c.logLevel != "" {
		cfg.Logging.Level = c.logLevel
		if err := cfg.Validate(); err != nil {
			return usageError{err: fmt.Errorf("invalid --log-level %q", c.logLevel)}
		}
	}

	logger, err := infrastructure.NewLogger(cfg.Logging, c.stderr)
	if err != nil {
		return apperrors.NewConfigError("failed to initialize logger", err)
	}
	slog.SetDefault(logger)

	c.cfg = cfg
	c.logger = logger
	return nil
}

type analyzeFlags struct {
	dir         string
	out         string
	csv         string
	historyDB   string
	sheet       string
	metricsFile string
	traceFile   string
	sort        bool
	noConsole   bool
	trace       bool
}

func (c *cli) newAnalyzeCmd() *cobra.Command {
	var f analyzeFlags

	cmd := &cobra.Command{
		Use:   "analyze [workbook.xlsx ...]",
		Short: "Analyze timecard workbooks and write the report",
		Long: `Reads the given workbooks (or every .xlsx in --dir) as one row stream,
flags employees in each category and writes the report file.

With no workbooks and no --dir, ./` + config.DefaultInputFile + ` is read.
Rows must be grouped by employee and in time order within an employee
unless --sort is given.`,
		Example: `  timecard analyze
  timecard analyze week1.xlsx week2.xlsx --out reports/output.txt
  timecard analyze --dir exports/ --sort --csv flags.csv --history-db data/history.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAnalyze(cmd, args, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.dir, "dir", "", "read every .xlsx workbook in this directory")
	flags.StringVarP(&f.out, "out", "o", "", "report file (default "+config.DefaultOutputPath+")")
	flags.StringVar(&f.csv, "csv", "", "also write flagged employees as CSV")
	flags.StringVar(&f.historyDB, "history-db", "", "record the run in this SQLite database")
	flags.StringVar(&f.sheet, "sheet", "", "sheet to read (default: first sheet)")
	flags.StringVar(&f.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile")
	flags.StringVar(&f.traceFile, "trace-file", "", "write spans to this file instead of stderr")
	flags.BoolVar(&f.sort, "sort", false, "group rows by employee and time before analysis")
	flags.BoolVar(&f.noConsole, "no-console", false, "do not echo the report to stdout")
	flags.BoolVar(&f.trace, "trace", false, "export OpenTelemetry spans")
	return cmd
}

// apply overlays explicitly set flags onto cfg
func (f analyzeFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("out") {
		cfg.Output.TextPath = f.out
	}
	if flags.Changed("csv") {
		cfg.Output.CSVPath = f.csv
	}
	if flags.Changed("history-db") {
		cfg.Output.HistoryDB = f.historyDB
	}
	if flags.Changed("sheet") {
		cfg.Input.Sheet = f.sheet
	}
	if flags.Changed("metrics-file") {
		cfg.Metrics.TextfilePath = f.metricsFile
	}
	if flags.Changed("sort") {
		cfg.Analysis.SortRows = f.sort
	}
	if flags.Changed("no-console") {
		cfg.Output.Console = !f.noConsole
	}
	if flags.Changed("trace") {
		cfg.Tracing.Enabled = f.trace
	}
	if flags.Changed("trace-file") {
		cfg.Tracing.Enabled = true
		cfg.Tracing.FilePath = f.traceFile
	}
}

func (c *cli) runAnalyze(cmd *cobra.Command, args []string, f analyzeFlags) error {
	f.apply(cmd, c.cfg)
	if err := c.cfg.Validate(); err != nil {
		return usageError{err: err}
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApplication(c.cfg, c.logger, c.stdout)
	if err != nil {
		return err
	}
	defer func() {
		if err := application.Shutdown(context.Background()); err != nil {
			c.logger.Warn("Failed to flush traces", slog.String("error", err.Error()))
		}
	}()

	_, err = application.Analyze(ctx, app.AnalyzeRequest{Files: args, Dir: f.dir})
	return err
}

func (c *cli) newHistoryCmd() *cobra.Command {
	var (
		historyDB string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List previously recorded runs",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("history-db") {
				c.cfg.Output.HistoryDB = historyDB
			}
			application, err := app.NewApplication(c.cfg, c.logger, c.stdout)
			if err != nil {
				return err
			}
			defer func() { _ = application.Shutdown(context.Background()) }()

			return application.History(commandContext(cmd), c.stdout, limit)
		},
	}

	cmd.Flags().StringVar(&historyDB, "history-db", "", "SQLite database written by analyze --history-db")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of runs to show (0 for all)")
	return cmd
}

func (c *cli) newVersionCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			version := contracts.GetVersionString(config.AppName)
			if verbose {
				version = contracts.GetFullVersionString(config.AppName)
			}
			_, err := fmt.Fprintln(c.stdout, version)
			return err
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "include build details")
	return cmd
}

func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return usageError{err: err}
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
