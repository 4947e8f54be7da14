package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"timecardcli/internal/config"
	"timecardcli/internal/dataprocessing"
	apperrors "timecardcli/internal/errors"
	"timecardcli/internal/exporter"
	"timecardcli/internal/files"
	"timecardcli/internal/infrastructure"
	"timecardcli/internal/validation"
	"timecardcli/pkg/contracts/domain"
)

// Application wires configuration, observability and the analysis pipeline
// for one CLI invocation
type Application struct {
	Config    *config.Config
	Logger    *slog.Logger
	Metrics   *infrastructure.AnalysisMetrics
	Tracing   *infrastructure.Tracing
	Validator *validation.FileValidator
	Discovery *files.Discovery

	// Console receives the human-readable report echo
	Console io.Writer

	now func() time.Time
}

// AnalyzeRequest names the workbooks of a run
type AnalyzeRequest struct {
	Files []string
	Dir   string
}

// RunSummary describes a completed analysis run
type RunSummary struct {
	RunID      string
	Inputs     []string
	Result     *domain.AnalysisResult
	StartedAt  time.Time
	FinishedAt time.Time
}

// NewApplication creates an application from a validated configuration
func NewApplication(cfg *config.Config, logger *slog.Logger, console io.Writer) (*Application, error) {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	tracing, err := infrastructure.InitializeTracing(cfg.Tracing, logger)
	if err != nil {
		return nil, apperrors.NewConfigError("failed to initialize tracing", err)
	}

	return &Application{
		Config:    cfg,
		Logger:    logger,
		Metrics:   infrastructure.NewAnalysisMetrics(),
		Tracing:   tracing,
		Validator: validation.NewFileValidator(infrastructure.WithComponent(logger, "validation")),
		Discovery: files.NewDiscovery(""),
		Console:   console,
		now:       time.Now,
	}, nil
}

// Analyze runs the full pipeline: resolve and load the workbooks, analyze the
// rows and write every configured output. A load failure returns an
// INPUT_LOAD error before any output is written.
func (a *Application) Analyze(ctx context.Context, req AnalyzeRequest) (summary *RunSummary, err error) {
	ctx = infrastructure.EnsureRunID(ctx)
	runID := infrastructure.GetRunID(ctx)
	started := a.now()

	ctx, span := infrastructure.StartSpan(ctx, a.Tracing.Tracer(), "timecard.analyze")
	defer func() { infrastructure.EndSpan(span, err) }()

	a.Logger.InfoContext(ctx, "Analysis started",
		slog.Int("files", len(req.Files)),
		slog.String("dir", req.Dir))

	inputs, err := a.resolveInputs(req)
	if err != nil {
		a.Logger.ErrorContext(ctx, "Error loading data", slog.String("error", err.Error()))
		return nil, err
	}
	span.SetAttributes(attribute.StringSlice("inputs", inputs))

	rows, err := a.load(ctx, inputs)
	if err != nil {
		a.Logger.ErrorContext(ctx, "Error loading data", slog.String("error", err.Error()))
		return nil, err
	}

	if err := a.Validator.ValidateOutputPaths(a.Config.Output.TextPath, a.Config.Output.CSVPath, a.Config.Output.HistoryDB); err != nil {
		return nil, err
	}

	if a.Config.Analysis.SortRows {
		rows = a.group(ctx, rows)
	}

	result := a.analyze(ctx, rows)
	finished := a.now()

	summary = &RunSummary{
		RunID:      runID,
		Inputs:     inputs,
		Result:     result,
		StartedAt:  started,
		FinishedAt: finished,
	}

	if err := a.export(ctx, summary); err != nil {
		return nil, err
	}

	a.Metrics.RecordFiles(len(inputs))
	a.Metrics.RecordResult(result)
	a.Metrics.ObserveRun(finished.Sub(started), finished)
	if path := a.Config.Metrics.TextfilePath; path != "" {
		if err := a.Metrics.WriteTextfile(path); err != nil {
			// Metrics are best effort; the report is already written
			a.Logger.WarnContext(ctx, "Failed to write metrics textfile",
				slog.String("path", path),
				slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Analysis completed",
		slog.Int("rows_total", result.Stats.RowsTotal),
		slog.Int("rows_skipped", result.Stats.RowsSkipped),
		slog.Int("employees", result.Stats.Employees),
		slog.Int("flagged", result.FlaggedCount()),
		slog.Duration("duration", finished.Sub(started)))

	return summary, nil
}

func (a *Application) resolveInputs(req AnalyzeRequest) ([]string, error) {
	if req.Dir != "" {
		if err := a.Validator.ValidateInputDirectory(req.Dir); err != nil {
			return nil, err
		}
	}
	inputs, err := a.Discovery.ResolveInputs(req.Files, req.Dir, config.DefaultInputFile)
	if err != nil {
		return nil, err
	}
	if err := a.Validator.ValidateExcelFiles(inputs); err != nil {
		return nil, err
	}
	return inputs, nil
}

func (a *Application) load(ctx context.Context, inputs []string) (rows []domain.TimecardRow, err error) {
	ctx, span := infrastructure.StartSpan(ctx, a.Tracing.Tracer(), "timecard.load",
		attribute.Int("files", len(inputs)))
	defer func() { infrastructure.EndSpan(span, err) }()

	rows, err = dataprocessing.LoadFiles(ctx, inputs, dataprocessing.ParseOptionsFromConfig(a.Config.Input))
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("rows", len(rows)))

	a.Logger.DebugContext(ctx, "Workbooks loaded",
		slog.Int("files", len(inputs)),
		slog.Int("rows", len(rows)))
	return rows, nil
}

func (a *Application) group(ctx context.Context, rows []domain.TimecardRow) []domain.TimecardRow {
	_, span := infrastructure.StartSpan(ctx, a.Tracing.Tracer(), "timecard.group")
	defer span.End()

	var p dataprocessing.Processor = dataprocessing.NewGroupingProcessor(infrastructure.WithComponent(a.Logger, "grouping"))
	return p.Process(rows)
}

func (a *Application) analyze(ctx context.Context, rows []domain.TimecardRow) *domain.AnalysisResult {
	ctx, span := infrastructure.StartSpan(ctx, a.Tracing.Tracer(), "timecard.scan",
		attribute.Int("rows", len(rows)))
	defer span.End()

	analyzer := dataprocessing.NewShiftAnalyzer(
		dataprocessing.AnalyzerOptionsFromConfig(a.Config.Analysis),
		infrastructure.WithComponent(a.Logger, "analyzer"))
	result := analyzer.Analyze(ctx, rows)

	span.SetAttributes(
		attribute.Int("rows_skipped", result.Stats.RowsSkipped),
		attribute.Int("flagged", result.FlaggedCount()))
	return result
}

func (a *Application) export(ctx context.Context, summary *RunSummary) (err error) {
	ctx, span := infrastructure.StartSpan(ctx, a.Tracing.Tracer(), "timecard.export")
	defer func() { infrastructure.EndSpan(span, err) }()

	out := a.Config.Output
	logger := infrastructure.WithComponent(a.Logger, "exporter")

	var console io.Writer
	if out.Console {
		console = a.Console
	}
	if err := exporter.NewTextReport(out.TextPath, console, logger).Write(summary.Result); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if out.CSVPath != "" {
		if err := exporter.NewCSVWriter(logger).WriteFlags(out.CSVPath, summary.Result); err != nil {
			return fmt.Errorf("failed to write CSV: %w", err)
		}
	}

	if out.HistoryDB != "" {
		store, err := exporter.OpenHistoryStore(ctx, out.HistoryDB, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		run := exporter.NewRunRecord(summary.RunID, summary.StartedAt, summary.FinishedAt, summary.Inputs, summary.Result)
		if err := store.Record(ctx, run); err != nil {
			return err
		}
	}
	return nil
}

// History writes up to limit recorded runs to w, newest first
func (a *Application) History(ctx context.Context, w io.Writer, limit int) error {
	path := a.Config.Output.HistoryDB
	if path == "" {
		return apperrors.NewAppValidationError("no history database configured")
	}

	store, err := exporter.OpenHistoryStore(ctx, path, infrastructure.WithComponent(a.Logger, "history"))
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded")
		return err
	}
	return exporter.FormatRuns(w, runs, a.now())
}

// Shutdown flushes spans and releases resources
func (a *Application) Shutdown(ctx context.Context) error {
	return a.Tracing.Shutdown(ctx)
}
