package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"timecardcli/internal/config"
)

// TracerName is the instrumentation scope for every span the CLI emits
const TracerName = "timecardcli"

// Tracing owns the tracer provider for one CLI run
type Tracing struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
	file     *os.File
}

// InitializeTracing sets up span export. With tracing disabled the returned
// Tracing hands out no-op spans. Spans go to cfg.FilePath, or to stderr when
// no path is set; stdout carries the report.
func InitializeTracing(cfg config.TracingConfig, logger *slog.Logger) (*Tracing, error) {
	if !cfg.Enabled {
		return &Tracing{tracer: noop.NewTracerProvider().Tracer(TracerName)}, nil
	}
	if logger == nil {
		logger = GetLogger()
	}

	t := &Tracing{}
	var w io.Writer = os.Stderr
	if cfg.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create trace directory: %w", err)
		}
		file, err := os.Create(cfg.FilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to create trace file: %w", err)
		}
		t.file = file
		w = file
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		t.closeFile()
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(config.AppName),
		semconv.ServiceVersion(config.AppVersion),
	)

	// Synchronous export: a run is short and must not lose spans on exit
	t.provider = sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithResource(res),
	)
	t.tracer = t.provider.Tracer(TracerName, trace.WithInstrumentationVersion(config.AppVersion))

	logger.Debug("Tracing initialized", slog.String("file", cfg.FilePath))
	return t, nil
}

// Tracer returns the tracer for this run
func (t *Tracing) Tracer() trace.Tracer {
	return t.tracer
}

// Shutdown flushes spans and closes the trace file
func (t *Tracing) Shutdown(ctx context.Context) error {
	var err error
	if t.provider != nil {
		err = t.provider.Shutdown(ctx)
	}
	if cerr := t.closeFile(); err == nil {
		err = cerr
	}
	return err
}

func (t *Tracing) closeFile() error {
	if t.file == nil {
		return nil
	}
	err := t.file.Close()
	t.file = nil
	return err
}

// StartSpan starts a span tagged with the run ID from ctx
func StartSpan(ctx context.Context, tracer trace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if runID := GetRunID(ctx); runID != "" {
		attrs = append(attrs, attribute.String("run_id", runID))
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// EndSpan records err on span, if any, and ends it
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
