package infrastructure

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"timecardcli/pkg/contracts/domain"
)

const metricsNamespace = "timecard"

// AnalysisMetrics collects per-run counters on a private registry. The CLI is
// a batch job, so the registry is written to a node_exporter textfile instead
// of being scraped.
type AnalysisMetrics struct {
	registry *prometheus.Registry

	rows     *prometheus.CounterVec
	flagged  *prometheus.GaugeVec
	files    prometheus.Counter
	duration prometheus.Histogram
	lastRun  prometheus.Gauge
}

// NewAnalysisMetrics creates and registers the analysis collectors
func NewAnalysisMetrics() *AnalysisMetrics {
	m := &AnalysisMetrics{
		registry: prometheus.NewRegistry(),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "rows_total",
			Help:      "Timecard rows processed, by outcome.",
		}, []string{"status"}),
		flagged: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "flagged_employees",
			Help:      "Employees flagged in the last run, by category.",
		}, []string{"category"}),
		files: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "input_files_total",
			Help:      "Workbooks loaded.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "analysis_duration_seconds",
			Help:      "Wall time of a full run from load to report.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished.",
		}),
	}

	m.registry.MustRegister(m.rows, m.flagged, m.files, m.duration, m.lastRun)
	return m
}

// Registry exposes the underlying registry
func (m *AnalysisMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordFiles counts loaded workbooks
func (m *AnalysisMetrics) RecordFiles(n int) {
	m.files.Add(float64(n))
}

// RecordResult records row outcomes and flagged counts from a finished scan
func (m *AnalysisMetrics) RecordResult(result *domain.AnalysisResult) {
	m.rows.WithLabelValues("analyzed").Add(float64(result.Stats.RowsAnalyzed))
	m.rows.WithLabelValues("skipped").Add(float64(result.Stats.RowsSkipped))
	for _, c := range domain.Categories {
		m.flagged.WithLabelValues(string(c)).Set(float64(result.ByCategory(c).Len()))
	}
}

// ObserveRun records the run duration and completion time
func (m *AnalysisMetrics) ObserveRun(elapsed time.Duration, finished time.Time) {
	m.duration.Observe(elapsed.Seconds())
	m.lastRun.Set(float64(finished.Unix()))
}

// WriteTextfile writes the registry in text exposition format to path
func (m *AnalysisMetrics) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
