package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"timecardcli/pkg/contracts/domain"
)

// TextReport writes the plain-text report file and, optionally, echoes the
// flagged employees to a console writer.
type TextReport struct {
	path    string
	console io.Writer
	logger  *slog.Logger
}

// NewTextReport creates a text report writing to path. A nil console disables
// console output.
func NewTextReport(path string, console io.Writer, logger *slog.Logger) *TextReport {
	if logger == nil {
		logger = slog.Default()
	}
	return &TextReport{path: path, console: console, logger: logger}
}

// Path returns the report file location
func (r *TextReport) Path() string {
	return r.path
}

// Write replaces the report file with the rendered result. The file is
// written to a temporary sibling and renamed, so readers never see a partial
// report.
func (r *TextReport) Write(result *domain.AnalysisResult) error {
	if err := writeFileAtomic(r.path, []byte(FormatReport(result))); err != nil {
		return err
	}

	r.logger.Info("Report written",
		slog.String("path", r.path),
		slog.Int("consecutive_days", result.ConsecutiveDays.Len()),
		slog.Int("short_rest_gap", result.ShortRestGap.Len()),
		slog.Int("long_shift", result.LongShift.Len()))

	if r.console == nil {
		return nil
	}
	if _, err := fmt.Fprintf(r.console, "Results written to %s\n", r.path); err != nil {
		return fmt.Errorf("failed to write console report: %w", err)
	}
	if err := writeConsoleReport(r.console, result); err != nil {
		return fmt.Errorf("failed to write console report: %w", err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
