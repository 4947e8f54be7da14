package dataprocessing

import (
	"time"

	"timecardcli/internal/config"
	"timecardcli/pkg/contracts/domain"
)

// Processor defines the interface for row preparation steps run before the
// analyzer
type Processor interface {
	// Process takes rows in source order and returns the rows to analyze
	Process(rows []domain.TimecardRow) []domain.TimecardRow
}

// AnalyzerOptions configures the compliance thresholds
type AnalyzerOptions struct {
	// ConsecutiveDays is the run length that flags an employee
	ConsecutiveDays int

	// A gap between consecutive Time Out values strictly inside
	// (MinRestGap, MaxRestGap) is a short rest. When MaxRestGap is unset
	// both bounds take their defaults; a zero MinRestGap alongside a set
	// MaxRestGap means any positive gap below MaxRestGap counts.
	MinRestGap time.Duration
	MaxRestGap time.Duration

	// MaxShift is the longest allowed single shift
	MaxShift time.Duration
}

// DefaultAnalyzerOptions returns the standard thresholds: 7 days, a 1h–10h
// rest window and 14h shifts.
func DefaultAnalyzerOptions() AnalyzerOptions {
	return AnalyzerOptions{
		ConsecutiveDays: config.DefaultConsecutiveDays,
		MinRestGap:      config.DefaultMinRestGap,
		MaxRestGap:      config.DefaultMaxRestGap,
		MaxShift:        config.DefaultMaxShift,
	}
}

// AnalyzerOptionsFromConfig maps the analysis section of the configuration
func AnalyzerOptionsFromConfig(cfg config.AnalysisConfig) AnalyzerOptions {
	return AnalyzerOptions{
		ConsecutiveDays: cfg.ConsecutiveDays,
		MinRestGap:      cfg.MinRestGap,
		MaxRestGap:      cfg.MaxRestGap,
		MaxShift:        cfg.MaxShift,
	}
}

// withDefaults fills unset thresholds. The rest window is defaulted as a
// pair: a zero MinRestGap is kept only when MaxRestGap is set.
func (o AnalyzerOptions) withDefaults() AnalyzerOptions {
	def := DefaultAnalyzerOptions()
	if o.ConsecutiveDays <= 0 {
		o.ConsecutiveDays = def.ConsecutiveDays
	}
	if o.MaxRestGap <= 0 {
		o.MaxRestGap = def.MaxRestGap
		if o.MinRestGap == 0 {
			o.MinRestGap = def.MinRestGap
		}
	}
	if o.MaxShift <= 0 {
		o.MaxShift = def.MaxShift
	}
	return o
}

// ParseOptions configures how a workbook is read
type ParseOptions struct {
	// Sheet to read; empty selects the first sheet
	Sheet string

	// Header names of the consumed columns, matched case-insensitively
	EmployeeColumn string
	TimeOutColumn  string
	TimeColumn     string
	HoursColumn    string
}

// DefaultParseOptions returns the column names of the standard payroll export
func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		EmployeeColumn: config.DefaultEmployeeColumn,
		TimeOutColumn:  config.DefaultTimeOutColumn,
		TimeColumn:     config.DefaultTimeColumn,
		HoursColumn:    config.DefaultHoursColumn,
	}
}

// ParseOptionsFromConfig maps the input section of the configuration
func ParseOptionsFromConfig(cfg config.InputConfig) ParseOptions {
	return ParseOptions{
		Sheet:          cfg.Sheet,
		EmployeeColumn: cfg.EmployeeColumn,
		TimeOutColumn:  cfg.TimeOutColumn,
		TimeColumn:     cfg.TimeColumn,
		HoursColumn:    cfg.HoursColumn,
	}
}
