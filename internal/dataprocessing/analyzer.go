package dataprocessing

import (
	"context"
	"log/slog"
	"time"

	apperrors "timecardcli/internal/errors"
	"timecardcli/pkg/contracts/domain"
)

// ShiftAnalyzer flags compliance conditions in one forward pass over timecard
// rows.
//
// Rows must arrive grouped by employee and, within an employee, in
// non-decreasing order of Time. The analyzer does not re-sort; out-of-order
// input silently produces wrong consecutive-day and rest-gap results. Use
// GroupingProcessor first when the source order cannot be trusted.
type ShiftAnalyzer struct {
	opts   AnalyzerOptions
	logger *slog.Logger
}

// NewShiftAnalyzer creates an analyzer. Zero-valued options fall back to the
// defaults; a nil logger uses slog.Default().
func NewShiftAnalyzer(opts AnalyzerOptions, logger *slog.Logger) *ShiftAnalyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ShiftAnalyzer{
		opts:   opts.withDefaults(),
		logger: logger,
	}
}

// Options returns the effective thresholds
func (a *ShiftAnalyzer) Options() AnalyzerOptions {
	return a.opts
}

// scanState is the running state of one scan. It is only updated by rows
// whose dates converted.
type scanState struct {
	seen     bool
	employee string
	day      time.Time
	timeOut  time.Time
	run      int
}

// Analyze scans rows and returns the employees flagged in each category.
// Rows whose Time or Time Out does not convert are logged and skipped.
// Analyze has no other side effects and returns the same result for the same
// input.
func (a *ShiftAnalyzer) Analyze(ctx context.Context, rows []domain.TimecardRow) *domain.AnalysisResult {
	result := &domain.AnalysisResult{}
	employees := make(map[string]struct{})
	maxShiftMinutes := a.opts.MaxShift.Minutes()

	var st scanState
	for i, row := range rows {
		result.Stats.RowsTotal++
		employee := row.EmployeeName

		timeOut, okOut := ParseSerial(row.TimeOut)
		shiftTime, okTime := ParseSerial(row.Time)
		if !okOut || !okTime {
			field, value := "Time Out", row.TimeOut
			if okOut {
				field, value = "Time", row.Time
			}
			a.skipRow(ctx, result, i, row, apperrors.NewInvalidRowDateError(employee, field, value))
			continue
		}

		result.Stats.RowsAnalyzed++
		employees[employee] = struct{}{}

		day := CalendarDay(shiftTime)
		sameEmployee := st.seen && st.employee == employee

		switch {
		case !sameEmployee:
			st.run = 1
		case !day.Equal(st.day):
			if IsNextDay(st.day, day) {
				st.run++
			} else {
				st.run = 1
			}
		}
		if st.run >= a.opts.ConsecutiveDays && result.ConsecutiveDays.Add(employee) {
			a.logger.DebugContext(ctx, "Consecutive-day run reached",
				slog.String("employee", employee),
				slog.Int("run", st.run),
				slog.String("day", day.Format(time.DateOnly)))
		}

		if sameEmployee {
			gap := timeOut.Sub(st.timeOut)
			if gap > a.opts.MinRestGap && gap < a.opts.MaxRestGap && result.ShortRestGap.Add(employee) {
				a.logger.DebugContext(ctx, "Short rest gap",
					slog.String("employee", employee),
					slog.Duration("gap", gap))
			}
		}

		if row.HoursText != nil {
			minutes, ok := ParseShiftMinutes(*row.HoursText)
			switch {
			case !ok:
				err := apperrors.NewMalformedDurationError(employee, *row.HoursText)
				a.logger.DebugContext(ctx, "Long-shift check skipped",
					slog.String("employee", employee),
					slog.Int("row", i),
					slog.String("error", err.Error()))
			case minutes > maxShiftMinutes:
				result.LongShift.Add(employee)
			}
		}

		st = scanState{
			seen:     true,
			employee: employee,
			day:      day,
			timeOut:  timeOut,
			run:      st.run,
		}
	}

	// The run at the last row is compared for equality only. It was already
	// checked with >= inside the loop, so this never adds a new member.
	if st.seen && st.run == a.opts.ConsecutiveDays {
		result.ConsecutiveDays.Add(st.employee)
	}

	result.Stats.Employees = len(employees)
	return result
}

func (a *ShiftAnalyzer) skipRow(ctx context.Context, result *domain.AnalysisResult, index int, row domain.TimecardRow, err *apperrors.AppError) {
	result.Stats.RowsSkipped++
	field, _ := err.Context["field"].(string)
	result.Skipped = append(result.Skipped, domain.SkippedRow{
		Index:      index,
		Employee:   row.EmployeeName,
		Field:      field,
		Reason:     err.Error(),
		SourceFile: row.SourceFile,
		SourceRow:  row.SourceRow,
	})

	attrs := []any{
		slog.String("employee", row.EmployeeName),
		slog.Int("row", index),
		slog.String("field", field),
		slog.Any("value", err.Context["value"]),
	}
	if row.SourceFile != "" {
		attrs = append(attrs, slog.String("file", row.SourceFile), slog.Int("sheet_row", row.SourceRow))
	}
	a.logger.WarnContext(ctx, "Invalid date for employee, row skipped", attrs...)
}
