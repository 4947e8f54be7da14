package dataprocessing

import (
	"context"
	"log/slog"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timecardcli/internal/shared/testutil"
	"timecardcli/pkg/contracts/domain"
)

var day0 = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

func serialText(t time.Time) string {
	return strconv.FormatFloat(testutil.Serial(t), 'f', -1, 64)
}

// shift builds a row starting at start and ending dur later
func shift(employee string, start time.Time, dur time.Duration, hours *string) domain.TimecardRow {
	return domain.TimecardRow{
		EmployeeName: employee,
		Time:         serialText(start),
		TimeOut:      serialText(start.Add(dur)),
		HoursText:    hours,
	}
}

// daily builds one 8h shift per listed day offset from day0
func daily(employee string, offsets ...int) []domain.TimecardRow {
	rows := make([]domain.TimecardRow, 0, len(offsets))
	for _, d := range offsets {
		rows = append(rows, shift(employee, day0.AddDate(0, 0, d), 8*time.Hour, nil))
	}
	return rows
}

func concat(parts ...[]domain.TimecardRow) []domain.TimecardRow {
	var out []domain.TimecardRow
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func analyze(t *testing.T, opts AnalyzerOptions, rows []domain.TimecardRow) *domain.AnalysisResult {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	return NewShiftAnalyzer(opts, logger).Analyze(context.Background(), rows)
}

func TestAnalyzeConsecutiveDays(t *testing.T) {
	tests := []struct {
		name string
		rows []domain.TimecardRow
		want []string
	}{
		{
			name: "seven consecutive days",
			rows: daily("A", 0, 1, 2, 3, 4, 5, 6),
			want: []string{"A"},
		},
		{
			name: "six consecutive days",
			rows: daily("A", 0, 1, 2, 3, 4, 5),
			want: nil,
		},
		{
			name: "gap resets the run",
			rows: daily("A", 0, 1, 2, 4, 5, 6, 7),
		},
		{
			name: "later sub-run reaches seven",
			rows: daily("A", 0, 1, 2, 4, 5, 6, 7, 8, 9, 10),
			want: []string{"A"},
		},
		{
			name: "several rows on one day do not extend the run",
			rows: concat(daily("A", 0, 0, 1, 2, 2, 3, 4), daily("A", 5, 5)),
		},
		{
			name: "several rows on one day do not break the run",
			rows: daily("A", 0, 1, 1, 2, 3, 3, 4, 5, 6),
			want: []string{"A"},
		},
		{
			name: "employee change resets the run",
			rows: concat(daily("A", 0, 1, 2, 3), daily("B", 4, 5, 6)),
		},
		{
			name: "returning employee starts over",
			rows: concat(daily("A", 0, 1, 2, 3), daily("B", 0), daily("A", 4, 5, 6)),
		},
		{
			name: "run across month end",
			rows: daily("A", 28, 29, 30, 31, 32, 33, 34),
			want: []string{"A"},
		},
		{
			name: "members in flag order",
			rows: concat(daily("B", 0, 1, 2, 3, 4, 5, 6), daily("A", 0, 1, 2, 3, 4, 5, 6, 7)),
			want: []string{"B", "A"},
		},
		{
			name: "empty employee name is an ordinary employee",
			rows: daily("", 0, 1, 2, 3, 4, 5, 6),
			want: []string{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := analyze(t, DefaultAnalyzerOptions(), tt.rows)
			if tt.want == nil {
				assert.Zero(t, result.ConsecutiveDays.Len())
				return
			}
			assert.Equal(t, tt.want, result.ConsecutiveDays.Names())
		})
	}
}

func TestAnalyzeRestGap(t *testing.T) {
	tests := []struct {
		name    string
		gap     time.Duration
		flagged bool
	}{
		{"exactly one hour", time.Hour, false},
		{"just over one hour", time.Hour + time.Millisecond, true},
		{"five hours", 5 * time.Hour, true},
		{"just under ten hours", 10*time.Hour - time.Millisecond, true},
		{"exactly ten hours", 10 * time.Hour, false},
		{"a day", 24 * time.Hour, false},
		{"negative", -5 * time.Hour, false},
		{"zero", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := shift("A", day0, 2*time.Hour, nil)
			secondOut := day0.Add(2 * time.Hour).Add(tt.gap)
			second := domain.TimecardRow{
				EmployeeName: "A",
				Time:         serialText(day0),
				TimeOut:      serialText(secondOut),
			}

			result := analyze(t, DefaultAnalyzerOptions(), []domain.TimecardRow{first, second})
			assert.Equal(t, tt.flagged, result.ShortRestGap.Contains("A"))
		})
	}
}

func TestAnalyzeRestGapOnlyWithinEmployee(t *testing.T) {
	rows := []domain.TimecardRow{
		shift("A", day0, 8*time.Hour, nil),
		shift("B", day0.Add(2*time.Hour), 8*time.Hour, nil),
		shift("A", day0.Add(4*time.Hour), 8*time.Hour, nil),
	}

	result := analyze(t, DefaultAnalyzerOptions(), rows)
	assert.Zero(t, result.ShortRestGap.Len())
}

func TestAnalyzeLongShift(t *testing.T) {
	tests := []struct {
		name    string
		hours   *string
		flagged bool
	}{
		{"fourteen hours", domain.Hours("14:00"), false},
		{"fourteen hours one minute", domain.Hours("14:01"), true},
		{"with seconds", domain.Hours("15:00:00"), true},
		{"empty minutes", domain.Hours("15:"), true},
		{"decimal hours", domain.Hours("15.5:00"), true},
		{"decimal minutes", domain.Hours("14:01.5"), true},
		{"decimal minutes at limit", domain.Hours("14:00.0"), false},
		{"short shift", domain.Hours("8:30"), false},
		{"malformed", domain.Hours("fourteen"), false},
		{"no minutes", domain.Hours("15"), false},
		{"not text", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := analyze(t, DefaultAnalyzerOptions(), []domain.TimecardRow{shift("A", day0, 8*time.Hour, tt.hours)})
			assert.Equal(t, tt.flagged, result.LongShift.Contains("A"))
		})
	}
}

func TestAnalyzeMalformedDurationIsLogged(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	rows := []domain.TimecardRow{shift("A", day0, 8*time.Hour, domain.Hours("n/a"))}

	result := NewShiftAnalyzer(DefaultAnalyzerOptions(), logger).Analyze(context.Background(), rows)

	assert.Zero(t, result.LongShift.Len())
	assert.Equal(t, 1, result.Stats.RowsAnalyzed)
	testutil.AssertLogContains(t, handler, slog.LevelDebug, "Long-shift check skipped")
}

func TestAnalyzeSkipsInvalidDates(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)

	badTime := shift("B", day0, 8*time.Hour, domain.Hours("20:00"))
	badTime.Time = "not a date"
	badTime.SourceFile = "week1.xlsx"
	badTime.SourceRow = 5

	badTimeOut := shift("C", day0, 8*time.Hour, domain.Hours("20:00"))
	badTimeOut.TimeOut = ""

	rows := concat(
		daily("A", 0, 1, 2),
		[]domain.TimecardRow{badTime, badTimeOut},
		daily("A", 3, 4, 5, 6),
	)

	result := NewShiftAnalyzer(DefaultAnalyzerOptions(), logger).Analyze(context.Background(), rows)

	assert.Equal(t, []string{"A"}, result.ConsecutiveDays.Names(), "skipped rows must not reset the run")
	assert.False(t, result.LongShift.Contains("B"))
	assert.False(t, result.LongShift.Contains("C"))
	assert.Zero(t, result.ShortRestGap.Len())

	assert.Equal(t, domain.AnalysisStats{RowsTotal: 9, RowsAnalyzed: 7, RowsSkipped: 2, Employees: 1}, result.Stats)
	require.Len(t, result.Skipped, 2)
	assert.Equal(t, domain.SkippedRow{
		Index:      3,
		Employee:   "B",
		Field:      "Time",
		Reason:     "[INVALID_ROW_DATE] invalid date for employee B",
		SourceFile: "week1.xlsx",
		SourceRow:  5,
	}, result.Skipped[0])
	assert.Equal(t, "Time Out", result.Skipped[1].Field)
	assert.Equal(t, "C", result.Skipped[1].Employee)

	warnings := handler.GetRecordsByLevel(slog.LevelWarn)
	require.Len(t, warnings, 2)
	assert.Equal(t, "Invalid date for employee, row skipped", warnings[0].Message)
	assert.Equal(t, "B", warnings[0].Attrs["employee"])
	assert.Equal(t, "not a date", warnings[0].Attrs["value"])
	assert.Equal(t, "week1.xlsx", warnings[0].Attrs["file"])
	assert.Equal(t, "C", warnings[1].Attrs["employee"])
	assert.NotContains(t, warnings[1].Attrs, "file")
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	rows := concat(
		daily("A", 0, 1, 2, 3, 4, 5, 6),
		[]domain.TimecardRow{
			shift("B", day0, 15*time.Hour, domain.Hours("15:00")),
			shift("B", day0.Add(16*time.Hour), 8*time.Hour, nil),
		},
	)
	analyzer := NewShiftAnalyzer(DefaultAnalyzerOptions(), nil)

	first := analyzer.Analyze(context.Background(), rows)
	second := analyzer.Analyze(context.Background(), rows)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"A"}, first.ConsecutiveDays.Names())
	assert.Equal(t, []string{"B"}, first.ShortRestGap.Names())
	assert.Equal(t, []string{"B"}, first.LongShift.Names())
}

func TestAnalyzeTwoDayScenario(t *testing.T) {
	rows := []domain.TimecardRow{
		shift("A", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 9*time.Hour, domain.Hours("9:30")),
		shift("A", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), 9*time.Hour, domain.Hours("9:30")),
	}

	result := analyze(t, DefaultAnalyzerOptions(), rows)

	assert.Zero(t, result.ConsecutiveDays.Len())
	assert.Zero(t, result.ShortRestGap.Len())
	assert.Zero(t, result.LongShift.Len())
	assert.Equal(t, 1, result.Stats.Employees)
}

func TestAnalyzeEmptyInput(t *testing.T) {
	result := analyze(t, DefaultAnalyzerOptions(), nil)

	assert.Zero(t, result.FlaggedCount())
	assert.Equal(t, domain.AnalysisStats{}, result.Stats)
	assert.Empty(t, result.Skipped)
}

func TestAnalyzeCustomThresholds(t *testing.T) {
	opts := AnalyzerOptions{
		ConsecutiveDays: 3,
		MinRestGap:      0,
		MaxRestGap:      12 * time.Hour,
		MaxShift:        8 * time.Hour,
	}
	rows := []domain.TimecardRow{
		shift("A", day0, 8*time.Hour, domain.Hours("8:01")),
		shift("A", day0.AddDate(0, 0, 1), 8*time.Hour, domain.Hours("8:00")),
		shift("A", day0.AddDate(0, 0, 2), 8*time.Hour, nil),
		shift("B", day0, 8*time.Hour, nil),
		shift("B", day0.Add(11*time.Hour), 8*time.Hour, nil),
	}

	analyzer := NewShiftAnalyzer(opts, nil)
	result := analyzer.Analyze(context.Background(), rows)

	assert.Equal(t, opts, analyzer.Options())
	assert.Equal(t, []string{"A"}, result.ConsecutiveDays.Names())
	assert.Equal(t, []string{"A"}, result.LongShift.Names())
	assert.Equal(t, []string{"B"}, result.ShortRestGap.Names(), "11h gap is short under a 12h window; A's 24h gaps are not")
}

func TestNewShiftAnalyzerDefaults(t *testing.T) {
	tests := []struct {
		name string
		in   AnalyzerOptions
		want AnalyzerOptions
	}{
		{"zero value", AnalyzerOptions{}, DefaultAnalyzerOptions()},
		{
			name: "partial",
			in:   AnalyzerOptions{ConsecutiveDays: 5},
			want: AnalyzerOptions{ConsecutiveDays: 5, MinRestGap: time.Hour, MaxRestGap: 10 * time.Hour, MaxShift: 14 * time.Hour},
		},
		{
			name: "explicit rest window keeps zero minimum",
			in:   AnalyzerOptions{MaxRestGap: 8 * time.Hour},
			want: AnalyzerOptions{ConsecutiveDays: 7, MaxRestGap: 8 * time.Hour, MaxShift: 14 * time.Hour},
		},
		{
			name: "minimum without maximum",
			in:   AnalyzerOptions{MinRestGap: 2 * time.Hour},
			want: AnalyzerOptions{ConsecutiveDays: 7, MinRestGap: 2 * time.Hour, MaxRestGap: 10 * time.Hour, MaxShift: 14 * time.Hour},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewShiftAnalyzer(tt.in, nil).Options())
		})
	}
}
