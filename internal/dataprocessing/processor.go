package dataprocessing

import (
	"cmp"
	"log/slog"
	"math"
	"slices"

	"timecardcli/pkg/contracts/domain"
)

// GroupingProcessor establishes the order ShiftAnalyzer relies on: rows of one
// employee contiguous, chronological by Time within the employee.
type GroupingProcessor struct {
	logger *slog.Logger
}

// NewGroupingProcessor creates a grouping processor
func NewGroupingProcessor(logger *slog.Logger) *GroupingProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &GroupingProcessor{logger: logger}
}

type groupKey struct {
	group int     // first-appearance rank of the employee
	at    float64 // Unix millis of Time
	index int
}

// Process returns a reordered copy of rows. Employees keep the order in which
// they first appear; the sort is stable, so rows with equal Time keep their
// source order. A row whose Time does not parse sorts as if it had the Time of
// the preceding parseable row of the same employee, so it stays next to it.
func (p *GroupingProcessor) Process(rows []domain.TimecardRow) []domain.TimecardRow {
	rank := make(map[string]int)
	lastAt := make(map[string]float64)
	keys := make([]groupKey, len(rows))

	for i, row := range rows {
		name := row.EmployeeName
		if _, ok := rank[name]; !ok {
			rank[name] = len(rank)
		}
		at := math.Inf(-1)
		if last, ok := lastAt[name]; ok {
			at = last
		}
		if t, ok := ParseSerial(row.Time); ok {
			at = float64(t.UnixMilli())
			lastAt[name] = at
		}
		keys[i] = groupKey{group: rank[name], at: at, index: i}
	}

	slices.SortStableFunc(keys, func(a, b groupKey) int {
		if c := cmp.Compare(a.group, b.group); c != 0 {
			return c
		}
		return cmp.Compare(a.at, b.at)
	})

	out := make([]domain.TimecardRow, len(rows))
	moved := 0
	for i, k := range keys {
		out[i] = rows[k.index]
		if k.index != i {
			moved++
		}
	}

	p.logger.Debug("Rows grouped by employee",
		slog.Int("rows", len(rows)),
		slog.Int("employees", len(rank)),
		slog.Int("moved", moved))

	return out
}
