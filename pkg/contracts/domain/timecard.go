package domain

// TimecardRow is one shift record as read from a timecard export.
// TimeOut and Time hold the raw date-serial text of the cell (for example
// "45292.375"); HoursText is nil when the duration cell is absent or not text.
type TimecardRow struct {
	EmployeeName string  `json:"employee_name"`
	TimeOut      string  `json:"time_out"`
	Time         string  `json:"time"`
	HoursText    *string `json:"hours_text,omitempty"`

	// Provenance, used only for diagnostics
	SourceFile string `json:"source_file,omitempty"`
	SourceRow  int    `json:"source_row,omitempty"`
}

// Hours returns a pointer to s, for building rows with a textual duration.
func Hours(s string) *string {
	return &s
}

// Category identifies one of the three compliance flags
type Category string

const (
	CategoryConsecutiveDays Category = "consecutiveDays"
	CategoryShortRestGap    Category = "shiftsLessThan10Hours"
	CategoryLongShift       Category = "moreThan14Hours"
)

// Categories lists the flags in report order.
var Categories = []Category{
	CategoryConsecutiveDays,
	CategoryShortRestGap,
	CategoryLongShift,
}

// EmployeeSet is a set of employee identifiers that remembers the order in
// which members were first added. The zero value is an empty set.
type EmployeeSet struct {
	order []string
	index map[string]struct{}
}

// NewEmployeeSet creates a set holding names.
func NewEmployeeSet(names ...string) *EmployeeSet {
	s := &EmployeeSet{}
	for _, name := range names {
		s.Add(name)
	}
	return s
}

// Add inserts name and reports whether it was not already present.
func (s *EmployeeSet) Add(name string) bool {
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[name]; ok {
		return false
	}
	s.index[name] = struct{}{}
	s.order = append(s.order, name)
	return true
}

// Contains reports whether name is a member.
func (s *EmployeeSet) Contains(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Len returns the number of members.
func (s *EmployeeSet) Len() int {
	return len(s.order)
}

// Names returns the members in insertion order.
func (s *EmployeeSet) Names() []string {
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}

// AnalysisStats summarises one scan
type AnalysisStats struct {
	RowsTotal    int `json:"rows_total"`
	RowsAnalyzed int `json:"rows_analyzed"`
	RowsSkipped  int `json:"rows_skipped"`
	Employees    int `json:"employees"`
}

// SkippedRow records a row left out of the scan because a date did not convert.
type SkippedRow struct {
	Index      int    `json:"index"`
	Employee   string `json:"employee"`
	Field      string `json:"field"`
	Reason     string `json:"reason"`
	SourceFile string `json:"source_file,omitempty"`
	SourceRow  int    `json:"source_row,omitempty"`
}

// AnalysisResult holds the employees flagged in each category.
type AnalysisResult struct {
	ConsecutiveDays EmployeeSet
	ShortRestGap    EmployeeSet
	LongShift       EmployeeSet

	Stats   AnalysisStats
	Skipped []SkippedRow
}

// ByCategory returns the set for c, or nil for an unknown category.
func (r *AnalysisResult) ByCategory(c Category) *EmployeeSet {
	switch c {
	case CategoryConsecutiveDays:
		return &r.ConsecutiveDays
	case CategoryShortRestGap:
		return &r.ShortRestGap
	case CategoryLongShift:
		return &r.LongShift
	}
	return nil
}

// FlaggedCount returns the total number of set memberships across categories.
func (r *AnalysisResult) FlaggedCount() int {
	return r.ConsecutiveDays.Len() + r.ShortRestGap.Len() + r.LongShift.Len()
}
