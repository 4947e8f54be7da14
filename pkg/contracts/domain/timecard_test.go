package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmployeeSet(t *testing.T) {
	tests := []struct {
		name      string
		add       []string
		wantNames []string
	}{
		{name: "empty", add: nil, wantNames: []string{}},
		{name: "insertion order", add: []string{"Carol", "Alice", "Bob"}, wantNames: []string{"Carol", "Alice", "Bob"}},
		{name: "duplicates kept once", add: []string{"Alice", "Bob", "Alice", "Bob"}, wantNames: []string{"Alice", "Bob"}},
		{name: "empty name is a member", add: []string{""}, wantNames: []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s EmployeeSet
			for _, name := range tt.add {
				s.Add(name)
			}
			assert.Equal(t, tt.wantNames, s.Names())
			assert.Equal(t, len(tt.wantNames), s.Len())
			for _, name := range tt.wantNames {
				assert.True(t, s.Contains(name))
			}
		})
	}
}

func TestEmployeeSetAddReportsNewMembers(t *testing.T) {
	s := NewEmployeeSet("Alice")
	assert.False(t, s.Add("Alice"))
	assert.True(t, s.Add("Bob"))
	assert.False(t, s.Contains("Carol"))
}

func TestEmployeeSetNamesIsACopy(t *testing.T) {
	s := NewEmployeeSet("Alice", "Bob")
	names := s.Names()
	names[0] = "Mallory"
	assert.Equal(t, []string{"Alice", "Bob"}, s.Names())
}

func TestAnalysisResultByCategory(t *testing.T) {
	var r AnalysisResult
	r.ConsecutiveDays.Add("A")
	r.ShortRestGap.Add("B")
	r.ShortRestGap.Add("C")
	r.LongShift.Add("A")

	for _, c := range Categories {
		require.NotNil(t, r.ByCategory(c), c)
	}
	assert.Equal(t, []string{"B", "C"}, r.ByCategory(CategoryShortRestGap).Names())
	assert.Nil(t, r.ByCategory("unknown"))
	assert.Equal(t, 4, r.FlaggedCount())
}

func TestCategoriesReportOrder(t *testing.T) {
	assert.Equal(t, []Category{"consecutiveDays", "shiftsLessThan10Hours", "moreThan14Hours"}, Categories)
}
