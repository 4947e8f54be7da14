package dataprocessing

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	millisPerDay = 24 * 60 * 60 * 1000

	// maxTimestampMillis bounds converted instants to ±100,000,000 days
	// around the Unix epoch, the range spreadsheet tools accept as a date.
	maxTimestampMillis = 8.64e15
)

// ExcelEpoch is the instant of date serial 0 (1899-12-30 00:00). Serials
// carry no zone, so they are interpreted as UTC wall time.
var ExcelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var excelEpochMillis = ExcelEpoch.UnixMilli()

var (
	// leadingNumber matches the longest decimal literal at the start of a string
	leadingNumber = regexp.MustCompile(`^[+-]?(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[eE][+-]?[0-9]+)?`)

	// decimalNumber matches a complete decimal literal
	decimalNumber = regexp.MustCompile(`^[+-]?(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[eE][+-]?[0-9]+)?$`)
)

// SerialToTime converts a spreadsheet date serial (days since ExcelEpoch,
// fraction = time of day) to a timestamp, rounded to the nearest
// millisecond. ok is false for NaN, infinities and out-of-range values.
func SerialToTime(serial float64) (t time.Time, ok bool) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) {
		return time.Time{}, false
	}
	offset := math.Round(serial * millisPerDay)
	if math.Abs(float64(excelEpochMillis)+offset) > maxTimestampMillis {
		return time.Time{}, false
	}
	return time.UnixMilli(excelEpochMillis + int64(offset)).UTC(), true
}

// ParseSerial parses raw cell text as a date serial and converts it.
// Leading whitespace is ignored and the longest leading decimal number is
// used, so "45292.375abc" and "45292,5" read as 45292.375 and 45292. Text
// that does not start with a number yields ok == false.
func ParseSerial(raw string) (t time.Time, ok bool) {
	prefix := leadingNumber.FindString(strings.TrimSpace(raw))
	if prefix == "" {
		return time.Time{}, false
	}
	serial, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return time.Time{}, false
	}
	return SerialToTime(serial)
}

// CalendarDay truncates t to midnight of its UTC calendar date.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsNextDay reports whether day is exactly one calendar day after prev.
// Both arguments are expected to come from CalendarDay.
func IsNextDay(prev, day time.Time) bool {
	return day.Sub(prev) == 24*time.Hour
}

// ParseShiftMinutes parses an "H:MM" duration into minutes. Parts after the
// minutes (such as seconds) are ignored. Each part is trimmed, may be a
// decimal ("15.5:00" is 930) and counts as zero when empty ("15:" is 900).
// ok is false when there is no minute part or a part is not a number.
func ParseShiftMinutes(text string) (minutes float64, ok bool) {
	parts := strings.Split(text, ":")
	if len(parts) < 2 {
		return 0, false
	}
	hours, ok := parseDurationPart(parts[0])
	if !ok {
		return 0, false
	}
	mins, ok := parseDurationPart(parts[1])
	if !ok {
		return 0, false
	}
	return hours*60 + mins, true
}

func parseDurationPart(part string) (float64, bool) {
	part = strings.TrimSpace(part)
	if part == "" {
		return 0, true
	}
	if !decimalNumber.MatchString(part) {
		return 0, false
	}
	v, err := strconv.ParseFloat(part, 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
