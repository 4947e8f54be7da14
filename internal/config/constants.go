package config

import (
	"time"

	"timecardcli/pkg/contracts"
)

// Application constants
const (
	// Application Info
	AppName    = "timecard"
	AppVersion = contracts.Version

	// EnvPrefix namespaces every environment variable, e.g. TIMECARD_LOGGING_LEVEL
	EnvPrefix = "TIMECARD"

	// Input defaults, matching the payroll export headers
	DefaultInputFile      = "Assignment_Timecard.xlsx"
	DefaultEmployeeColumn = "Employee Name"
	DefaultTimeOutColumn  = "Time Out"
	DefaultTimeColumn     = "Time"
	DefaultHoursColumn    = "Timecard Hours (as Time)"

	// Compliance thresholds
	DefaultConsecutiveDays = 7
	DefaultMinRestGap      = 1 * time.Hour
	DefaultMaxRestGap      = 10 * time.Hour
	DefaultMaxShift        = 14 * time.Hour

	// Output
	DefaultOutputPath = "output.txt"

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogFile   = "logs/timecard.log"

	// Exit codes
	ExitOK        = 0
	ExitLoadError = 1
	ExitUsage     = 2
)
