// Package config provides configuration loading for the timecard analyzer.
//
// # Configuration Sources
//
// Configuration is assembled from the following sources, later sources
// overriding earlier ones:
//
//	1. Built-in defaults (see Default)
//	2. A YAML file: the --config flag, TIMECARD_CONFIG, timecard.yaml or configs/timecard.yaml
//	3. Environment variables, after a .env file in the working directory is applied
//
// # Environment Variables
//
// All variables use the TIMECARD_ prefix followed by the section name:
//
//	TIMECARD_LOGGING_LEVEL=debug
//	TIMECARD_INPUT_SHEET=Timecards
//	TIMECARD_ANALYSIS_MAX_REST_GAP=10h
//	TIMECARD_OUTPUT_HISTORY_DB=data/history.db
//
// # Validation
//
// Load validates the result with go-playground/validator struct tags. The rest
// window must be non-empty (MaxRestGap > MinRestGap) and a consecutive-day run
// needs at least two days.
package config
