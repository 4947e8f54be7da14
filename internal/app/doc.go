// Package app wires a timecard analysis run together.
//
// # Initialization Flow
//
// The command layer builds the pieces in this order:
//
//	1. Load configuration from defaults, a YAML file and the environment
//	2. Initialize logging
//	3. NewApplication sets up tracing, metrics, validation and discovery
//
// # Analysis Flow
//
// Analyze runs one pipeline under a fresh run ID:
//
//	inputs → validate → load (concurrent) → [group] → scan → report, CSV, history → metrics
//
// Every stage runs in its own span. A load failure stops the run before any
// output exists.
//
// # Usage
//
//	application, err := app.NewApplication(cfg, logger, os.Stdout)
//	if err != nil {
//	    return err
//	}
//	defer application.Shutdown(ctx)
//	summary, err := application.Analyze(ctx, app.AnalyzeRequest{Files: args})
package app
