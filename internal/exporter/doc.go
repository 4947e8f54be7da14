// Package exporter writes analysis results out of the process.
//
// This package contains three sinks:
//
// TextReport: the plain-text report file ("Category: <name>" blocks), plus
// an optional console echo framed by separator lines.
//
// CSVWriter: core CSV writing with headers and a UTF-8 BOM for Excel
// compatibility; WriteFlags emits one category,employee row per flag.
//
// HistoryStore: an SQLite log of past runs, their statistics and flagged
// employees, listed by the history command.
//
// Example usage:
//
//	report := exporter.NewTextReport("output.txt", os.Stdout, logger)
//	if err := report.Write(result); err != nil {
//	    return err
//	}
//
//	store, err := exporter.OpenHistoryStore(ctx, "data/history.db", logger)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//	err = store.Record(ctx, exporter.NewRunRecord(runID, started, time.Now(), inputs, result))
package exporter
