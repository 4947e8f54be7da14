// Package dataprocessing turns timecard workbooks into compliance flags.
//
// # Architecture
//
// The package has three stages:
//
// 1. Parser: reads timecard workbooks (ParseFile, LoadFiles) into domain.TimecardRow values
// 2. Processor: optional row preparation, such as GroupingProcessor
// 3. Analyzer: ShiftAnalyzer folds the rows into an AnalysisResult
//
// # Usage
//
//	rows, err := dataprocessing.LoadFiles(ctx, paths, dataprocessing.DefaultParseOptions())
//	if err != nil {
//	    return err
//	}
//	analyzer := dataprocessing.NewShiftAnalyzer(dataprocessing.DefaultAnalyzerOptions(), logger)
//	result := analyzer.Analyze(ctx, rows)
//
// # Data Flow
//
//	Workbook → Parser → TimecardRows → Processor → ShiftAnalyzer → AnalysisResult
//
// # Row Order
//
// ShiftAnalyzer trusts its input order: rows of one employee must be
// contiguous and chronological. Workbooks exported sorted by employee and
// time need no preparation; anything else should pass through
// GroupingProcessor first.
//
// # Dates
//
// Time and Time Out cells hold spreadsheet date serials, days since
// 1899-12-30 with the fraction as time of day, interpreted as UTC. A row
// whose dates do not convert is logged and skipped without affecting the
// running state.
package dataprocessing
