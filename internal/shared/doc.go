// Package shared holds code used across the timecard packages that belongs to
// no single layer.
//
// # Test Utilities
//
// The testutil subpackage provides:
//
//   - BufferedSlogHandler and NewTestLogger, for asserting on log output
//   - WriteTimecardWorkbook and WriteWorkbook, which build .xlsx fixtures
//     in a test's temp directory
//   - Serial and At, which convert wall times to spreadsheet date serials
//
// Production code must not import testutil.
package shared
