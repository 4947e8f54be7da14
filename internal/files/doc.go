// Package files locates the timecard workbooks a run should read.
//
// Discovery lists .xlsx workbooks in a directory in name order, skipping
// Office lock files, and ResolveInputs merges explicit paths, a directory
// scan and the default workbook into the final input list.
//
// Example usage:
//
//	discovery := files.NewDiscovery("")
//	inputs, err := discovery.ResolveInputs(args, "exports/2024-03", "Assignment_Timecard.xlsx")
package files
