package exporter

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"timecardcli/pkg/contracts/domain"
)

// consoleSeparator frames each category in console output
var consoleSeparator = strings.Repeat("-", 51)

// FormatReport renders result in the report file layout: one block per
// category in report order, "Category: <name>" followed by one employee per
// line, blocks separated by a blank line. There is no trailing newline.
func FormatReport(result *domain.AnalysisResult) string {
	blocks := make([]string, 0, len(domain.Categories))
	for _, category := range domain.Categories {
		blocks = append(blocks, formatCategory(category, result.ByCategory(category).Names()))
	}
	return strings.Join(blocks, "\n\n")
}

func formatCategory(category domain.Category, employees []string) string {
	return fmt.Sprintf("Category: %s\n%s", category, strings.Join(employees, "\n"))
}

// writeConsoleReport prints each category between separator lines
func writeConsoleReport(w io.Writer, result *domain.AnalysisResult) error {
	var b strings.Builder
	b.WriteString(consoleSeparator + "\n")
	for _, category := range domain.Categories {
		fmt.Fprintf(&b, "Category: %s\n", category)
		for _, name := range result.ByCategory(category).Names() {
			b.WriteString(name + "\n")
		}
		b.WriteString(consoleSeparator + "\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// FormatRuns writes a table of recorded runs, newest first as given
func FormatRuns(w io.Writer, runs []RunRecord, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSTARTED\tDURATION\tROWS\tSKIPPED\tEMPLOYEES\tFLAGGED\tINPUTS")
	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			shortRunID(run.RunID),
			humanize.RelTime(run.StartedAt, now, "ago", "from now"),
			run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond),
			humanize.Comma(int64(run.Stats.RowsTotal)),
			humanize.Comma(int64(run.Stats.RowsSkipped)),
			humanize.Comma(int64(run.Stats.Employees)),
			formatFlagCounts(run.Flagged),
			strings.Join(run.Inputs, ","))
	}
	return tw.Flush()
}

// formatFlagCounts summarises membership per category, e.g. "3/0/1"
func formatFlagCounts(flagged map[domain.Category][]string) string {
	counts := make([]string, len(domain.Categories))
	for i, category := range domain.Categories {
		counts[i] = fmt.Sprintf("%d", len(flagged[category]))
	}
	return strings.Join(counts, "/")
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
