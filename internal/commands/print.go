package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/tech-hub161/samity/internal/report"
)

// printTable renders a table for the terminal. CSV output goes through
// report.WriteCSV instead.
func printTable(w io.Writer, t report.Table) {
	if t.Title != "" {
		fmt.Fprintln(w, t.Title)
		fmt.Fprintln(w, strings.Repeat("-", len(t.Title)))
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Columns, "\t"))
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if len(t.Footer) > 0 {
		fmt.Fprintln(tw, strings.Join(t.Footer, "\t"))
	}
	tw.Flush()
}
