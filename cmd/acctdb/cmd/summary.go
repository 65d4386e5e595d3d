package cmd

import (
	"io"

	"github.com/jedib0t/go-pretty/table"
	"github.com/jedib0t/go-pretty/text"

	"github.com/G-Research/acctdb/internal/acctdb"
)

func printSummary(out io.Writer, summary *acctdb.Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault

	t.AppendHeader(table.Row{"file", "lines", "comments", "skipped", "filtered", "loaded"})
	for _, f := range summary.Files {
		t.AppendRow(table.Row{f.Path, f.Lines, f.Comments, f.Skipped, f.Filtered, f.Loaded})
	}
	t.AppendFooter(table.Row{
		summary.State.String(),
		summary.LinesRead(),
		summary.Comments(),
		summary.Skipped(),
		summary.Filtered(),
		summary.Loaded(),
	})
	t.Render()
}
