package cmd

import (
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/shotsort/shotsort/pkg/categorize"
)

func renderSummary(s *categorize.Summary, dryRun bool) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	title := "Summary"
	if dryRun {
		title += " (Dry Run)"
	}
	tw.SetTitle(title)

	tw.AppendHeader(table.Row{"Step", "Count"})
	tw.AppendRows([]table.Row{
		{"Screenshots scanned", strconv.Itoa(s.Scanned)},
		{"Titles already cached", strconv.Itoa(s.CachedTitles)},
		{"Titles looked up", strconv.Itoa(s.Lookups)},
		{"Titles resolved", strconv.Itoa(s.Resolved)},
		{"Files moved", strconv.Itoa(s.Moved) + " (" + humanize.IBytes(s.MovedBytes) + ")"},
		{"Already in place", strconv.Itoa(s.InPlace)},
		{"Unresolved", strconv.Itoa(s.Unresolved)},
		{"Ignored", strconv.Itoa(s.Ignored)},
		{"Failed", strconv.Itoa(s.Failed)},
	})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	return tw.Render()
}
