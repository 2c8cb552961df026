// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/pdiddy/paper-analyzer/internal/insights"
	"github.com/pdiddy/paper-analyzer/pkg/types"
)

var (
	heading = color.New(color.FgCyan, color.Bold).SprintFunc()
	label   = color.New(color.Bold).SprintFunc()
	faint   = color.New(color.Faint).SprintFunc()
)

// orNA renders empty fields as N/A.
func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func printReport(w io.Writer, r types.Report) {
	printMetadata(w, r.Metadata, r.MetadataSource)
	fmt.Fprintln(w)
	printCitations(w, r.Citations)
	if r.RecordID != "" {
		fmt.Fprintf(w, "\n%s %s\n", label("Saved as:"), r.RecordID)
	}
	if r.PreviousRecordID != "" {
		fmt.Fprintf(w, "%s %s\n", label("Previously analyzed as:"), r.PreviousRecordID)
	}
}

func printMetadata(w io.Writer, m types.PaperMetadata, source types.MetadataSource) {
	fmt.Fprintln(w, heading("Paper Metadata"))
	fmt.Fprintf(w, "  %s %s\n", label("Title:  "), orNA(m.Title))
	fmt.Fprintf(w, "  %s %s\n", label("Authors:"), orNA(m.Authors))
	fmt.Fprintf(w, "  %s %s\n", label("Journal:"), orNA(m.Journal))
	fmt.Fprintf(w, "  %s %s\n", label("Year:   "), orNA(m.Year))
	fmt.Fprintf(w, "  %s %s\n", label("DOI:    "), orNA(m.DOI))
	if source != "" {
		fmt.Fprintf(w, "  %s\n", faint("source: "+string(source)))
	}
}

func printCitations(w io.Writer, c types.CitationBundle) {
	fmt.Fprintln(w, heading("Citations & References"))
	printList(w, "Inline citations", c.Citations, 0)
	printList(w, "DOIs", c.DOIs, 0)
	printList(w, "URLs", c.URLs, 0)
	printList(w, "Reference lines", c.ReferenceLines, types.ReferenceDisplayLimit)
}

// printList prints items under a titled count. A positive limit caps the
// number shown.
func printList(w io.Writer, title string, items []string, limit int) {
	fmt.Fprintf(w, "  %s (%d)\n", label(title), len(items))
	if len(items) == 0 {
		fmt.Fprintf(w, "    %s\n", faint("none found"))
		return
	}
	shown := items
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	for _, item := range shown {
		fmt.Fprintf(w, "    %s\n", item)
	}
	if hidden := len(items) - len(shown); hidden > 0 {
		fmt.Fprintf(w, "    %s\n", faint(fmt.Sprintf("... %d more", hidden)))
	}
}

func printInsights(w io.Writer, r insights.Report) {
	for _, s := range []struct{ title, body string }{
		{"Summary", r.Summary},
		{"Key Findings", r.Findings},
		{"Critical Questions", r.Questions},
	} {
		fmt.Fprintln(w, heading(s.title))
		fmt.Fprintln(w, s.body)
		fmt.Fprintln(w)
	}
}

func printRecords(w io.Writer, recs []types.AnalysisRecord) {
	if len(recs) == 0 {
		fmt.Fprintln(w, "No analyses recorded.")
		return
	}

	fmt.Fprintf(w, "%-36s  %-20s  %-9s  %s\n", "ID", "Created", "Source", "Title")
	fmt.Fprintln(w, strings.Repeat("-", 110))
	for _, r := range recs {
		title := orNA(r.Metadata.Title)
		if len([]rune(title)) > 40 {
			title = string([]rune(title)[:37]) + "..."
		}
		fmt.Fprintf(w, "%-36s  %-20s  %-9s  %s\n",
			r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04:05"), r.MetadataSource, title)
	}
	fmt.Fprintf(w, "\n%d analyses\n", len(recs))
}
