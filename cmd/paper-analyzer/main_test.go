// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/paper-analyzer/internal/textract"
	"github.com/pdiddy/paper-analyzer/pkg/types"
)

func init() {
	color.NoColor = true
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"generic", errors.New("boom"), ExitError},
		{"config", configError{errors.New("bad provider")}, ExitConfigError},
		{"wrapped config", fmt.Errorf("setup: %w", configError{errors.New("x")}), ExitConfigError},
		{"too short", fmt.Errorf("paper.pdf: %w", textract.ErrInputTooShort), ExitTooShort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestReportError(t *testing.T) {
	var buf bytes.Buffer
	reportError(&buf, fmt.Errorf("scan.pdf: %w", textract.ErrInputTooShort))
	assert.True(t, strings.HasPrefix(buf.String(), "Warning:"))
	assert.Contains(t, buf.String(), "OCR")

	buf.Reset()
	reportError(&buf, errors.New("boom"))
	assert.Equal(t, "Error: boom\n", buf.String())
}

func TestPrintCitations_CapsReferenceLines(t *testing.T) {
	refs := make([]string, types.ReferenceDisplayLimit+5)
	for i := range refs {
		refs[i] = fmt.Sprintf("[%d] Ref entry %d, 2020.", i+1, i+1)
	}

	var buf bytes.Buffer
	printCitations(&buf, types.CitationBundle{ReferenceLines: refs})
	out := buf.String()

	assert.Contains(t, out, "Reference lines (65)")
	assert.Contains(t, out, "[60] Ref entry 60, 2020.")
	assert.NotContains(t, out, "[61] Ref entry 61, 2020.")
	assert.Contains(t, out, "... 5 more")
}

func TestPrintMetadata_EmptyFieldsShowNA(t *testing.T) {
	var buf bytes.Buffer
	printMetadata(&buf, types.PaperMetadata{Title: "A Paper"}, types.SourceHeuristic)
	out := buf.String()

	assert.Contains(t, out, "A Paper")
	assert.Equal(t, 4, strings.Count(out, "N/A"))
	assert.Contains(t, out, "source: heuristic")
}

func TestPrintReport_RecordIDs(t *testing.T) {
	tests := []struct {
		name        string
		report      types.Report
		contains    []string
		notContains []string
	}{
		{"unsaved", types.Report{}, nil, []string{"Saved as:", "Previously analyzed as:"}},
		{"first save", types.Report{RecordID: "new"}, []string{"Saved as: new"}, []string{"Previously analyzed as:"}},
		{"repeat save", types.Report{RecordID: "new", PreviousRecordID: "old"},
			[]string{"Saved as: new", "Previously analyzed as: old"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printReport(&buf, tt.report)
			for _, s := range tt.contains {
				assert.Contains(t, buf.String(), s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, buf.String(), s)
			}
		})
	}
}
