// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package heuristics

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-analyzer/pkg/types"
)

func TestFallbackMetadata(t *testing.T) {
	tests := []struct {
		name string
		text string
		want types.PaperMetadata
	}{
		{
			name: "title authors venue year and doi",
			text: "Deep Learning for X\nJ. Smith, A. Doe\nIEEE Transactions on Y, 2021\n... 10.1109/TEST.2021.123 ...",
			want: types.PaperMetadata{
				Title:   "Deep Learning for X",
				Authors: "J. Smith, A. Doe",
				Journal: "IEEE Transactions on Y, 2021",
				Year:    "2021",
				DOI:     "10.1109/TEST.2021.123",
			},
		},
		{
			name: "empty text",
			text: "",
			want: types.PaperMetadata{},
		},
		{
			name: "whitespace only",
			text: "  \n\t\n   ",
			want: types.PaperMetadata{},
		},
		{
			name: "no line has three words falls back to first line",
			text: "Hi\nThere\nYou",
			want: types.PaperMetadata{Title: "Hi", Authors: "There"},
		},
		{
			name: "affiliation line is not an author list",
			text: "A Study of Things Here\nDepartment of Physics, Somewhere\nBody text.",
			want: types.PaperMetadata{Title: "A Study of Things Here"},
		},
		{
			name: "email line is not an author list",
			text: "A Study of Things Here\njane@example.org\n",
			want: types.PaperMetadata{Title: "A Study of Things Here"},
		},
		{
			name: "title is the last line so no authors",
			text: "Only A Single Title Line",
			want: types.PaperMetadata{Title: "Only A Single Title Line"},
		},
		{
			name: "surrounding whitespace is trimmed",
			text: "   Padded Title Words Here   \n\t  A. Author, B. Author  \n",
			want: types.PaperMetadata{Title: "Padded Title Words Here", Authors: "A. Author, B. Author"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FallbackMetadata(tt.text))
		})
	}
}

func TestFallbackMetadata_DOIFirstOccurrence(t *testing.T) {
	got := FallbackMetadata("Some Paper Title Here\nsee 10.1000/abc and later 10.2000/xyz\n")
	assert.Equal(t, "10.1000/abc", got.DOI)
}

func TestFallbackMetadata_DOICaseInsensitive(t *testing.T) {
	got := FallbackMetadata("x\ndoi: 10.1234/ABC.def-99\n")
	assert.Equal(t, "10.1234/ABC.def-99", got.DOI)
}

func TestFallbackMetadata_YearEarliestPosition(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Published 2019, revised 2021 and 2021 again", "2019"},
		{"from 1999 until 2005", "1999"},
		{"founded 1850, reopened 2003", "2003"},
		{"page 3012 of 20190", ""},
		{"no year here", ""},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, FallbackMetadata(tt.text).Year)
		})
	}
}

func TestFallbackMetadata_TitleTieBreak(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantTitle   string
		wantAuthors string
	}{
		{
			name:        "equal word count keeps the earlier line",
			text:        "Intro\nAlpha beta gamma delta\nEpsilon zeta eta theta\n",
			wantTitle:   "Alpha beta gamma delta",
			wantAuthors: "Epsilon zeta eta theta",
		},
		{
			name:        "strictly longer line replaces the best",
			text:        "Short\nOne two three\nA much longer line with many words\nBody",
			wantTitle:   "A much longer line with many words",
			wantAuthors: "Body",
		},
		{
			name:        "lines beyond the eighth are ignored",
			text:        "l1\nl2\nl3\nl4\nl5\nl6\nl7\nl8\nthis line has far too many words to be ignored",
			wantTitle:   "l1",
			wantAuthors: "l2",
		},
		{
			name:        "venue line is never the title",
			text:        "Graph Methods\nProceedings of the Annual Meeting on Graphs\nA. Person",
			wantTitle:   "Graph Methods",
			wantAuthors: "Proceedings of the Annual Meeting on Graphs",
		},
		{
			name:        "line carrying a DOI can be the title",
			text:        "Short\nA study of 10.1000/abc resolution methods today\nBob",
			wantTitle:   "A study of 10.1000/abc resolution methods today",
			wantAuthors: "Bob",
		},
		{
			name:        "title containing a venue word is skipped",
			text:        "Conference Paper Recommendation with Graph Networks\nJohn Smith and Alice Doe\nUniversity of X\nAbstract",
			wantTitle:   "John Smith and Alice Doe",
			wantAuthors: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FallbackMetadata(tt.text)
			assert.Equal(t, tt.wantTitle, got.Title)
			assert.Equal(t, tt.wantAuthors, got.Authors)
		})
	}
}

func TestFallbackMetadata_JournalWindow(t *testing.T) {
	var b strings.Builder
	for i := 0; i < journalWindow; i++ {
		b.WriteString("filler line\n")
	}
	b.WriteString("Journal of Late Venues\n")
	assert.Empty(t, FallbackMetadata(b.String()).Journal)

	got := FallbackMetadata("Title Of The Paper\nsome text\npublished by springer nature\nJournal of Other Things")
	assert.Equal(t, "published by springer nature", got.Journal)
}

func TestFallbackMetadata_JournalWholeWord(t *testing.T) {
	got := FallbackMetadata("Title Of The Paper\njournalism studies today\n")
	assert.Empty(t, got.Journal)
}

func TestFallbackMetadata_AlwaysFiveKeys(t *testing.T) {
	for _, text := range []string{"", "x", "Deep Learning for X\nJ. Smith", strings.Repeat("word ", 1000)} {
		data, err := json.Marshal(FallbackMetadata(text))
		require.NoError(t, err)

		var m map[string]any
		require.NoError(t, json.Unmarshal(data, &m))
		assert.Len(t, m, 5)
		for _, key := range []string{"title", "authors", "journal", "year", "doi"} {
			assert.Contains(t, m, key)
		}
	}
}

func TestNonBlankLines(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"LF and CRLF", "  a \n\n\r\n b c\r\n", []string{"a", "b c"}},
		{"CR only", "a\rb\r\rc", []string{"a", "b", "c"}},
		{"form feed and vertical tab", "a\fb\vc", []string{"a", "b", "c"}},
		{"record separators", "a\x1cb\x1dc\x1ed", []string{"a", "b", "c", "d"}},
		{"unicode separators", "a\u0085b\u2028c\u2029d", []string{"a", "b", "c", "d"}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NonBlankLines(tt.text))
		})
	}
}

func TestFallbackMetadata_CarriageReturnLines(t *testing.T) {
	got := FallbackMetadata("Deep Learning for X\rJ. Smith, A. Doe\rIEEE Transactions on Y, 2021\r... 10.1109/TEST.2021.123 ...")
	assert.Equal(t, types.PaperMetadata{
		Title:   "Deep Learning for X",
		Authors: "J. Smith, A. Doe",
		Journal: "IEEE Transactions on Y, 2021",
		Year:    "2021",
		DOI:     "10.1109/TEST.2021.123",
	}, got)
}
