// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package heuristics guesses paper metadata from raw text with regular
// expressions and line-position rules. It has no dependencies beyond the
// standard library and never fails, so it is always available as the
// fallback when a model result is missing or unusable.
package heuristics

import (
	"strings"

	"github.com/pdiddy/paper-analyzer/pkg/types"
)

const (
	// titleWindow is the number of leading non-blank lines searched for a title.
	titleWindow = 8

	// minTitleWords is the minimum word count for a title candidate.
	minTitleWords = 3

	// journalWindow is the number of leading non-blank lines searched for a venue.
	journalWindow = 120
)

// FallbackMetadata extracts a best-effort metadata record from text. Each
// field is decided independently; fields that cannot be found are empty.
func FallbackMetadata(text string) types.PaperMetadata {
	var meta types.PaperMetadata

	meta.DOI = DOIPattern.FindString(text)
	meta.Year = yearPattern.FindString(text)

	lines := NonBlankLines(text)
	if len(lines) > 0 {
		idx := titleIndex(lines)
		meta.Title = lines[idx]
		if idx+1 < len(lines) && !affiliationPattern.MatchString(lines[idx+1]) {
			meta.Authors = lines[idx+1]
		}
	}

	for _, ln := range head(lines, journalWindow) {
		if venuePattern.MatchString(ln) {
			meta.Journal = ln
			break
		}
	}

	meta.Title = strings.TrimSpace(meta.Title)
	meta.Authors = strings.TrimSpace(meta.Authors)
	meta.Journal = strings.TrimSpace(meta.Journal)
	meta.Year = strings.TrimSpace(meta.Year)
	meta.DOI = strings.TrimSpace(meta.DOI)
	return meta
}

// titleIndex picks the title line among the first titleWindow lines: the
// first line with at least minTitleWords words whose count strictly exceeds
// the best so far. Venue lines are never titles.
// When nothing qualifies the first line wins.
func titleIndex(lines []string) int {
	best, bestWords := 0, 0
	for i, ln := range head(lines, titleWindow) {
		if venuePattern.MatchString(ln) {
			continue
		}
		n := len(strings.Fields(ln))
		if n >= minTitleWords && n > bestWords {
			best, bestWords = i, n
		}
	}
	return best
}

// NonBlankLines splits text into lines on every line-break character, trims
// each one, and drops the blanks.
func NonBlankLines(text string) []string {
	var lines []string
	for _, ln := range lineBreakPattern.Split(text, -1) {
		ln = strings.TrimSpace(ln)
		if ln != "" {
			lines = append(lines, ln)
		}
	}
	return lines
}

func head(lines []string, n int) []string {
	if len(lines) > n {
		return lines[:n]
	}
	return lines
}
