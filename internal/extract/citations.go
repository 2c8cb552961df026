// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/paper-analyzer/internal/heuristics"
	"github.com/pdiddy/paper-analyzer/pkg/types"
)

// Scanning windows for reference-line extraction.
const (
	headedLineLimit  = 400
	tailRuneWindow   = 4000
	tailLineLimit    = 200
	looseLineMinRune = 40
)

// citationPatterns are applied independently and their matches unioned.
var citationPatterns = []*regexp.Regexp{
	// [12]
	regexp.MustCompile(`\[\d+\]`),
	// (12)
	regexp.MustCompile(`\(\d+\)`),
	// (Smith et al., 2020)
	regexp.MustCompile(`\([A-Z][A-Za-z]+ et al\.,? \d{4}\)`),
	// (Smith and Jones, 2020)
	regexp.MustCompile(`\([A-Z][A-Za-z]+ and [A-Z][A-Za-z]+, \d{4}\)`),
	// (Smith, 2020)
	regexp.MustCompile(`\([A-Z][A-Za-z]+, \d{4}\)`),
	// bare years
	heuristics.FourDigitPattern,
}

var (
	// referenceHeadingRe locates the start of a references section. The
	// first occurrence anywhere in the text wins.
	referenceHeadingRe = regexp.MustCompile(`(?i)(references|bibliography|reference list|works cited)`)

	// quotedRe matches a double- or single-quoted substring.
	quotedRe = regexp.MustCompile(`".+"|'.+'`)
)

// ExtractCitations scans text for inline citations, DOIs, URLs, and lines
// that look like bibliography entries. It is pure: the same text always
// yields the same bundle.
func ExtractCitations(text string) types.CitationBundle {
	var matches []string
	for _, re := range citationPatterns {
		matches = append(matches, re.FindAllString(text, -1)...)
	}

	return types.CitationBundle{
		Citations:      sortedUnique(matches),
		DOIs:           sortedUnique(heuristics.DOIPattern.FindAllString(text, -1)),
		URLs:           sortedUnique(heuristics.URLPattern.FindAllString(text, -1)),
		ReferenceLines: referenceLines(text),
	}
}

// referenceLines prefers the text after a references heading. Only when no
// heading exists does it fall back to the document tail; a heading followed
// by nothing qualifying yields no lines.
func referenceLines(text string) []string {
	refs := []string{}

	if loc := referenceHeadingRe.FindStringIndex(text); loc != nil {
		lines := heuristics.NonBlankLines(text[loc[0]:])
		if len(lines) > headedLineLimit {
			lines = lines[:headedLineLimit]
		}
		for _, ln := range lines {
			if looksLikeReference(ln) {
				refs = append(refs, ln)
			}
		}
		return refs
	}

	lines := heuristics.NonBlankLines(trailing(text, tailRuneWindow))
	if len(lines) > tailLineLimit {
		lines = lines[len(lines)-tailLineLimit:]
	}
	for _, ln := range lines {
		if heuristics.DOIPattern.MatchString(ln) || heuristics.FourDigitPattern.MatchString(ln) {
			refs = append(refs, ln)
		}
	}
	return refs
}

// looksLikeReference reports whether a line under a references heading is
// an entry: it carries a year, a DOI, or a quoted title, or it is a long
// line punctuated like a citation.
func looksLikeReference(ln string) bool {
	if heuristics.FourDigitPattern.MatchString(ln) ||
		heuristics.DOIPattern.MatchString(ln) ||
		quotedRe.MatchString(ln) {
		return true
	}
	return utf8.RuneCountInString(ln) > looseLineMinRune &&
		(strings.Count(ln, ",") >= 2 || strings.Count(ln, ".") >= 2)
}

// sortedUnique deduplicates in and sorts it lexicographically. The result
// is never nil.
func sortedUnique(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
