// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package heuristics

import "regexp"

// Shared patterns. The citation extractor reuses DOIPattern, URLPattern and
// FourDigitPattern so both passes agree on what a DOI or a year looks like.
var (
	// DOIPattern matches DOIs like 10.1109/TEST.2021.123.
	DOIPattern = regexp.MustCompile(`(?i)\b10\.\d{4,9}/[-._;()/:A-Z0-9]+\b`)

	// URLPattern matches http and https URLs up to the next whitespace.
	URLPattern = regexp.MustCompile(`(?i)https?://\S+`)

	// FourDigitPattern matches any standalone 4-digit number.
	FourDigitPattern = regexp.MustCompile(`\b\d{4}\b`)

	// yearPattern matches a plausible publication year (1900-2099).
	yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

	// affiliationPattern flags lines that read like an affiliation rather
	// than an author list.
	affiliationPattern = regexp.MustCompile(`(?i)university|dept|department|@|institute|laboratory|school`)

	// lineBreakPattern matches CRLF and each single-character line break,
	// including form feed, vertical tab, file/group/record separators, NEL,
	// and the Unicode line and paragraph separators.
	lineBreakPattern = regexp.MustCompile(`\r\n|[\n\r\v\f\x1c-\x1e\x{85}\x{2028}\x{2029}]`)

	// venuePattern matches journal, proceedings, and publisher lines.
	venuePattern = regexp.MustCompile(`(?i)\b(Journal|Proceedings|Conference|Transactions|IEEE|ACM|Springer|Elsevier)\b`)
)
