// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the paper-analyzer pipeline:
// the metadata record, the citation bundle, and the report that ties them
// together, plus the configuration structs each stage reads.
package types

// MetadataSource records which path produced a PaperMetadata record.
type MetadataSource string

const (
	SourceAI        MetadataSource = "ai"
	SourceHeuristic MetadataSource = "heuristic"
)

// ReferenceDisplayLimit caps how many reference lines human-facing output shows.
const ReferenceDisplayLimit = 60

// PaperMetadata holds the five bibliographic fields extracted from a paper.
// Every field is always present when serialized; an empty string means unknown.
// Field order is the export order.
type PaperMetadata struct {
	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Authors is the author line as it appears in the paper.
	Authors string `json:"authors" yaml:"authors"`

	// Journal is the journal, conference, or venue line.
	Journal string `json:"journal" yaml:"journal"`

	// Year is the four-digit publication year.
	Year string `json:"year" yaml:"year"`

	// DOI is the Digital Object Identifier (10.<registrant>/<suffix>).
	DOI string `json:"doi" yaml:"doi"`
}

// IsEmpty reports whether all five fields are blank.
func (m PaperMetadata) IsEmpty() bool {
	return m.Title == "" && m.Authors == "" && m.Journal == "" && m.Year == "" && m.DOI == ""
}

// CitationBundle holds the citation and reference information found in a
// paper's text.
type CitationBundle struct {
	// Citations is the deduplicated set of inline citation matches
	// (e.g. "[12]", "(Smith et al., 2020)", "2019"), sorted lexicographically.
	Citations []string `json:"citations" yaml:"citations"`

	// DOIs is the deduplicated set of DOIs found anywhere in the text.
	DOIs []string `json:"dois" yaml:"dois"`

	// URLs is the deduplicated set of http(s) URLs found anywhere in the text.
	URLs []string `json:"urls" yaml:"urls"`

	// ReferenceLines are lines that look like bibliography entries, in
	// document order.
	ReferenceLines []string `json:"reference_lines" yaml:"reference_lines"`
}

// Report is the full result of analyzing one document.
type Report struct {
	// ContentHash is the hex SHA-256 of the analyzed text.
	ContentHash string `json:"content_hash" yaml:"content_hash"`

	// Metadata is the authoritative metadata record.
	Metadata PaperMetadata `json:"metadata" yaml:"metadata"`

	// MetadataSource tells whether Metadata came from the model or the heuristics.
	MetadataSource MetadataSource `json:"metadata_source" yaml:"metadata_source"`

	// Citations is the citation bundle for the same text.
	Citations CitationBundle `json:"citations" yaml:"citations"`

	// RecordID is the history store ID when the report was saved.
	RecordID string `json:"record_id,omitempty" yaml:"record_id,omitempty"`
	// PreviousRecordID names the newest earlier saved analysis of the same text.
	PreviousRecordID string `json:"previous_record_id,omitempty" yaml:"previous_record_id,omitempty"`
}
