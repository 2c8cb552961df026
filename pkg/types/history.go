// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// AnalysisRecord is one saved analysis in the history store.
type AnalysisRecord struct {
	ID             string         `json:"id" yaml:"id"`
	CreatedAt      time.Time      `json:"created_at" yaml:"created_at"`
	SourcePath     string         `json:"source_path" yaml:"source_path"`
	ContentHash    string         `json:"content_hash" yaml:"content_hash"`
	MetadataSource MetadataSource `json:"metadata_source" yaml:"metadata_source"`
	Metadata       PaperMetadata  `json:"metadata" yaml:"metadata"`
	Citations      CitationBundle `json:"citations" yaml:"citations"`
}

// RecordFromReport builds an unsaved record for a report.
func RecordFromReport(sourcePath string, r Report) AnalysisRecord {
	return AnalysisRecord{
		SourcePath:     sourcePath,
		ContentHash:    r.ContentHash,
		MetadataSource: r.MetadataSource,
		Metadata:       r.Metadata,
		Citations:      r.Citations,
	}
}
