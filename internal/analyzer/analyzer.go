// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analyzer handles one document per call: it gates on text
// length, memoizes metadata and citation extraction by content, bounds the
// model call with a timeout, and optionally records the result.
package analyzer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/paper-analyzer/internal/cache"
	"github.com/pdiddy/paper-analyzer/internal/extract"
	"github.com/pdiddy/paper-analyzer/internal/store"
	"github.com/pdiddy/paper-analyzer/internal/textract"
	"github.com/pdiddy/paper-analyzer/pkg/types"
)

// DefaultTimeout bounds one metadata model call.
const DefaultTimeout = 60 * time.Second

// Recorder persists finished analyses. FindByHash returns
// store.ErrNotFound when no analysis of the text was saved.
type Recorder interface {
	Save(ctx context.Context, rec types.AnalysisRecord) (types.AnalysisRecord, error)
	FindByHash(ctx context.Context, hash string) (types.AnalysisRecord, error)
}

// Analyzer runs the extraction pipeline.
type Analyzer struct {
	metadata  *extract.MetadataExtractor
	cache     cache.Store
	recorder  Recorder
	logger    *zap.Logger
	timeout   time.Duration
	minLength int
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithCache memoizes results in s. The default caches nothing.
func WithCache(s cache.Store) Option {
	return func(a *Analyzer) {
		if s != nil {
			a.cache = s
		}
	}
}

// WithRecorder saves every report produced by AnalyzeFile.
func WithRecorder(r Recorder) Option {
	return func(a *Analyzer) { a.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithTimeout bounds the model call. Zero or less disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(a *Analyzer) { a.timeout = d }
}

// WithMinLength sets the minimum text length. Zero selects
// textract.MinLength.
func WithMinLength(n int) Option {
	return func(a *Analyzer) { a.minLength = n }
}

// New returns an Analyzer around a metadata extractor.
func New(metadata *extract.MetadataExtractor, opts ...Option) *Analyzer {
	a := &Analyzer{
		metadata: metadata,
		cache:    cache.Nop{},
		logger:   zap.NewNop(),
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ContentHash returns the hex SHA-256 of text.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Analyze returns the metadata and citations of text. Text shorter than
// the minimum returns textract.ErrInputTooShort before any extraction
// runs; no other condition is an error.
func (a *Analyzer) Analyze(ctx context.Context, text string) (types.Report, error) {
	if err := textract.CheckLength(text, a.minLength); err != nil {
		return types.Report{}, err
	}

	meta := a.extractMetadata(ctx, text)
	citations := a.extractCitations(ctx, text)

	return types.Report{
		ContentHash:    ContentHash(text),
		Metadata:       meta.Metadata,
		MetadataSource: meta.Source,
		Citations:      citations,
	}, nil
}

// Metadata returns only the metadata of text, gated like Analyze.
func (a *Analyzer) Metadata(ctx context.Context, text string) (extract.MetadataResult, error) {
	if err := textract.CheckLength(text, a.minLength); err != nil {
		return extract.MetadataResult{}, err
	}
	return a.extractMetadata(ctx, text), nil
}

// Citations returns only the citation bundle of text, gated like Analyze.
func (a *Analyzer) Citations(ctx context.Context, text string) (types.CitationBundle, error) {
	if err := textract.CheckLength(text, a.minLength); err != nil {
		return types.CitationBundle{}, err
	}
	return a.extractCitations(ctx, text), nil
}

// ReadFile extracts the text of path. Files that exist but cannot be
// parsed yield empty text, which the length gate then rejects; missing or
// unreadable files are errors.
func (a *Analyzer) ReadFile(path string) (string, error) {
	text, err := textract.Extract(path)
	if err == nil {
		return text, nil
	}
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return "", err
	}
	a.logger.Warn("text extraction failed, treating as empty", zap.String("path", path), zap.Error(err))
	return "", nil
}

// AnalyzeFile reads path and analyzes its text. With a recorder configured
// the report is saved and its RecordID set; an earlier saved analysis of
// the same text is named in PreviousRecordID.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (types.Report, error) {
	text, err := a.ReadFile(path)
	if err != nil {
		return types.Report{}, err
	}

	report, err := a.Analyze(ctx, text)
	if err != nil {
		return types.Report{}, fmt.Errorf("%s: %w", path, err)
	}

	if a.recorder != nil {
		prev, err := a.recorder.FindByHash(ctx, report.ContentHash)
		switch {
		case err == nil:
			report.PreviousRecordID = prev.ID
			a.logger.Info("text analyzed before", zap.String("id", prev.ID), zap.String("path", prev.SourcePath))
		case !errors.Is(err, store.ErrNotFound):
			return report, fmt.Errorf("looking up earlier analyses of %s: %w", path, err)
		}

		rec, err := a.recorder.Save(ctx, types.RecordFromReport(path, report))
		if err != nil {
			return report, fmt.Errorf("saving analysis of %s: %w", path, err)
		}
		report.RecordID = rec.ID
		a.logger.Info("analysis saved", zap.String("id", rec.ID), zap.String("path", path))
	}
	return report, nil
}

// extractMetadata memoizes by prompt parameters plus exact text. Fallback
// results are cached too: the same text under the same parameters takes
// the same path.
func (a *Analyzer) extractMetadata(ctx context.Context, text string) extract.MetadataResult {
	key := cache.Key("metadata", a.metadata.Fingerprint(), text)
	res, _ := cache.Memoize(ctx, a.cache, key, func() (extract.MetadataResult, error) {
		callCtx := ctx
		if a.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, a.timeout)
			defer cancel()
		}
		res := a.metadata.Extract(callCtx, text)
		a.logger.Debug("metadata extracted", zap.String("source", string(res.Source)))
		return res, nil
	})
	return res
}

func (a *Analyzer) extractCitations(ctx context.Context, text string) types.CitationBundle {
	key := cache.Key("citations", text)
	bundle, _ := cache.Memoize(ctx, a.cache, key, func() (types.CitationBundle, error) {
		return extract.ExtractCitations(text), nil
	})
	return bundle
}
