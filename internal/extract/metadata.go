// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns document text into a metadata record and a citation
// bundle. Metadata comes from the model collaborator when one is configured
// and its answer survives strict parsing; otherwise the heuristics package
// decides every field. Neither path returns an error to the caller.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/paper-analyzer/internal/heuristics"
	"github.com/pdiddy/paper-analyzer/internal/llm"
	"github.com/pdiddy/paper-analyzer/pkg/types"
)

// Generation defaults for the metadata prompt.
const (
	DefaultTemperature = 0.1
	DefaultMaxTokens   = 400
)

// MetadataResult is the authoritative record plus the path that produced it.
type MetadataResult struct {
	Metadata types.PaperMetadata
	Source   types.MetadataSource
}

// MetadataExtractor asks a model for metadata and falls back to heuristics.
// It holds no per-call state and is safe for concurrent use when the
// provider is.
type MetadataExtractor struct {
	provider    llm.Provider
	logger      *zap.Logger
	model       string
	temperature float64
	maxTokens   int
}

// Option configures a MetadataExtractor.
type Option func(*MetadataExtractor)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(e *MetadataExtractor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithModel overrides the provider's default model.
func WithModel(model string) Option {
	return func(e *MetadataExtractor) { e.model = model }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(e *MetadataExtractor) { e.temperature = t }
}

// WithMaxTokens bounds the response length.
func WithMaxTokens(n int) Option {
	return func(e *MetadataExtractor) {
		if n > 0 {
			e.maxTokens = n
		}
	}
}

// NewMetadataExtractor returns an extractor backed by p. A nil provider is
// valid and means every call resolves through heuristics.
func NewMetadataExtractor(p llm.Provider, opts ...Option) *MetadataExtractor {
	e := &MetadataExtractor{
		provider:    p,
		logger:      zap.NewNop(),
		temperature: DefaultTemperature,
		maxTokens:   DefaultMaxTokens,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Fingerprint identifies the provider, endpoint, and prompt parameters that
// shape a model answer. An unset model is replaced by the provider's
// default. Callers memoizing Extract include it in the cache key.
func (e *MetadataExtractor) Fingerprint() string {
	if e.provider == nil {
		return fmt.Sprintf("none|%s|%g|%d", e.model, e.temperature, e.maxTokens)
	}
	model := e.model
	if model == "" {
		model = llm.DefaultModel(e.provider)
	}
	name := e.provider.Name()
	if ep := llm.Endpoint(e.provider); ep != "" {
		name += "@" + ep
	}
	return fmt.Sprintf("%s|%s|%g|%d", name, model, e.temperature, e.maxTokens)
}

// Extract returns exactly one record: the validated model record, or the
// full heuristic record when the model is absent, fails, or answers with
// something unparseable or entirely empty. Fields are never merged across
// the two sources.
func (e *MetadataExtractor) Extract(ctx context.Context, text string) MetadataResult {
	raw := e.complete(ctx, text)

	meta, ok := parseMetadata(CleanJSON(raw))
	switch {
	case !ok:
		if e.provider != nil {
			e.logger.Debug("model metadata unparseable, using heuristics", zap.Int("response_len", len(raw)))
		}
	case meta.IsEmpty():
		e.logger.Debug("model metadata empty, using heuristics")
	default:
		return MetadataResult{Metadata: meta, Source: types.SourceAI}
	}

	return MetadataResult{Metadata: heuristics.FallbackMetadata(text), Source: types.SourceHeuristic}
}

// ExtractMetadata is Extract without the source tag.
func (e *MetadataExtractor) ExtractMetadata(ctx context.Context, text string) types.PaperMetadata {
	return e.Extract(ctx, text).Metadata
}

// complete calls the provider and returns its text. Every failure,
// including a missing provider and a cancelled context, yields "".
func (e *MetadataExtractor) complete(ctx context.Context, text string) string {
	if e.provider == nil {
		return ""
	}

	prompt, err := renderPrompt(text)
	if err != nil {
		e.logger.Error("rendering metadata prompt", zap.Error(err))
		return ""
	}

	out, err := e.provider.Generate(ctx, llm.Request{
		Prompt:      prompt,
		Model:       e.model,
		Temperature: e.temperature,
		MaxTokens:   e.maxTokens,
	})
	if err != nil {
		e.logger.Warn("model call failed, using heuristics",
			zap.String("provider", e.provider.Name()),
			zap.Error(err))
		return ""
	}
	return out
}

// parseMetadata strictly decodes s as a single JSON object and reads the
// five known keys. It reports false when s is not exactly one object.
// Missing or non-string values become ""; a numeric year is kept as its
// literal text.
func parseMetadata(s string) (types.PaperMetadata, bool) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil || obj == nil {
		return types.PaperMetadata{}, false
	}
	if _, err := dec.Token(); err != io.EOF {
		return types.PaperMetadata{}, false
	}

	return types.PaperMetadata{
		Title:   textField(obj["title"]),
		Authors: textField(obj["authors"]),
		Journal: textField(obj["journal"]),
		Year:    yearField(obj["year"]),
		DOI:     textField(obj["doi"]),
	}, true
}

func textField(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

func yearField(v any) string {
	switch y := v.(type) {
	case string:
		return strings.TrimSpace(y)
	case json.Number:
		return y.String()
	default:
		return ""
	}
}
