// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-analyzer/internal/heuristics"
	"github.com/pdiddy/paper-analyzer/internal/llm"
	"github.com/pdiddy/paper-analyzer/pkg/types"
)

// mockProvider returns a canned response and records the last request.
type mockProvider struct {
	out     string
	err     error
	calls   int
	lastReq llm.Request
}

func (m *mockProvider) Generate(_ context.Context, req llm.Request) (string, error) {
	m.calls++
	m.lastReq = req
	return m.out, m.err
}

func (m *mockProvider) Name() string { return "mock" }

const sampleText = "Deep Learning for X\nJ. Smith, A. Doe\nIEEE Transactions on Y, 2021\n... 10.1109/TEST.2021.123 ..."

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"prose and fences", "Here is the data:\n```json\n{\"title\":\"X\"}\n```", `{"title":"X"}`},
		{"empty", "", ""},
		{"whitespace", "  \n\t ", ""},
		{"no delimiter", "  Sorry, I cannot help  ", "Sorry, I cannot help"},
		{"bare fences", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"array", "Result: [1, 2]", "[1, 2]"},
		{"array before object", "x [ {\"a\":1} ]", `[ {"a":1} ]`},
		{"already clean", `{"a":1} trailing`, `{"a":1} trailing`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSON(tt.raw))
		})
	}
}

func TestParseMetadata(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   types.PaperMetadata
		wantOK bool
	}{
		{
			name:   "all fields",
			input:  `{"title":" T ","authors":"A","journal":"J","year":"2020","doi":"10.1/x"}`,
			want:   types.PaperMetadata{Title: "T", Authors: "A", Journal: "J", Year: "2020", DOI: "10.1/x"},
			wantOK: true,
		},
		{
			name:   "numeric year",
			input:  `{"title":"T","year":2021}`,
			want:   types.PaperMetadata{Title: "T", Year: "2021"},
			wantOK: true,
		},
		{
			name:   "non-string fields become empty",
			input:  `{"title":5,"authors":["a","b"],"journal":null,"year":true,"doi":{"v":1}}`,
			want:   types.PaperMetadata{},
			wantOK: true,
		},
		{
			name:   "unknown keys ignored",
			input:  `{"abstract":"ignored","title":"T"}`,
			want:   types.PaperMetadata{Title: "T"},
			wantOK: true,
		},
		{name: "prose", input: "Sorry, I cannot help"},
		{name: "empty", input: ""},
		{name: "array", input: `[{"title":"T"}]`},
		{name: "null", input: "null"},
		{name: "trailing text", input: `{"title":"T"} hope this helps`},
		{name: "truncated", input: `{"title":"T","authors":"A`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseMetadata(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtract_NoProviderUsesHeuristics(t *testing.T) {
	e := NewMetadataExtractor(nil)
	got := e.Extract(context.Background(), sampleText)

	assert.Equal(t, types.SourceHeuristic, got.Source)
	assert.Equal(t, types.PaperMetadata{
		Title:   "Deep Learning for X",
		Authors: "J. Smith, A. Doe",
		Journal: "IEEE Transactions on Y, 2021",
		Year:    "2021",
		DOI:     "10.1109/TEST.2021.123",
	}, got.Metadata)
}

func TestExtract_UnparseableResponseEqualsHeuristics(t *testing.T) {
	p := &mockProvider{out: "Sorry, I cannot help"}
	e := NewMetadataExtractor(p)

	got := e.ExtractMetadata(context.Background(), sampleText)
	assert.Equal(t, heuristics.FallbackMetadata(sampleText), got)
	assert.Equal(t, 1, p.calls)
}

func TestExtract_ValidResponseIsAuthoritative(t *testing.T) {
	p := &mockProvider{out: "Sure!\n```json\n{\"title\":\"Model Title\",\"authors\":\"M. Author\",\"journal\":\"\",\"year\":2019,\"doi\":\"\"}\n```"}
	e := NewMetadataExtractor(p)

	got := e.Extract(context.Background(), sampleText)
	assert.Equal(t, types.SourceAI, got.Source)
	// No field is filled in from heuristics even though they would find a DOI.
	assert.Equal(t, types.PaperMetadata{Title: "Model Title", Authors: "M. Author", Year: "2019"}, got.Metadata)
}

func TestExtract_AllEmptyResponseFallsBack(t *testing.T) {
	p := &mockProvider{out: `{"title":"","authors":"","journal":"","year":"","doi":""}`}
	got := NewMetadataExtractor(p).Extract(context.Background(), sampleText)

	assert.Equal(t, types.SourceHeuristic, got.Source)
	assert.Equal(t, heuristics.FallbackMetadata(sampleText), got.Metadata)
}

func TestExtract_ProviderErrorFallsBack(t *testing.T) {
	p := &mockProvider{err: errors.New("connection refused")}
	got := NewMetadataExtractor(p).Extract(context.Background(), sampleText)

	assert.Equal(t, types.SourceHeuristic, got.Source)
	assert.Equal(t, heuristics.FallbackMetadata(sampleText), got.Metadata)
}

func TestExtract_TimeoutFallsBack(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &mockProvider{err: context.Canceled}
	got := NewMetadataExtractor(p).Extract(ctx, sampleText)
	assert.Equal(t, types.SourceHeuristic, got.Source)
}

func TestExtract_RequestParameters(t *testing.T) {
	p := &mockProvider{out: "{}"}
	text := strings.Repeat("é", promptWindow) + "TAILMARKER"

	NewMetadataExtractor(p, WithModel("m-1")).Extract(context.Background(), text)

	require.Equal(t, 1, p.calls)
	assert.Equal(t, "m-1", p.lastReq.Model)
	assert.InDelta(t, 0.1, p.lastReq.Temperature, 1e-9)
	assert.Equal(t, 400, p.lastReq.MaxTokens)
	assert.NotContains(t, p.lastReq.Prompt, "TAILMARKER")
	assert.Contains(t, p.lastReq.Prompt, `"title", "authors", "journal", "year", "doi"`)
	assert.True(t, strings.HasSuffix(p.lastReq.Prompt, strings.Repeat("é", 10)))
	assert.True(t, strings.HasPrefix(p.lastReq.Prompt, "Extract the research paper metadata"))
}

func TestExtract_Options(t *testing.T) {
	p := &mockProvider{out: "{}"}
	e := NewMetadataExtractor(p, WithTemperature(0.3), WithMaxTokens(50), WithLogger(nil))
	e.Extract(context.Background(), "text")

	assert.InDelta(t, 0.3, p.lastReq.Temperature, 1e-9)
	assert.Equal(t, 50, p.lastReq.MaxTokens)
}

func TestFingerprint(t *testing.T) {
	tests := []struct {
		name     string
		provider llm.Provider
		opts     []Option
		want     string
	}{
		{"no provider", nil, nil, "none||0.1|400"},
		{"explicit model", &mockProvider{}, []Option{WithModel("m"), WithTemperature(0.2), WithMaxTokens(100)}, "mock|m|0.2|100"},
		{"claude default model", llm.NewClaude("k", "", ""), nil,
			"claude@https://api.anthropic.com|" + llm.DefaultClaudeModel + "|0.1|400"},
		{"cohere default model", llm.NewCohere("k", "", ""), nil,
			"cohere@https://api.cohere.com|" + llm.DefaultCohereModel + "|0.1|400"},
		{"custom endpoint", llm.NewClaude("k", "http://localhost:8080", "c"), nil,
			"claude@http://localhost:8080|c|0.1|400"},
		{"wrapped provider", llm.NewRateLimited(&llm.Retrying{Provider: llm.NewCohere("k", "", ""), MaxRetries: 1}, 60), nil,
			"cohere@https://api.cohere.com|" + llm.DefaultCohereModel + "|0.1|400"},
		{"option overrides default", llm.NewCohere("k", "", ""), []Option{WithModel("m")},
			"cohere@https://api.cohere.com|m|0.1|400"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewMetadataExtractor(tt.provider, tt.opts...).Fingerprint())
		})
	}

	a := NewMetadataExtractor(llm.NewClaude("k", "", "model-a")).Fingerprint()
	b := NewMetadataExtractor(llm.NewClaude("k", "", "model-b")).Fingerprint()
	assert.NotEqual(t, a, b, "configured provider models change the fingerprint")
}

func TestLeadingTrailing(t *testing.T) {
	assert.Equal(t, "hé", Leading("héllo", 2))
	assert.Equal(t, "", Leading("héllo", 0))
	assert.Equal(t, "ab", Leading("ab", 5))
	assert.Equal(t, "llo", trailing("héllo", 3))
	assert.Equal(t, "éllo", trailing("héllo", 4))
	assert.Equal(t, "", trailing("ab", 0))
	assert.Equal(t, "ab", trailing("ab", 5))
}
