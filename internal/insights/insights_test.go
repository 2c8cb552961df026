// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package insights

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-analyzer/internal/cache"
	"github.com/pdiddy/paper-analyzer/internal/llm"
)

// recordingProvider answers with a prefix of the prompt and records every
// request. It is safe for concurrent use.
type recordingProvider struct {
	mu   sync.Mutex
	reqs []llm.Request
	err  error
}

func (p *recordingProvider) Generate(_ context.Context, req llm.Request) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reqs = append(p.reqs, req)
	if p.err != nil {
		return "", p.err
	}
	first, _, _ := strings.Cut(req.Prompt, "\n")
	return "  answer to: " + first + "  ", nil
}

func (p *recordingProvider) Name() string { return "recording" }

func (p *recordingProvider) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.reqs)
}

func TestPromptsAndBudgets(t *testing.T) {
	tests := []struct {
		kind       Kind
		wantPrefix string
		wantTokens int
	}{
		{KindSummary, "Summarize this research paper in 200-250 words:\n\n", 450},
		{KindFindings, "List the key findings and contributions of this paper in concise bullet points:\n\n", 400},
		{KindQuestions, "Generate 5 critical, thought-provoking questions", 400},
		{KindTerms, "Explain these technical terms in simple language:\n", 300},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			p := &recordingProvider{}
			svc := New(p)

			_, err := svc.Generate(context.Background(), tt.kind, "Transformer, attention")
			require.NoError(t, err)

			require.Len(t, p.reqs, 1)
			assert.True(t, strings.HasPrefix(p.reqs[0].Prompt, tt.wantPrefix))
			assert.True(t, strings.HasSuffix(p.reqs[0].Prompt, "Transformer, attention"))
			assert.Equal(t, tt.wantTokens, p.reqs[0].MaxTokens)
			assert.InDelta(t, 0.5, p.reqs[0].Temperature, 1e-9)
		})
	}
}

func TestSummaryUsesLeadingWindow(t *testing.T) {
	p := &recordingProvider{}
	text := strings.Repeat("w", textWindow) + "TAIL"

	out, err := New(p).Summary(context.Background(), text)
	require.NoError(t, err)
	assert.Equal(t, "answer to: Summarize this research paper in 200-250 words:", out)
	assert.NotContains(t, p.reqs[0].Prompt, "TAIL")
}

func TestNoProvider(t *testing.T) {
	svc := New(nil)
	ctx := context.Background()

	_, err := svc.Summary(ctx, "text")
	assert.ErrorIs(t, err, ErrNoProvider)
	_, err = svc.ExplainTerms(ctx, "term")
	assert.ErrorIs(t, err, ErrNoProvider)
	_, err = svc.All(ctx, "text")
	assert.ErrorIs(t, err, ErrNoProvider)
}

func TestExplainTermsBlank(t *testing.T) {
	p := &recordingProvider{}
	_, err := New(p).ExplainTerms(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrNoTerms)
	assert.Equal(t, 0, p.count())
}

func TestUnknownKind(t *testing.T) {
	_, err := New(&recordingProvider{}).Generate(context.Background(), "poem", "x")
	assert.Error(t, err)
}

func TestAll(t *testing.T) {
	p := &recordingProvider{}
	r, err := New(p).All(context.Background(), "paper body")
	require.NoError(t, err)

	assert.Equal(t, 3, p.count())
	assert.Contains(t, r.Summary, "Summarize")
	assert.Contains(t, r.Findings, "key findings")
	assert.Contains(t, r.Questions, "critical")
}

func TestAllPropagatesError(t *testing.T) {
	boom := errors.New("quota exceeded")
	_, err := New(&recordingProvider{err: boom}).All(context.Background(), "paper body")
	assert.ErrorIs(t, err, boom)
}

func TestMemoized(t *testing.T) {
	p := &recordingProvider{}
	svc := New(p, WithCache(cache.NewMemory()), WithModel("m"))
	ctx := context.Background()

	first, err := svc.KeyFindings(ctx, "same text")
	require.NoError(t, err)
	second, err := svc.KeyFindings(ctx, "same text")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, p.count())
	assert.Equal(t, "m", p.reqs[0].Model)

	_, err = svc.KeyFindings(ctx, "other text")
	require.NoError(t, err)
	assert.Equal(t, 2, p.count())
}

// modelProvider is a recordingProvider that reports a default model.
type modelProvider struct {
	recordingProvider
	model string
}

func (p *modelProvider) DefaultModel() string { return p.model }

func (p *modelProvider) Endpoint() string { return "http://local" }

func TestMemoizedPerDefaultModel(t *testing.T) {
	store := cache.NewMemory()
	ctx := context.Background()

	a := &modelProvider{model: "model-a"}
	b := &modelProvider{model: "model-b"}
	_, err := New(a, WithCache(store)).Summary(ctx, "same text")
	require.NoError(t, err)
	_, err = New(b, WithCache(store)).Summary(ctx, "same text")
	require.NoError(t, err)
	c := &modelProvider{model: "model-a"}
	_, err = New(c, WithCache(store)).Summary(ctx, "same text")
	require.NoError(t, err)

	assert.Equal(t, 1, a.count())
	assert.Equal(t, 0, c.count(), "the same default model hits the cache")
	assert.Equal(t, 1, b.count(), "a different default model misses the cache")
}
