// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package insights sends free-form prompts about a paper to the model:
// a summary, key findings, critical questions, and explanations of terms.
// Unlike metadata extraction there is no fallback, so a missing provider
// is an error.
package insights

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/paper-analyzer/internal/cache"
	"github.com/pdiddy/paper-analyzer/internal/extract"
	"github.com/pdiddy/paper-analyzer/internal/llm"
)

// DefaultTemperature is the sampling temperature for insight prompts.
const DefaultTemperature = 0.5

// textWindow is the number of leading runes of the paper included in a prompt.
const textWindow = 5000

var (
	// ErrNoProvider is returned when no model is configured.
	ErrNoProvider = errors.New("no model provider configured: set an API key to use AI features")

	// ErrNoTerms is returned by ExplainTerms for blank input.
	ErrNoTerms = errors.New("enter at least one term")
)

// Kind names an insight.
type Kind string

const (
	KindSummary   Kind = "summary"
	KindFindings  Kind = "findings"
	KindQuestions Kind = "questions"
	KindTerms     Kind = "terms"
)

// prompt holds the instruction and output budget for one kind.
type prompt struct {
	instruction string
	maxTokens   int
}

var prompts = map[Kind]prompt{
	KindSummary: {
		instruction: "Summarize this research paper in 200-250 words:\n\n",
		maxTokens:   450,
	},
	KindFindings: {
		instruction: "List the key findings and contributions of this paper in concise bullet points:\n\n",
		maxTokens:   400,
	},
	KindQuestions: {
		instruction: "Generate 5 critical, thought-provoking questions about the methodology, " +
			"limitations, and future directions for this research paper:\n\n",
		maxTokens: 400,
	},
	KindTerms: {
		instruction: "Explain these technical terms in simple language:\n",
		maxTokens:   300,
	},
}

// Report holds the three paper-level insights.
type Report struct {
	Summary   string `json:"summary" yaml:"summary"`
	Findings  string `json:"key_findings" yaml:"key_findings"`
	Questions string `json:"critical_questions" yaml:"critical_questions"`
}

// Service generates insights through a provider, memoizing answers by
// prompt.
type Service struct {
	provider    llm.Provider
	cache       cache.Store
	logger      *zap.Logger
	model       string
	temperature float64
}

// Option configures a Service.
type Option func(*Service)

// WithCache memoizes answers in s.
func WithCache(s cache.Store) Option {
	return func(svc *Service) {
		if s != nil {
			svc.cache = s
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(svc *Service) {
		if l != nil {
			svc.logger = l
		}
	}
}

// WithModel overrides the provider's default model.
func WithModel(model string) Option {
	return func(svc *Service) { svc.model = model }
}

// New returns a Service. p may be nil, in which case every call returns
// ErrNoProvider.
func New(p llm.Provider, opts ...Option) *Service {
	svc := &Service{
		provider:    p,
		cache:       cache.Nop{},
		logger:      zap.NewNop(),
		temperature: DefaultTemperature,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Summary returns a 200-250 word summary of the paper.
func (s *Service) Summary(ctx context.Context, text string) (string, error) {
	return s.ask(ctx, KindSummary, extract.Leading(text, textWindow))
}

// KeyFindings lists the paper's findings and contributions.
func (s *Service) KeyFindings(ctx context.Context, text string) (string, error) {
	return s.ask(ctx, KindFindings, extract.Leading(text, textWindow))
}

// CriticalQuestions asks five questions about methodology, limitations,
// and future directions.
func (s *Service) CriticalQuestions(ctx context.Context, text string) (string, error) {
	return s.ask(ctx, KindQuestions, extract.Leading(text, textWindow))
}

// ExplainTerms explains a comma-separated list of terms. The paper text is
// not consulted.
func (s *Service) ExplainTerms(ctx context.Context, terms string) (string, error) {
	terms = strings.TrimSpace(terms)
	if terms == "" {
		return "", ErrNoTerms
	}
	return s.ask(ctx, KindTerms, terms)
}

// Generate dispatches by kind. For KindTerms, input is the term list.
func (s *Service) Generate(ctx context.Context, kind Kind, input string) (string, error) {
	switch kind {
	case KindSummary:
		return s.Summary(ctx, input)
	case KindFindings:
		return s.KeyFindings(ctx, input)
	case KindQuestions:
		return s.CriticalQuestions(ctx, input)
	case KindTerms:
		return s.ExplainTerms(ctx, input)
	default:
		return "", fmt.Errorf("unknown insight %q: use summary, findings, questions, or terms", kind)
	}
}

// All generates the summary, findings, and questions concurrently. The
// first failure cancels the others.
func (s *Service) All(ctx context.Context, text string) (Report, error) {
	if s.provider == nil {
		return Report{}, ErrNoProvider
	}

	var r Report
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		r.Summary, err = s.Summary(gctx, text)
		return err
	})
	g.Go(func() (err error) {
		r.Findings, err = s.KeyFindings(gctx, text)
		return err
	})
	g.Go(func() (err error) {
		r.Questions, err = s.CriticalQuestions(gctx, text)
		return err
	})
	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	return r, nil
}

func (s *Service) ask(ctx context.Context, kind Kind, body string) (string, error) {
	if s.provider == nil {
		return "", ErrNoProvider
	}

	p := prompts[kind]
	req := llm.Request{
		Prompt:      p.instruction + body,
		Model:       s.model,
		Temperature: s.temperature,
		MaxTokens:   p.maxTokens,
	}
	model := req.Model
	if model == "" {
		model = llm.DefaultModel(s.provider)
	}
	key := cache.Key("insight", s.provider.Name(), llm.Endpoint(s.provider), model,
		fmt.Sprintf("%g|%d", req.Temperature, req.MaxTokens), req.Prompt)

	return cache.Memoize(ctx, s.cache, key, func() (string, error) {
		s.logger.Debug("requesting insight", zap.String("kind", string(kind)), zap.Int("max_tokens", p.maxTokens))
		out, err := s.provider.Generate(ctx, req)
		if err != nil {
			return "", fmt.Errorf("generating %s: %w", kind, err)
		}
		return strings.TrimSpace(out), nil
	})
}
