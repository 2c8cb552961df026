// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm abstracts the language-model collaborator. A Provider turns a
// prompt plus generation parameters into text; the extraction and insight
// stages depend only on this interface so tests can supply a mock and the
// backend (Claude, Cohere, OpenAI) is chosen by configuration.
package llm

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pdiddy/paper-analyzer/pkg/types"
)

// Default model identifiers per provider.
const (
	DefaultClaudeModel = "claude-sonnet-4-5-20250929"
	DefaultCohereModel = "command-a-03-2025"
	DefaultOpenAIModel = "gpt-4.1-mini"
)

// Request is one generation call.
type Request struct {
	Prompt      string
	Model       string
	Temperature float64
	MaxTokens   int
}

// Provider generates text for a prompt. Implementations return an error on
// transport or provider failure and never retry on their own beyond HTTP
// rate limiting; wrap with Retrying for that.
type Provider interface {
	Generate(ctx context.Context, req Request) (string, error)
	Name() string
}

// Identifier is implemented by providers that can report the model a
// request without Model resolves to and the API root it is sent to.
type Identifier interface {
	DefaultModel() string
	Endpoint() string
}

// DefaultModel returns p's default model, or "" when p does not report one.
func DefaultModel(p Provider) string {
	if id, ok := p.(Identifier); ok {
		return id.DefaultModel()
	}
	return ""
}

// Endpoint returns p's API root, or "" when p does not report one.
func Endpoint(p Provider) string {
	if id, ok := p.(Identifier); ok {
		return id.Endpoint()
	}
	return ""
}

// New builds the provider named by cfg.Provider. It returns a nil Provider
// and no error when the provider is unset or has no API key: running
// without a model is a valid configuration.
func New(cfg types.AIConfig, logger *zap.Logger) (Provider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Provider == "" {
		logger.Debug("no model provider configured")
		return nil, nil
	}
	if cfg.APIKey == "" {
		logger.Warn("model provider has no API key, using heuristics only", zap.String("provider", cfg.Provider))
		return nil, nil
	}

	var p Provider
	switch cfg.Provider {
	case types.ProviderClaude:
		p = NewClaude(cfg.APIKey, cfg.BaseURL, cfg.Model)
	case types.ProviderCohere:
		p = NewCohere(cfg.APIKey, cfg.BaseURL, cfg.Model)
	case types.ProviderOpenAI:
		p = NewOpenAI(cfg.APIKey, cfg.BaseURL, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown model provider %q: use claude, cohere, or openai", cfg.Provider)
	}

	if cfg.MaxRetries > 0 {
		p = &Retrying{Provider: p, MaxRetries: cfg.MaxRetries}
	}
	if cfg.RequestsPerMinute > 0 {
		p = NewRateLimited(p, cfg.RequestsPerMinute)
	}

	logger.Debug("model provider ready",
		zap.String("provider", p.Name()),
		zap.String("model", modelOr(cfg.Model, DefaultModel(p))),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Int("requests_per_minute", cfg.RequestsPerMinute))
	return p, nil
}

// RateLimited spaces calls to the wrapped provider.
type RateLimited struct {
	Provider Provider
	limiter  *rate.Limiter
}

// NewRateLimited allows perMinute calls per minute with a burst of one.
func NewRateLimited(p Provider, perMinute int) *RateLimited {
	return &RateLimited{
		Provider: p,
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1),
	}
}

// Generate waits for a token, then delegates.
func (r *RateLimited) Generate(ctx context.Context, req Request) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("waiting for rate limiter: %w", err)
	}
	return r.Provider.Generate(ctx, req)
}

// Name returns the wrapped provider's name.
func (r *RateLimited) Name() string {
	return r.Provider.Name()
}

// DefaultModel returns the wrapped provider's default model.
func (r *RateLimited) DefaultModel() string { return DefaultModel(r.Provider) }

// Endpoint returns the wrapped provider's endpoint.
func (r *RateLimited) Endpoint() string { return Endpoint(r.Provider) }

// modelOr returns model, or fallback when model is empty.
func modelOr(model, fallback string) string {
	if model != "" {
		return model
	}
	return fallback
}
