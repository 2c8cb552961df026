// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
)

// defaultOpenAIBaseURL is the SDK's default API root.
const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAI calls the OpenAI Responses API through the official SDK.
type OpenAI struct {
	client  openai.Client
	model   string
	baseURL string
}

// NewOpenAI returns an OpenAI provider. The SDK's own retries are disabled;
// wrap with Retrying to retry.
func NewOpenAI(apiKey, baseURL, model string) *OpenAI {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAI{
		client:  openai.NewClient(opts...),
		model:   modelOr(model, DefaultOpenAIModel),
		baseURL: modelOr(baseURL, defaultOpenAIBaseURL),
	}
}

// DefaultModel returns the model used when a request names none.
func (o *OpenAI) DefaultModel() string { return o.model }

// Endpoint returns the API root.
func (o *OpenAI) Endpoint() string { return o.baseURL }

// Name returns "openai".
func (o *OpenAI) Name() string { return "openai" }

// Generate sends the prompt as the response input and returns the
// aggregated output text.
func (o *OpenAI) Generate(ctx context.Context, req Request) (string, error) {
	params := responses.ResponseNewParams{
		Model: modelOr(req.Model, o.model),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(req.Prompt),
		},
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxOutputTokens = openai.Int(int64(req.MaxTokens))
	}

	resp, err := o.client.Responses.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("calling OpenAI API: %w", err)
	}
	return resp.OutputText(), nil
}
