// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/paper-analyzer/internal/httputil"
)

const defaultCohereBaseURL = "https://api.cohere.com"

// Cohere calls the Cohere chat endpoint.
type Cohere struct {
	APIKey  string
	BaseURL string
	Model   string
	Client  *http.Client
}

// NewCohere returns a Cohere provider. Empty baseURL and model select the
// defaults.
func NewCohere(apiKey, baseURL, model string) *Cohere {
	return &Cohere{
		APIKey:  apiKey,
		BaseURL: modelOr(baseURL, defaultCohereBaseURL),
		Model:   modelOr(model, DefaultCohereModel),
	}
}

type cohereRequest struct {
	Message     string  `json:"message"`
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
}

type cohereResponse struct {
	Text string `json:"text"`
}

// Name returns "cohere".
func (c *Cohere) Name() string { return "cohere" }

// DefaultModel returns the model used when a request names none.
func (c *Cohere) DefaultModel() string { return c.Model }

// Endpoint returns the API root.
func (c *Cohere) Endpoint() string { return c.BaseURL }

// Generate sends the prompt as a chat message and returns the reply text.
func (c *Cohere) Generate(ctx context.Context, req Request) (string, error) {
	bodyBytes, err := json.Marshal(cohereRequest{
		Message:     req.Prompt,
		Model:       modelOr(req.Model, c.Model),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := strings.TrimRight(c.BaseURL, "/") + "/v1/chat"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, httpReq, 0)
	if err != nil {
		return "", fmt.Errorf("calling Cohere API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Cohere API returned %d: %s", resp.StatusCode, string(body))
	}

	var cResp cohereResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("decoding Cohere response: %w", err)
	}
	return cResp.Text, nil
}
