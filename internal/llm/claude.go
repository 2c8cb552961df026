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

// defaultClaudeBaseURL is the Anthropic API root.
const defaultClaudeBaseURL = "https://api.anthropic.com"

// Claude calls the Anthropic Messages API.
type Claude struct {
	APIKey  string
	BaseURL string
	Model   string
	Client  *http.Client
}

// NewClaude returns a Claude provider. Empty baseURL and model select the
// defaults.
func NewClaude(apiKey, baseURL, model string) *Claude {
	return &Claude{
		APIKey:  apiKey,
		BaseURL: modelOr(baseURL, defaultClaudeBaseURL),
		Model:   modelOr(model, DefaultClaudeModel),
	}
}

// claudeRequest is the request body for the Messages API.
type claudeRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature *float64        `json:"temperature,omitempty"`
	Messages    []claudeMessage `json:"messages"`
}

// claudeMessage is a single message in the conversation.
type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// claudeResponse is the response body from the Messages API.
type claudeResponse struct {
	Content []claudeContent `json:"content"`
}

// claudeContent is a content block in the response.
type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Name returns "claude".
func (c *Claude) Name() string { return "claude" }

// DefaultModel returns the model used when a request names none.
func (c *Claude) DefaultModel() string { return c.Model }

// Endpoint returns the API root.
func (c *Claude) Endpoint() string { return c.BaseURL }

// Generate sends the prompt as a single user message and returns the
// concatenated text blocks of the reply.
func (c *Claude) Generate(ctx context.Context, req Request) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	temp := req.Temperature

	reqBody := claudeRequest{
		Model:       modelOr(req.Model, c.Model),
		MaxTokens:   maxTokens,
		Temperature: &temp,
		Messages: []claudeMessage{
			{Role: "user", Content: req.Prompt},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := strings.TrimRight(c.BaseURL, "/") + "/v1/messages"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.APIKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, httpReq, 0)
	if err != nil {
		return "", fmt.Errorf("calling Claude API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Claude API returned %d: %s", resp.StatusCode, string(body))
	}

	var cResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("decoding Claude response: %w", err)
	}

	var sb strings.Builder
	for _, block := range cResp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no text content in Claude API response")
	}
	return sb.String(), nil
}
