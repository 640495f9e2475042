package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"labsight/internal/config"
)

const (
	claudeURL        = "https://api.anthropic.com/v1/messages"
	claudeAPIVersion = "2023-06-01"
)

// ClaudeClient calls the Anthropic Messages API and returns the text of the
// first content block.
type ClaudeClient struct {
	apiKey      string
	model       string
	endpoint    string
	temperature float64
	maxTokens   int
	client      *http.Client
}

// NewClaudeClient creates a Claude client from a provider config.
func NewClaudeClient(cfg *config.ProviderConfig) *ClaudeClient {
	return newClaudeClient(cfg, claudeURL)
}

// NewClaudeClientWithEndpoint creates a client pointing at a custom API endpoint (for testing).
func NewClaudeClientWithEndpoint(cfg *config.ProviderConfig, endpoint string) *ClaudeClient {
	return newClaudeClient(cfg, endpoint)
}

func newClaudeClient(cfg *config.ProviderConfig, endpoint string) *ClaudeClient {
	model := cfg.Model
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	maxTokens := cfg.MaxOutputTokens
	if maxTokens == 0 {
		maxTokens = 8192
	}
	return &ClaudeClient{
		apiKey:      cfg.APIKey,
		model:       model,
		endpoint:    endpoint,
		temperature: cfg.Temperature,
		maxTokens:   maxTokens,
		client:      &http.Client{Timeout: timeout},
	}
}

// Model returns the model name used by this client.
func (c *ClaudeClient) Model() string { return c.model }

// GenerateJSON sends the parts as a single user message and returns the
// first content block's text. The prompt itself must pin the JSON shape;
// the Messages API has no JSON response mode.
func (c *ClaudeClient) GenerateJSON(ctx context.Context, parts []Part) (string, error) {
	blocks, err := buildClaudeBlocks(parts)
	if err != nil {
		return "", fmt.Errorf("building content blocks: %w", err)
	}

	reqBody := map[string]interface{}{
		"model":       c.model,
		"max_tokens":  c.maxTokens,
		"temperature": c.temperature,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": blocks,
			},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", claudeAPIVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling anthropic API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("anthropic API error (status %d): %s", resp.StatusCode, string(respBody))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return "", NewRateLimitError("claude", baseErr, retryAfter)
		}
		return "", baseErr
	}

	var parsed claudeResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("unmarshaling response: %w", err)
	}
	if len(parsed.Content) == 0 {
		return "", fmt.Errorf("empty response from API")
	}
	if parsed.StopReason == "max_tokens" {
		return "", fmt.Errorf("output truncated (stop_reason: max_tokens): response exceeded output token limit")
	}
	return parsed.Content[0].Text, nil
}

func buildClaudeBlocks(parts []Part) ([]map[string]interface{}, error) {
	var blocks []map[string]interface{}
	for _, p := range parts {
		if p.FileBytes == nil {
			blocks = append(blocks, map[string]interface{}{
				"type": "text",
				"text": p.Text,
			})
			continue
		}
		encoded := base64.StdEncoding.EncodeToString(p.FileBytes)
		switch p.ContentType {
		case "application/pdf":
			blocks = append(blocks, map[string]interface{}{
				"type": "document",
				"source": map[string]interface{}{
					"type":       "base64",
					"media_type": "application/pdf",
					"data":       encoded,
				},
			})
		case "image/jpeg", "image/png":
			blocks = append(blocks, map[string]interface{}{
				"type": "image",
				"source": map[string]interface{}{
					"type":       "base64",
					"media_type": p.ContentType,
					"data":       encoded,
				},
			})
		default:
			return nil, fmt.Errorf("unsupported content type: %s", p.ContentType)
		}
	}
	return blocks, nil
}

// claudeResponse models the Anthropic Messages API response.
type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}
