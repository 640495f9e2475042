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

const openaiURL = "https://api.openai.com/v1/chat/completions"

// OpenAIClient calls the OpenAI Chat Completions API in JSON mode and
// returns the message content of the first choice.
type OpenAIClient struct {
	apiKey      string
	model       string
	endpoint    string
	temperature float64
	maxTokens   int
	client      *http.Client
}

// NewOpenAIClient creates an OpenAI client from a provider config.
func NewOpenAIClient(cfg *config.ProviderConfig) *OpenAIClient {
	return newOpenAIClient(cfg, openaiURL)
}

// NewOpenAIClientWithEndpoint creates a client pointing at a custom API endpoint (for testing).
func NewOpenAIClientWithEndpoint(cfg *config.ProviderConfig, endpoint string) *OpenAIClient {
	return newOpenAIClient(cfg, endpoint)
}

func newOpenAIClient(cfg *config.ProviderConfig, endpoint string) *OpenAIClient {
	model := cfg.Model
	if model == "" {
		model = "gpt-4o"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	maxTokens := cfg.MaxOutputTokens
	if maxTokens == 0 {
		maxTokens = 8192
	}
	return &OpenAIClient{
		apiKey:      cfg.APIKey,
		model:       model,
		endpoint:    endpoint,
		temperature: cfg.Temperature,
		maxTokens:   maxTokens,
		client:      &http.Client{Timeout: timeout},
	}
}

// Model returns the model name used by this client.
func (c *OpenAIClient) Model() string { return c.model }

// GenerateJSON sends the parts as a single user message with
// response_format json_object and returns the first choice's content.
func (c *OpenAIClient) GenerateJSON(ctx context.Context, parts []Part) (string, error) {
	blocks, err := buildOpenAIBlocks(parts)
	if err != nil {
		return "", fmt.Errorf("building content blocks: %w", err)
	}

	reqBody := map[string]interface{}{
		"model":                 c.model,
		"temperature":           c.temperature,
		"max_completion_tokens": c.maxTokens,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": blocks,
			},
		},
		"response_format": map[string]interface{}{
			"type": "json_object",
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
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling openai API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("openai API error (status %d): %s", resp.StatusCode, string(respBody))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return "", NewRateLimitError("openai", baseErr, retryAfter)
		}
		return "", baseErr
	}

	var parsed openaiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("unmarshaling response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("empty response from API: no choices")
	}
	if parsed.Choices[0].FinishReason == "length" {
		return "", fmt.Errorf("output truncated (finish_reason: length): response exceeded output token limit")
	}
	return parsed.Choices[0].Message.Content, nil
}

func buildOpenAIBlocks(parts []Part) ([]map[string]interface{}, error) {
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
		dataURI := fmt.Sprintf("data:%s;base64,%s", p.ContentType, encoded)
		switch p.ContentType {
		case "application/pdf":
			blocks = append(blocks, map[string]interface{}{
				"type": "file",
				"file": map[string]interface{}{
					"filename":  "report.pdf",
					"file_data": dataURI,
				},
			})
		case "image/jpeg", "image/png":
			blocks = append(blocks, map[string]interface{}{
				"type": "image_url",
				"image_url": map[string]interface{}{
					"url": dataURI,
				},
			})
		default:
			return nil, fmt.Errorf("unsupported content type: %s", p.ContentType)
		}
	}
	return blocks, nil
}

// openaiResponse models the OpenAI Chat Completions API response.
type openaiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}
