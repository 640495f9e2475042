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

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// Part is one piece of a Gemini request: either text or inline binary data.
type Part struct {
	Text        string
	FileBytes   []byte
	ContentType string
}

// GeminiClient calls Google's Gemini generateContent API and returns the
// raw text of the first candidate.
type GeminiClient struct {
	apiKey      string
	model       string
	endpoint    string
	temperature float64
	maxTokens   int
	client      *http.Client
}

// NewGeminiClient creates a Gemini client from a provider config.
func NewGeminiClient(cfg *config.ProviderConfig) *GeminiClient {
	return newGeminiClient(cfg, "")
}

// NewGeminiClientWithEndpoint creates a client pointing at a custom API endpoint (for testing).
func NewGeminiClientWithEndpoint(cfg *config.ProviderConfig, endpoint string) *GeminiClient {
	return newGeminiClient(cfg, endpoint)
}

func newGeminiClient(cfg *config.ProviderConfig, endpoint string) *GeminiClient {
	model := cfg.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	maxTokens := cfg.MaxOutputTokens
	if maxTokens == 0 {
		maxTokens = 8192
	}
	if endpoint == "" {
		endpoint = fmt.Sprintf("%s/%s:generateContent", geminiBaseURL, model)
	}
	return &GeminiClient{
		apiKey:      cfg.APIKey,
		model:       model,
		endpoint:    endpoint,
		temperature: cfg.Temperature,
		maxTokens:   maxTokens,
		client:      &http.Client{Timeout: timeout},
	}
}

// Model returns the model name used by this client.
func (c *GeminiClient) Model() string { return c.model }

// GenerateJSON sends the parts as a single user turn in JSON response mode
// and returns the text of the first candidate part.
func (c *GeminiClient) GenerateJSON(ctx context.Context, parts []Part) (string, error) {
	reqParts := make([]map[string]interface{}, 0, len(parts))
	for _, p := range parts {
		if p.FileBytes != nil {
			reqParts = append(reqParts, map[string]interface{}{
				"inline_data": map[string]interface{}{
					"mime_type": p.ContentType,
					"data":      base64.StdEncoding.EncodeToString(p.FileBytes),
				},
			})
			continue
		}
		reqParts = append(reqParts, map[string]interface{}{"text": p.Text})
	}

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"role":  "user",
				"parts": reqParts,
			},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
			"temperature":      c.temperature,
			"maxOutputTokens":  c.maxTokens,
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
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling gemini API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode, string(respBody))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return "", NewRateLimitError("gemini", baseErr, retryAfter)
		}
		return "", baseErr
	}

	var parsed geminiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("unmarshaling response: %w", err)
	}
	if len(parsed.Candidates) == 0 {
		return "", fmt.Errorf("empty response from API: no candidates")
	}
	if len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from API: no parts")
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

// geminiResponse models the Gemini API response.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}
