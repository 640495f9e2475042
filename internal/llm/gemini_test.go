package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labsight/internal/config"
)

func geminiSuccessBody(text string) string {
	body := map[string]interface{}{
		"candidates": []map[string]interface{}{
			{
				"content": map[string]interface{}{
					"parts": []map[string]interface{}{{"text": text}},
				},
				"finishReason": "STOP",
			},
		},
	}
	b, _ := json.Marshal(body)
	return string(b)
}

func TestGeminiClient_GenerateJSON(t *testing.T) {
	var gotRequest map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(geminiSuccessBody(`{"text": "Hemoglobin 10.2", "confidence": 0.9}`)))
	}))
	defer srv.Close()

	c := NewGeminiClientWithEndpoint(&config.ProviderConfig{APIKey: "secret", Temperature: 0.1}, srv.URL)
	out, err := c.GenerateJSON(context.Background(), []Part{{Text: "transcribe this"}})

	require.NoError(t, err)
	assert.Equal(t, `{"text": "Hemoglobin 10.2", "confidence": 0.9}`, out)

	genCfg := gotRequest["generationConfig"].(map[string]interface{})
	assert.Equal(t, "application/json", genCfg["responseMimeType"])
	assert.InDelta(t, 0.1, genCfg["temperature"], 1e-9)
}

func TestGeminiClient_InlineData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		contents := req["contents"].([]interface{})
		parts := contents[0].(map[string]interface{})["parts"].([]interface{})
		require.Len(t, parts, 2)
		inline := parts[0].(map[string]interface{})["inline_data"].(map[string]interface{})
		assert.Equal(t, "image/png", inline["mime_type"])
		assert.NotEmpty(t, inline["data"])
		_, _ = w.Write([]byte(geminiSuccessBody("{}")))
	}))
	defer srv.Close()

	c := NewGeminiClientWithEndpoint(&config.ProviderConfig{APIKey: "k"}, srv.URL)
	_, err := c.GenerateJSON(context.Background(), []Part{
		{FileBytes: []byte{1, 2, 3}, ContentType: "image/png"},
		{Text: "transcribe"},
	})
	require.NoError(t, err)
}

func TestGeminiClient_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": "quota exceeded"}`))
	}))
	defer srv.Close()

	c := NewGeminiClientWithEndpoint(&config.ProviderConfig{APIKey: "k"}, srv.URL)
	_, err := c.GenerateJSON(context.Background(), []Part{{Text: "x"}})

	var rlErr *RateLimitError
	require.ErrorAs(t, err, &rlErr)
	assert.Equal(t, "gemini", rlErr.Provider)
	assert.Equal(t, "30s", rlErr.RetryAfter.String())
}

func TestGeminiClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewGeminiClientWithEndpoint(&config.ProviderConfig{APIKey: "k"}, srv.URL)
	_, err := c.GenerateJSON(context.Background(), []Part{{Text: "x"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestGeminiClient_NoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates": []}`))
	}))
	defer srv.Close()

	c := NewGeminiClientWithEndpoint(&config.ProviderConfig{APIKey: "k"}, srv.URL)
	_, err := c.GenerateJSON(context.Background(), []Part{{Text: "x"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}
