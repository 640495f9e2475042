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

func TestOpenAIClient_GenerateJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		rf := req["response_format"].(map[string]interface{})
		assert.Equal(t, "json_object", rf["type"])

		_, _ = w.Write([]byte(`{
			"choices": [{"message": {"content": "{\"summary\": \"all good\"}"}, "finish_reason": "stop"}]
		}`))
	}))
	defer srv.Close()

	c := NewOpenAIClientWithEndpoint(&config.ProviderConfig{APIKey: "secret"}, srv.URL)
	out, err := c.GenerateJSON(context.Background(), []Part{{Text: "summarize"}})

	require.NoError(t, err)
	assert.Equal(t, `{"summary": "all good"}`, out)
}

func TestOpenAIClient_TruncatedOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"choices": [{"message": {"content": "{\"partial"}, "finish_reason": "length"}]
		}`))
	}))
	defer srv.Close()

	c := NewOpenAIClientWithEndpoint(&config.ProviderConfig{APIKey: "k"}, srv.URL)
	_, err := c.GenerateJSON(context.Background(), []Part{{Text: "x"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "truncated")
}

func TestOpenAIClient_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewOpenAIClientWithEndpoint(&config.ProviderConfig{APIKey: "k"}, srv.URL)
	_, err := c.GenerateJSON(context.Background(), []Part{{Text: "x"}})

	var rlErr *RateLimitError
	require.ErrorAs(t, err, &rlErr)
	assert.Equal(t, "openai", rlErr.Provider)
	assert.Equal(t, "1m0s", rlErr.RetryAfter.String(), "missing Retry-After falls back to 60s")
}
