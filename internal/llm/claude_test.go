package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labsight/internal/config"
)

func TestClaudeClient_GenerateJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		assert.NotEmpty(t, r.Header.Get("anthropic-version"))
		_, _ = w.Write([]byte(`{
			"content": [{"type": "text", "text": "{\"tests\": [], \"confidence\": 0.5}"}],
			"stop_reason": "end_turn"
		}`))
	}))
	defer srv.Close()

	c := NewClaudeClientWithEndpoint(&config.ProviderConfig{APIKey: "secret"}, srv.URL)
	out, err := c.GenerateJSON(context.Background(), []Part{{Text: "normalize"}})

	require.NoError(t, err)
	assert.Equal(t, `{"tests": [], "confidence": 0.5}`, out)
}

func TestClaudeClient_TruncatedOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"content": [{"type": "text", "text": "{\"partial"}],
			"stop_reason": "max_tokens"
		}`))
	}))
	defer srv.Close()

	c := NewClaudeClientWithEndpoint(&config.ProviderConfig{APIKey: "k"}, srv.URL)
	_, err := c.GenerateJSON(context.Background(), []Part{{Text: "x"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "truncated")
}

func TestClaudeClient_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "15")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClaudeClientWithEndpoint(&config.ProviderConfig{APIKey: "k"}, srv.URL)
	_, err := c.GenerateJSON(context.Background(), []Part{{Text: "x"}})

	var rlErr *RateLimitError
	require.ErrorAs(t, err, &rlErr)
	assert.Equal(t, "claude", rlErr.Provider)
	assert.Equal(t, "15s", rlErr.RetryAfter.String())
}
