package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labsight/internal/config"
	"labsight/internal/domain"
)

func geminiBody(t *testing.T, text string) []byte {
	t.Helper()
	b, err := json.Marshal(map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{
				"parts": []map[string]interface{}{{"text": text}},
			}},
		},
	})
	require.NoError(t, err)
	return b
}

func TestNormalize(t *testing.T) {
	payload := `{
		"tests": [
			{"name": "Hemoglobin", "value": 10.2, "unit": "g/dL", "status": "normal", "ref_range": {"low": 12.0, "high": 15.0}}
		],
		"confidence": 0.93
	}`
	var gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotPrompt = req.Contents[0].Parts[0].Text
		_, _ = w.Write(geminiBody(t, payload))
	}))
	defer srv.Close()

	n := NewNormalizerWithEndpoint(&config.ProviderConfig{APIKey: "k", Model: "gemini-2.0-flash"}, srv.URL)
	out, err := n.Normalize(context.Background(), "Hemoglobin 10.2 g/dL (Low) Ref: 12.0 - 15.0")

	require.NoError(t, err)
	require.Len(t, out.Tests, 1)
	assert.Equal(t, "Hemoglobin", out.Tests[0].Name)
	// Status is rederived from the reference range, overriding the model's claim.
	assert.Equal(t, domain.TestStatusLow, out.Tests[0].Status)
	assert.Equal(t, 0.93, out.Confidence)
	assert.Equal(t, "gemini-2.0-flash", out.ModelUsed)
	assert.Contains(t, gotPrompt, "Hemoglobin 10.2 g/dL")
	assert.Equal(t, gotPrompt, out.PromptUsed)
}

func TestNormalize_UnparseableOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(geminiBody(t, "I'm sorry, I cannot read this report."))
	}))
	defer srv.Close()

	n := NewNormalizerWithEndpoint(&config.ProviderConfig{APIKey: "k"}, srv.URL)
	_, err := n.Normalize(context.Background(), "raw")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing normalization JSON output")
}
