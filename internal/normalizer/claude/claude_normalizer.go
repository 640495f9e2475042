package claude

import (
	"context"
	"fmt"

	"labsight/internal/config"
	"labsight/internal/llm"
	"labsight/internal/normalizer"
	"labsight/internal/port"
)

// Normalizer implements port.Normalizer using the Anthropic Messages API.
type Normalizer struct {
	client *llm.ClaudeClient
}

// NewNormalizer creates a Claude-based normalizer from a provider config.
func NewNormalizer(cfg *config.ProviderConfig) *Normalizer {
	return &Normalizer{client: llm.NewClaudeClient(cfg)}
}

// NewNormalizerWithEndpoint creates a normalizer pointing at a custom API endpoint (for testing).
func NewNormalizerWithEndpoint(cfg *config.ProviderConfig, endpoint string) *Normalizer {
	return &Normalizer{client: llm.NewClaudeClientWithEndpoint(cfg, endpoint)}
}

func (n *Normalizer) Normalize(ctx context.Context, rawText string) (*port.NormalizeOutput, error) {
	prompt := normalizer.BuildNormalizationPrompt(rawText)

	text, err := n.client.GenerateJSON(ctx, []llm.Part{{Text: prompt}})
	if err != nil {
		return nil, fmt.Errorf("claude normalization: %w", err)
	}

	return normalizer.ParseOutput(text, n.client.Model(), prompt)
}
