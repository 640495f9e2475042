package openai

import (
	"context"
	"fmt"

	"labsight/internal/config"
	"labsight/internal/domain"
	"labsight/internal/llm"
	"labsight/internal/port"
	"labsight/internal/summarizer"
)

// Summarizer implements port.Summarizer using the OpenAI Chat Completions API.
type Summarizer struct {
	client *llm.OpenAIClient
}

// NewSummarizer creates an OpenAI-based summarizer from a provider config.
func NewSummarizer(cfg *config.ProviderConfig) *Summarizer {
	return &Summarizer{client: llm.NewOpenAIClient(cfg)}
}

// NewSummarizerWithEndpoint creates a summarizer pointing at a custom API endpoint (for testing).
func NewSummarizerWithEndpoint(cfg *config.ProviderConfig, endpoint string) *Summarizer {
	return &Summarizer{client: llm.NewOpenAIClientWithEndpoint(cfg, endpoint)}
}

func (s *Summarizer) Summarize(ctx context.Context, tests []domain.LabTest) (*port.SummarizeOutput, error) {
	prompt := summarizer.BuildSummaryPrompt(tests)

	text, err := s.client.GenerateJSON(ctx, []llm.Part{{Text: prompt}})
	if err != nil {
		return nil, fmt.Errorf("openai summarization: %w", err)
	}

	return summarizer.ParseOutput(text, s.client.Model())
}
