package gemini

import (
	"context"
	"fmt"

	"labsight/internal/config"
	"labsight/internal/judge"
	"labsight/internal/llm"
	"labsight/internal/port"
)

// Judge implements port.Judge using Google's Gemini API.
type Judge struct {
	client *llm.GeminiClient
}

// NewJudge creates a Gemini-based judge from a provider config.
func NewJudge(cfg *config.ProviderConfig) *Judge {
	return &Judge{client: llm.NewGeminiClient(cfg)}
}

// NewJudgeWithEndpoint creates a judge pointing at a custom API endpoint (for testing).
func NewJudgeWithEndpoint(cfg *config.ProviderConfig, endpoint string) *Judge {
	return &Judge{client: llm.NewGeminiClientWithEndpoint(cfg, endpoint)}
}

func (j *Judge) Judge(ctx context.Context, input port.JudgeInput) (*port.JudgeOutput, error) {
	prompt := judge.BuildJudgmentPrompt(input.RawText, input.DisputedNames)

	text, err := j.client.GenerateJSON(ctx, []llm.Part{{Text: prompt}})
	if err != nil {
		return nil, fmt.Errorf("gemini judgment: %w", err)
	}

	return judge.ParseOutput(text, j.client.Model())
}
