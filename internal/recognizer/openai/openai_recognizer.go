package openai

import (
	"context"
	"fmt"

	"labsight/internal/config"
	"labsight/internal/llm"
	"labsight/internal/port"
	"labsight/internal/recognizer"
)

// Recognizer implements port.Recognizer using the OpenAI Chat Completions API.
type Recognizer struct {
	client *llm.OpenAIClient
}

// NewRecognizer creates an OpenAI-based recognizer from a provider config.
func NewRecognizer(cfg *config.ProviderConfig) *Recognizer {
	return &Recognizer{client: llm.NewOpenAIClient(cfg)}
}

// NewRecognizerWithEndpoint creates a recognizer pointing at a custom API endpoint (for testing).
func NewRecognizerWithEndpoint(cfg *config.ProviderConfig, endpoint string) *Recognizer {
	return &Recognizer{client: llm.NewOpenAIClientWithEndpoint(cfg, endpoint)}
}

func (r *Recognizer) Recognize(ctx context.Context, input port.RecognizeInput) (*port.RecognizeOutput, error) {
	if err := recognizer.ValidateContentType(input.ContentType); err != nil {
		return nil, err
	}

	text, err := r.client.GenerateJSON(ctx, []llm.Part{
		{FileBytes: input.FileBytes, ContentType: input.ContentType},
		{Text: recognizer.BuildTranscriptionPrompt()},
	})
	if err != nil {
		return nil, fmt.Errorf("openai recognition: %w", err)
	}

	return recognizer.ParseOutput(text, r.client.Model())
}
