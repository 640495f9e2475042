package gemini

import (
	"context"
	"fmt"

	"labsight/internal/config"
	"labsight/internal/llm"
	"labsight/internal/port"
	"labsight/internal/recognizer"
)

// Recognizer implements port.Recognizer using Google's Gemini vision API.
type Recognizer struct {
	client *llm.GeminiClient
}

// NewRecognizer creates a Gemini-based recognizer from a provider config.
func NewRecognizer(cfg *config.ProviderConfig) *Recognizer {
	return &Recognizer{client: llm.NewGeminiClient(cfg)}
}

// NewRecognizerWithEndpoint creates a recognizer pointing at a custom API endpoint (for testing).
func NewRecognizerWithEndpoint(cfg *config.ProviderConfig, endpoint string) *Recognizer {
	return &Recognizer{client: llm.NewGeminiClientWithEndpoint(cfg, endpoint)}
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
		return nil, fmt.Errorf("gemini recognition: %w", err)
	}

	return recognizer.ParseOutput(text, r.client.Model())
}
