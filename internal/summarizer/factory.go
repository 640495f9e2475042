package summarizer

import (
	"encoding/json"
	"fmt"

	"labsight/internal/config"
	"labsight/internal/llm"
	"labsight/internal/port"
)

// ProviderFactory is a function that creates a Summarizer from a provider config.
type ProviderFactory func(cfg *config.ProviderConfig) (port.Summarizer, error)

// registry of summarization provider factories, populated via RegisterProvider.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a summarization provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewSummarizer creates a Summarizer from a provider config using the registered factory.
func NewSummarizer(cfg *config.ProviderConfig) (port.Summarizer, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown summarization provider: %s", cfg.Provider)
	}
	return factory(cfg)
}

// ParseOutput decodes the JSON summary contract shared by all providers:
// {"summary": ..., "explanations": [...]}. An empty summary is a failure;
// an empty explanations array is valid (all findings normal).
func ParseOutput(text, model string) (*port.SummarizeOutput, error) {
	var parsed struct {
		Summary      string   `json:"summary"`
		Explanations []string `json:"explanations"`
	}
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("parsing summary JSON output: %w (raw: %s)", err, llm.Truncate(text, 500))
	}
	if parsed.Summary == "" {
		return nil, fmt.Errorf("empty summary in output (raw: %s)", llm.Truncate(text, 500))
	}
	if parsed.Explanations == nil {
		parsed.Explanations = []string{}
	}
	return &port.SummarizeOutput{
		Summary:      parsed.Summary,
		Explanations: parsed.Explanations,
		ModelUsed:    model,
	}, nil
}
