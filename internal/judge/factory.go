package judge

import (
	"encoding/json"
	"fmt"

	"labsight/internal/config"
	"labsight/internal/llm"
	"labsight/internal/port"
)

// ProviderFactory is a function that creates a Judge from a provider config.
type ProviderFactory func(cfg *config.ProviderConfig) (port.Judge, error)

// registry of judgment provider factories, populated via RegisterProvider.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a judgment provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewJudge creates a Judge from a provider config using the registered factory.
func NewJudge(cfg *config.ProviderConfig) (port.Judge, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown judgment provider: %s", cfg.Provider)
	}
	return factory(cfg)
}

// ParseOutput decodes the JSON verdict contract shared by all judgment
// providers: {"verdicts": {name: bool}}.
func ParseOutput(text, model string) (*port.JudgeOutput, error) {
	var parsed struct {
		Verdicts map[string]bool `json:"verdicts"`
	}
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("parsing verdict JSON output: %w (raw: %s)", err, llm.Truncate(text, 500))
	}
	if parsed.Verdicts == nil {
		return nil, fmt.Errorf("verdict JSON output missing verdicts object (raw: %s)", llm.Truncate(text, 500))
	}
	return &port.JudgeOutput{
		Verdicts:  parsed.Verdicts,
		ModelUsed: model,
	}, nil
}
