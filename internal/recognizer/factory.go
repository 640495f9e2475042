package recognizer

import (
	"fmt"

	"labsight/internal/config"
	"labsight/internal/port"
)

// ProviderFactory is a function that creates a Recognizer from a provider config.
type ProviderFactory func(cfg *config.ProviderConfig) (port.Recognizer, error)

// registry of recognition provider factories, populated via RegisterProvider.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a recognition provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewRecognizer creates a Recognizer from a provider config using the registered factory.
func NewRecognizer(cfg *config.ProviderConfig) (port.Recognizer, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown recognition provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
