package normalizer

import (
	"fmt"

	"labsight/internal/config"
	"labsight/internal/port"
)

// ProviderFactory is a function that creates a Normalizer from a provider config.
type ProviderFactory func(cfg *config.ProviderConfig) (port.Normalizer, error)

// registry of normalization provider factories, populated via RegisterProvider.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a normalization provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewNormalizer creates a Normalizer from a provider config using the registered factory.
func NewNormalizer(cfg *config.ProviderConfig) (port.Normalizer, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown normalization provider: %s", cfg.Provider)
	}
	return factory(cfg)
}

// NewFromConfig builds the configured normalizer chain: the primary provider
// alone, or a fallback chain when secondary/tertiary providers are set.
func NewFromConfig(cfg *config.NormalizerConfig) (port.Normalizer, error) {
	primary, err := NewNormalizer(&cfg.Primary)
	if err != nil {
		return nil, err
	}

	chain := []port.Normalizer{primary}
	names := []string{cfg.Primary.Provider}

	if sec := cfg.SecondaryConfig(); sec != nil {
		n, err := NewNormalizer(sec)
		if err != nil {
			return nil, err
		}
		chain = append(chain, n)
		names = append(names, sec.Provider)
	}
	if ter := cfg.TertiaryConfig(); ter != nil {
		n, err := NewNormalizer(ter)
		if err != nil {
			return nil, err
		}
		chain = append(chain, n)
		names = append(names, ter.Provider)
	}

	if len(chain) == 1 {
		return primary, nil
	}
	return NewFallbackNormalizer(chain, names), nil
}
