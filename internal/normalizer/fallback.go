package normalizer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"labsight/internal/llm"
	"labsight/internal/port"
)

// circuitState tracks rate-limit backoff for a single provider.
type circuitState struct {
	mu      sync.RWMutex
	resetAt time.Time // zero value = closed (healthy)
}

func (c *circuitState) isOpenWithReset(now time.Time) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resetAt, !c.resetAt.IsZero() && now.Before(c.resetAt)
}

func (c *circuitState) open(resetAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetAt = resetAt
}

// FallbackNormalizer tries providers in order, skipping those with open
// circuits. Each provider is called at most once per invocation; this is
// provider redundancy, not stage retry. It implements port.Normalizer.
type FallbackNormalizer struct {
	normalizers []port.Normalizer
	circuits    []*circuitState
	names       []string
}

// NewFallbackNormalizer creates a FallbackNormalizer from an ordered list of
// providers and their names.
func NewFallbackNormalizer(normalizers []port.Normalizer, names []string) *FallbackNormalizer {
	circuits := make([]*circuitState, len(normalizers))
	for i := range circuits {
		circuits[i] = &circuitState{}
	}
	return &FallbackNormalizer{
		normalizers: normalizers,
		circuits:    circuits,
		names:       names,
	}
}

func (f *FallbackNormalizer) Normalize(ctx context.Context, rawText string) (*port.NormalizeOutput, error) {
	now := time.Now()
	var lastErr error
	allRateLimited := true
	var earliestReset time.Time

	for i, n := range f.normalizers {
		if resetAt, open := f.circuits[i].isOpenWithReset(now); open {
			log.Printf("normalizer.FallbackNormalizer: skipping %s (circuit open until %s)", f.names[i], resetAt.Format(time.RFC3339))
			if earliestReset.IsZero() || resetAt.Before(earliestReset) {
				earliestReset = resetAt
			}
			continue
		}

		out, err := n.Normalize(ctx, rawText)
		if err == nil {
			return out, nil
		}

		log.Printf("normalizer.FallbackNormalizer: %s failed: %v", f.names[i], err)
		lastErr = err

		var rlErr *llm.RateLimitError
		if errors.As(err, &rlErr) {
			resetAt := now.Add(rlErr.RetryAfter)
			f.circuits[i].open(resetAt)
			if earliestReset.IsZero() || resetAt.Before(earliestReset) {
				earliestReset = resetAt
			}
		} else {
			allRateLimited = false
		}
	}

	if lastErr == nil || allRateLimited {
		// Every provider was rate limited or skipped on an open circuit
		retryAfter := time.Until(earliestReset)
		if retryAfter < 0 {
			retryAfter = time.Second
		}
		return nil, llm.NewRateLimitError("all", fmt.Errorf("all normalization providers rate limited"), int(retryAfter.Seconds()))
	}

	return nil, fmt.Errorf("all normalization providers failed: %w", lastErr)
}
