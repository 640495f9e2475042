package normalizer

import (
	"encoding/json"
	"fmt"

	"labsight/internal/domain"
	"labsight/internal/llm"
	"labsight/internal/port"
)

// ParseOutput decodes the JSON normalization contract shared by all
// providers: {"tests": [...], "confidence": ...}. Every test must satisfy
// the LabTest invariants; statuses are rederived from value and reference
// range. The confidence is clamped to the [0,1] domain, never recomputed.
func ParseOutput(text, model, prompt string) (*port.NormalizeOutput, error) {
	var parsed struct {
		Tests      []domain.LabTest `json:"tests"`
		Confidence float64          `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("parsing normalization JSON output: %w (raw: %s)", err, llm.Truncate(text, 500))
	}

	for i := range parsed.Tests {
		if err := parsed.Tests[i].Validate(); err != nil {
			return nil, fmt.Errorf("schema violation in test %d: %w", i, err)
		}
		parsed.Tests[i].DeriveStatus()
	}

	conf := parsed.Confidence
	if conf < 0 {
		conf = 0
	}
	if conf > 1 {
		conf = 1
	}

	return &port.NormalizeOutput{
		Tests:      parsed.Tests,
		Confidence: conf,
		ModelUsed:  model,
		PromptUsed: prompt,
	}, nil
}
