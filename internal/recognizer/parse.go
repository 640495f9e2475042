package recognizer

import (
	"encoding/json"
	"fmt"

	"labsight/internal/llm"
	"labsight/internal/port"
)

// ParseOutput decodes the JSON transcription contract shared by all
// recognition providers: {"text": ..., "confidence": ...}. The confidence
// is the service's own estimate, clamped to the [0,1] domain but otherwise
// never recomputed.
func ParseOutput(text, model string) (*port.RecognizeOutput, error) {
	var parsed struct {
		Text       string  `json:"text"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("parsing transcription JSON output: %w (raw: %s)", err, llm.Truncate(text, 500))
	}

	conf := parsed.Confidence
	if conf < 0 {
		conf = 0
	}
	if conf > 1 {
		conf = 1
	}

	return &port.RecognizeOutput{
		Text:       parsed.Text,
		Confidence: conf,
		ModelUsed:  model,
	}, nil
}

// ValidateContentType rejects inputs the recognition providers cannot decode.
func ValidateContentType(contentType string) error {
	switch contentType {
	case "application/pdf", "image/jpeg", "image/png":
		return nil
	default:
		return fmt.Errorf("unsupported content type for recognition: %s", contentType)
	}
}
