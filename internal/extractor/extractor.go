package extractor

import (
	"context"
	"fmt"
	"net/http"

	"labsight/internal/domain"
	"labsight/internal/port"
)

// Input is the raw material handed to a pipeline run: plain report text or
// the bytes of a scanned report, never both.
type Input struct {
	Text        string
	FileBytes   []byte
	ContentType string
}

// Extraction is the first stage's output: the raw report text plus the
// extraction confidence. Text input carries confidence 1.0 since no lossy
// recognition occurred; for images the external service's own estimate is
// passed through.
type Extraction struct {
	RawText    string
	Confidence float64
	Kind       domain.InputKind
}

// Extractor turns pipeline input into raw text, delegating scanned input to
// the external recognition service.
type Extractor struct {
	recognizer port.Recognizer
}

// New creates an Extractor backed by the given recognizer.
func New(recognizer port.Recognizer) *Extractor {
	return &Extractor{recognizer: recognizer}
}

// Extract resolves the input to raw text. Failures here are terminal for
// the pipeline; no retry is attempted.
func (e *Extractor) Extract(ctx context.Context, in Input) (*Extraction, error) {
	if in.Text != "" {
		return &Extraction{RawText: in.Text, Confidence: 1.0, Kind: domain.InputKindText}, nil
	}
	if len(in.FileBytes) == 0 {
		return nil, domain.ErrMissingInput
	}

	contentType := in.ContentType
	if _, ok := domain.AllowedContentTypes[contentType]; !ok {
		contentType = http.DetectContentType(in.FileBytes)
	}
	ft, ok := domain.AllowedContentTypes[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, contentType)
	}

	out, err := e.recognizer.Recognize(ctx, port.RecognizeInput{
		FileBytes:   in.FileBytes,
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("recognizing report: %w", err)
	}

	return &Extraction{
		RawText:    out.Text,
		Confidence: out.Confidence,
		Kind:       domain.InputKindForFileType(ft),
	}, nil
}
