package port

import "context"

// RecognizeInput carries the image (or PDF) bytes handed to the external
// recognition service.
type RecognizeInput struct {
	FileBytes   []byte
	ContentType string
}

// RecognizeOutput is the recognized text plus the service's own confidence
// estimate in [0,1]. The confidence is propagated, never recomputed.
type RecognizeOutput struct {
	Text       string
	Confidence float64
	ModelUsed  string
}

// Recognizer abstracts the external optical-recognition capability.
type Recognizer interface {
	Recognize(ctx context.Context, input RecognizeInput) (*RecognizeOutput, error)
}
