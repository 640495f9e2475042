package port

import (
	"context"

	"labsight/internal/domain"
)

// NormalizeOutput is the schema-constrained normalization result: an ordered
// list of lab tests plus the service's confidence in [0,1].
type NormalizeOutput struct {
	Tests      []domain.LabTest
	Confidence float64
	ModelUsed  string
	PromptUsed string
}

// Normalizer abstracts the structured-normalization capability: raw report
// text in, fixed-schema lab tests out.
type Normalizer interface {
	Normalize(ctx context.Context, rawText string) (*NormalizeOutput, error)
}
