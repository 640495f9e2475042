package port

import (
	"context"

	"labsight/internal/domain"
)

// SummarizeOutput is the patient-facing synopsis: one short paragraph plus
// one explanation bullet per clinically notable test, in input order.
type SummarizeOutput struct {
	Summary      string
	Explanations []string
	ModelUsed    string
}

// Summarizer abstracts the summarization capability. It only ever receives
// guardrail-approved tests.
type Summarizer interface {
	Summarize(ctx context.Context, tests []domain.LabTest) (*SummarizeOutput, error)
}
