package pipeline

import (
	"context"
	"log"
	"time"

	"labsight/internal/domain"
	"labsight/internal/extractor"
	"labsight/internal/guardrail"
	"labsight/internal/port"
)

// stage enumerates the pipeline's ordered states. Keeping the sequence as an
// explicit state machine makes the abort-on-first-failure invariant
// mechanical: a stage either advances the machine or terminates it.
type stage int

const (
	stageExtract stage = iota
	stageNormalize
	stageGuardrail
	stageSummarize
	stageDone
)

func (s stage) String() string {
	switch s {
	case stageExtract:
		return "extract"
	case stageNormalize:
		return "normalize"
	case stageGuardrail:
		return "guardrail"
	case stageSummarize:
		return "summarize"
	default:
		return "done"
	}
}

// Orchestrator sequences the four pipeline stages. It holds no per-run
// state; concurrent Process calls are independent.
type Orchestrator struct {
	extractor    *extractor.Extractor
	normalizer   port.Normalizer
	guardrail    *guardrail.Guardrail
	summarizer   port.Summarizer
	stageTimeout time.Duration
}

// New creates an Orchestrator. stageTimeout bounds each external call; zero
// disables the per-stage bound (the caller's context still applies).
func New(
	ex *extractor.Extractor,
	norm port.Normalizer,
	guard *guardrail.Guardrail,
	sum port.Summarizer,
	stageTimeout time.Duration,
) *Orchestrator {
	return &Orchestrator{
		extractor:    ex,
		normalizer:   norm,
		guardrail:    guard,
		summarizer:   sum,
		stageTimeout: stageTimeout,
	}
}

// Process runs one pipeline invocation to its terminal envelope. Every
// invocation yields exactly one well-formed PipelineResult: tests, summary,
// and explanations for ok; a reason for unprocessed; a message for error.
// No stage is retried and no partial result is ever returned.
func (o *Orchestrator) Process(ctx context.Context, in extractor.Input) *domain.PipelineResult {
	var (
		ext  *extractor.Extraction
		norm *port.NormalizeOutput
		sum  *port.SummarizeOutput
	)

	st := stageExtract
	for st != stageDone {
		switch st {
		case stageExtract:
			out, err := o.stageExtract(ctx, in)
			if err != nil {
				return errorResult(&domain.ExtractionError{Err: err}, 0, 0)
			}
			ext = out
			st = stageNormalize

		case stageNormalize:
			out, err := o.stageNormalize(ctx, ext.RawText)
			if err != nil {
				return errorResult(&domain.NormalizationError{Err: err}, ext.Confidence, 0)
			}
			norm = out
			st = stageGuardrail

		case stageGuardrail:
			decision := o.stageGuardrail(ctx, ext.RawText, norm.Tests)
			if !decision.Accepted {
				log.Printf("pipeline: guardrail rejected %d test(s): %s", len(decision.Rejected), decision.Reason)
				return &domain.PipelineResult{
					Status:                  domain.PipelineStatusUnprocessed,
					Confidence:              ext.Confidence,
					NormalizationConfidence: norm.Confidence,
					Reason:                  decision.Reason,
				}
			}
			st = stageSummarize

		case stageSummarize:
			out, err := o.stageSummarize(ctx, norm.Tests)
			if err != nil {
				return errorResult(&domain.SummarizationError{Err: err}, ext.Confidence, norm.Confidence)
			}
			sum = out
			st = stageDone
		}
	}

	return &domain.PipelineResult{
		Status:                  domain.PipelineStatusOK,
		Tests:                   norm.Tests,
		Summary:                 sum.Summary,
		Explanations:            sum.Explanations,
		Confidence:              ext.Confidence,
		NormalizationConfidence: norm.Confidence,
	}
}

func (o *Orchestrator) stageExtract(ctx context.Context, in extractor.Input) (*extractor.Extraction, error) {
	ctx, cancel := o.stageContext(ctx)
	defer cancel()
	return o.extractor.Extract(ctx, in)
}

func (o *Orchestrator) stageNormalize(ctx context.Context, rawText string) (*port.NormalizeOutput, error) {
	ctx, cancel := o.stageContext(ctx)
	defer cancel()
	return o.normalizer.Normalize(ctx, rawText)
}

func (o *Orchestrator) stageGuardrail(ctx context.Context, rawText string, tests []domain.LabTest) guardrail.Decision {
	ctx, cancel := o.stageContext(ctx)
	defer cancel()
	return o.guardrail.Verify(ctx, rawText, tests)
}

func (o *Orchestrator) stageSummarize(ctx context.Context, tests []domain.LabTest) (*port.SummarizeOutput, error) {
	ctx, cancel := o.stageContext(ctx)
	defer cancel()
	return o.summarizer.Summarize(ctx, tests)
}

func (o *Orchestrator) stageContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.stageTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, o.stageTimeout)
}

func errorResult(err error, confidence, normConfidence float64) *domain.PipelineResult {
	log.Printf("pipeline: %v", err)
	return &domain.PipelineResult{
		Status:                  domain.PipelineStatusError,
		Confidence:              confidence,
		NormalizationConfidence: normConfidence,
		Message:                 err.Error(),
	}
}
