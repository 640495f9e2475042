package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMissingInput        = errors.New("either text or a file must be provided")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrRunNotFound         = errors.New("pipeline run not found")
	ErrRunNotExportable    = errors.New("run has no structured tests to export")
	ErrOriginalNotFound    = errors.New("no original upload is stored for this run")
	ErrArchiveDisabled     = errors.New("run archive is not enabled")
	ErrMissingTestName     = errors.New("lab test name must be non-empty")
	ErrMissingTestValue    = errors.New("lab test value must be present")
)

// ExtractionError is a terminal failure of the text extraction stage:
// undecodable input or an unreachable recognition service.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// NormalizationError is a terminal failure of the normalization stage:
// the generative service returned unparseable structured output or timed out.
type NormalizationError struct {
	Err error
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalization failed: %v", e.Err)
}

func (e *NormalizationError) Unwrap() error { return e.Err }

// SummarizationError is a terminal failure of the summarization stage:
// the generative service returned empty or unparseable output.
type SummarizationError struct {
	Err error
}

func (e *SummarizationError) Error() string {
	return fmt.Sprintf("summarization failed: %v", e.Err)
}

func (e *SummarizationError) Unwrap() error { return e.Err }
