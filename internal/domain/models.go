package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// RefRange is the reference interval printed next to a lab value.
// Absent when the source report provides no interval.
type RefRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// LabTest is one parsed measurement from a lab report.
// Name is the free-form label as it appears in the source; it is not mapped
// to a canonical vocabulary. Status is advisory, derived from Value against
// RefRange when both are numeric.
type LabTest struct {
	Name     string     `json:"name"`
	Value    TestValue  `json:"value"`
	Unit     string     `json:"unit"`
	Status   TestStatus `json:"status"`
	RefRange *RefRange  `json:"ref_range,omitempty"`
}

// Validate checks the LabTest invariants: a non-empty name and a value
// present in some form.
func (t *LabTest) Validate() error {
	if t.Name == "" {
		return ErrMissingTestName
	}
	if t.Value.IsZero() {
		return ErrMissingTestValue
	}
	return nil
}

// DeriveStatus recomputes Status from Value and RefRange. When both are
// numeric the comparison overrides whatever the normalizer claimed;
// otherwise the claimed status is kept if valid, defaulting to normal.
func (t *LabTest) DeriveStatus() {
	if t.RefRange != nil && t.Value.IsNumber {
		switch {
		case t.Value.Number < t.RefRange.Low:
			t.Status = TestStatusLow
		case t.Value.Number > t.RefRange.High:
			t.Status = TestStatusHigh
		default:
			t.Status = TestStatusNormal
		}
		return
	}
	switch t.Status {
	case TestStatusLow, TestStatusHigh, TestStatusNormal:
	default:
		t.Status = TestStatusNormal
	}
}

// PipelineResult is the terminal artifact of one pipeline invocation.
// Exactly one of {Tests+Summary+Explanations, Reason, Message} is populated,
// determined by Status. Confidence comes from the extraction stage and
// NormalizationConfidence from the normalization stage, both unmodified.
type PipelineResult struct {
	Status                  PipelineStatus `json:"status"`
	Tests                   []LabTest      `json:"tests,omitempty"`
	Summary                 string         `json:"summary,omitempty"`
	Explanations            []string       `json:"explanations,omitempty"`
	Confidence              float64        `json:"confidence"`
	NormalizationConfidence float64        `json:"normalization_confidence"`
	Reason                  string         `json:"reason,omitempty"`
	Message                 string         `json:"message,omitempty"`
}

// PipelineRun is an archived pipeline invocation. The pipeline itself is
// stateless; runs are recorded after the envelope is assembled, when the
// archive is enabled.
type PipelineRun struct {
	ID                      uuid.UUID       `db:"id" json:"id"`
	RequestID               string          `db:"request_id" json:"request_id"`
	Status                  PipelineStatus  `db:"status" json:"status"`
	InputKind               InputKind       `db:"input_kind" json:"input_kind"`
	S3Bucket                string          `db:"s3_bucket" json:"s3_bucket,omitempty"`
	S3Key                   string          `db:"s3_key" json:"s3_key,omitempty"`
	Tests                   json.RawMessage `db:"tests" json:"tests,omitempty"`
	Summary                 string          `db:"summary" json:"summary,omitempty"`
	Explanations            json.RawMessage `db:"explanations" json:"explanations,omitempty"`
	Confidence              float64         `db:"confidence" json:"confidence"`
	NormalizationConfidence float64         `db:"normalization_confidence" json:"normalization_confidence"`
	Reason                  string          `db:"reason" json:"reason,omitempty"`
	Message                 string          `db:"message" json:"message,omitempty"`
	CreatedAt               time.Time       `db:"created_at" json:"created_at"`
}
