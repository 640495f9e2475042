package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labsight/internal/domain"
)

func TestParseOutput_Valid(t *testing.T) {
	raw := `{
		"tests": [
			{"name": "Hemoglobin", "value": 10.2, "unit": "g/dL", "status": "low", "ref_range": {"low": 12.0, "high": 15.0}},
			{"name": "Blood Group", "value": "B+", "status": "normal"}
		],
		"confidence": 0.93
	}`

	out, err := ParseOutput(raw, "gemini-2.0-flash", "prompt")
	require.NoError(t, err)

	require.Len(t, out.Tests, 2)
	assert.Equal(t, "Hemoglobin", out.Tests[0].Name)
	assert.True(t, out.Tests[0].Value.IsNumber)
	assert.Equal(t, 10.2, out.Tests[0].Value.Number)
	assert.Equal(t, domain.TestStatusLow, out.Tests[0].Status)
	assert.Equal(t, "B+", out.Tests[1].Value.Text)
	assert.Equal(t, 0.93, out.Confidence)
	assert.Equal(t, "gemini-2.0-flash", out.ModelUsed)
}

func TestParseOutput_StatusRederivedFromRange(t *testing.T) {
	// Claimed status contradicts the value and reference range.
	raw := `{
		"tests": [
			{"name": "Hemoglobin", "value": 16.5, "unit": "g/dL", "status": "low", "ref_range": {"low": 12.0, "high": 15.0}}
		],
		"confidence": 1.0
	}`

	out, err := ParseOutput(raw, "m", "p")
	require.NoError(t, err)
	assert.Equal(t, domain.TestStatusHigh, out.Tests[0].Status)
}

func TestParseOutput_MissingName(t *testing.T) {
	raw := `{"tests": [{"name": "", "value": 5}], "confidence": 0.5}`

	_, err := ParseOutput(raw, "m", "p")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingTestName)
}

func TestParseOutput_MissingValue(t *testing.T) {
	raw := `{"tests": [{"name": "Glucose"}], "confidence": 0.5}`

	_, err := ParseOutput(raw, "m", "p")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingTestValue)
}

func TestParseOutput_InvalidJSON(t *testing.T) {
	_, err := ParseOutput("not json at all", "m", "p")
	require.Error(t, err)
}

func TestParseOutput_ConfidenceClamped(t *testing.T) {
	raw := `{"tests": [], "confidence": 1.7}`
	out, err := ParseOutput(raw, "m", "p")
	require.NoError(t, err)
	assert.Equal(t, 1.0, out.Confidence)

	raw = `{"tests": [], "confidence": -0.2}`
	out, err = ParseOutput(raw, "m", "p")
	require.NoError(t, err)
	assert.Equal(t, 0.0, out.Confidence)
}
