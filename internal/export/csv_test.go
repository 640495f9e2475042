package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labsight/internal/domain"
)

func TestWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	row, err := r.Read()
	require.NoError(t, err)

	assert.Len(t, row, 6)
	assert.Equal(t, "Test Name", row[0])
	assert.Equal(t, "Ref High", row[5])
}

func TestWriteTests(t *testing.T) {
	tests := []domain.LabTest{
		{
			Name:     "Hemoglobin",
			Value:    domain.NumberValue(10.2),
			Unit:     "g/dL",
			Status:   domain.TestStatusLow,
			RefRange: &domain.RefRange{Low: 12.0, High: 15.0},
		},
		{
			Name:   "Blood Group",
			Value:  domain.TextValue("B+"),
			Status: domain.TestStatusNormal,
		},
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteTests(tests))
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, []string{"Hemoglobin", "10.2", "g/dL", "low", "12", "15"}, rows[0])
	assert.Equal(t, []string{"Blood Group", "B+", "", "normal", "", ""}, rows[1])
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "Lab_Report_2025", SanitizeFilename("Lab Report / 2025!"))
	assert.Equal(t, "a_b", SanitizeFilename("a___b"))
	assert.Equal(t, "x", SanitizeFilename("__x__"))

	long := make([]byte, 150)
	for i := range long {
		long[i] = 'a'
	}
	assert.Len(t, SanitizeFilename(string(long)), 100)
}

func TestBuildFilename(t *testing.T) {
	name := BuildFilename("lab report", "csv")
	assert.Contains(t, name, "lab_report_")
	assert.Contains(t, name, ".csv")
}
