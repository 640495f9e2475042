package extractor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"labsight/internal/domain"
	"labsight/internal/port"
	"labsight/mocks"
)

// pngHeader is enough for http.DetectContentType to sniff image/png.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func TestExtract_TextInput(t *testing.T) {
	rec := new(mocks.MockRecognizer)
	e := New(rec)

	out, err := e.Extract(context.Background(), Input{Text: "Hemoglobin 10.2 g/dL"})

	require.NoError(t, err)
	assert.Equal(t, "Hemoglobin 10.2 g/dL", out.RawText)
	assert.Equal(t, 1.0, out.Confidence)
	assert.Equal(t, domain.InputKindText, out.Kind)
	rec.AssertNotCalled(t, "Recognize", mock.Anything, mock.Anything)
}

func TestExtract_MissingInput(t *testing.T) {
	e := New(new(mocks.MockRecognizer))

	_, err := e.Extract(context.Background(), Input{})
	assert.ErrorIs(t, err, domain.ErrMissingInput)
}

func TestExtract_ImageInput(t *testing.T) {
	rec := new(mocks.MockRecognizer)
	rec.On("Recognize", mock.Anything, port.RecognizeInput{
		FileBytes:   pngHeader,
		ContentType: "image/png",
	}).Return(&port.RecognizeOutput{Text: "WBC Count: 5600", Confidence: 0.82}, nil)
	e := New(rec)

	out, err := e.Extract(context.Background(), Input{FileBytes: pngHeader, ContentType: "image/png"})

	require.NoError(t, err)
	assert.Equal(t, "WBC Count: 5600", out.RawText)
	assert.Equal(t, 0.82, out.Confidence)
	assert.Equal(t, domain.InputKindImage, out.Kind)
	rec.AssertExpectations(t)
}

func TestExtract_ContentTypeSniffedWhenMissing(t *testing.T) {
	rec := new(mocks.MockRecognizer)
	rec.On("Recognize", mock.Anything, mock.MatchedBy(func(in port.RecognizeInput) bool {
		return in.ContentType == "image/png"
	})).Return(&port.RecognizeOutput{Text: "x", Confidence: 0.5}, nil)
	e := New(rec)

	_, err := e.Extract(context.Background(), Input{FileBytes: pngHeader})
	require.NoError(t, err)
	rec.AssertExpectations(t)
}

func TestExtract_UnsupportedFileType(t *testing.T) {
	e := New(new(mocks.MockRecognizer))

	_, err := e.Extract(context.Background(), Input{
		FileBytes:   []byte("plain old text bytes"),
		ContentType: "application/zip",
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestExtract_RecognizerFailure(t *testing.T) {
	rec := new(mocks.MockRecognizer)
	rec.On("Recognize", mock.Anything, mock.Anything).Return(nil, errors.New("service down"))
	e := New(rec)

	_, err := e.Extract(context.Background(), Input{FileBytes: pngHeader, ContentType: "image/png"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recognizing report")
}
