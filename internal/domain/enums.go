package domain

// PipelineStatus is the terminal status of a pipeline invocation.
type PipelineStatus string

const (
	// PipelineStatusOK means every stage completed and the result carries
	// tests, a summary, and explanations.
	PipelineStatusOK PipelineStatus = "ok"
	// PipelineStatusUnprocessed means the guardrail rejected the normalized
	// output; the result carries a reason. This is a modeled outcome, not a
	// failure.
	PipelineStatusUnprocessed PipelineStatus = "unprocessed"
	// PipelineStatusError means a stage failed; the result carries a message.
	PipelineStatusError PipelineStatus = "error"
)

// TestStatus flags a lab value relative to its reference interval.
type TestStatus string

const (
	TestStatusLow    TestStatus = "low"
	TestStatusHigh   TestStatus = "high"
	TestStatusNormal TestStatus = "normal"
)

// InputKind records what form of input a pipeline run received.
type InputKind string

const (
	InputKindText  InputKind = "text"
	InputKindImage InputKind = "image"
	InputKindPDF   InputKind = "pdf"
)

// FileType represents the allowed file types for upload.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeJPG FileType = "jpg"
	FileTypePNG FileType = "png"
)

// AllowedContentTypes maps MIME content types to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
}

// InputKindForFileType maps an uploaded file type to the input kind
// recorded on the archived run.
func InputKindForFileType(ft FileType) InputKind {
	if ft == FileTypePDF {
		return InputKindPDF
	}
	return InputKindImage
}
