package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"labsight/internal/middleware"
	"labsight/internal/service"
)

// ReportHandler handles lab report processing endpoints.
type ReportHandler struct {
	reportService service.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

type processTextRequest struct {
	Text string `json:"text"`
}

// Process handles POST /api/v1/reports/process
// @Summary Process a lab report
// @Description Run a lab report (raw text, PDF, JPG, or PNG) through the analysis pipeline
// @Tags reports
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Param text body processTextRequest false "Raw report text (JSON body)"
// @Param file formData file false "Report file (PDF, JPG, or PNG)"
// @Success 200 {object} Response{data=domain.PipelineResult} "Pipeline result (status ok, unprocessed, or error)"
// @Failure 400 {object} ErrorResponseBody "Missing input or unsupported file type"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Router /reports/process [post]
func (h *ReportHandler) Process(c *gin.Context) {
	input := service.ProcessInput{RequestID: middleware.GetRequestID(c)}

	contentType := c.ContentType()
	if contentType == "multipart/form-data" {
		file, header, err := c.Request.FormFile("file")
		if err != nil {
			RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
			return
		}
		defer func() { _ = file.Close() }()

		data, err := io.ReadAll(file)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "UNREADABLE_FILE", "could not read uploaded file")
			return
		}
		input.FileBytes = data
		input.ContentType = header.Header.Get("Content-Type")
	} else {
		var req processTextRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "request body must be JSON with a text field, or multipart with a file")
			return
		}
		input.Text = req.Text
	}

	result, err := h.reportService.Process(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	// Unprocessed and error outcomes are still successful HTTP exchanges:
	// the pipeline ran and produced a verdict.
	RespondOK(c, result)
}
