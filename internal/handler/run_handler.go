package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"path"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"labsight/internal/domain"
	"labsight/internal/export"
	"labsight/internal/service"
)

// RunHandler handles archived pipeline run endpoints.
type RunHandler struct {
	reportService service.ReportService
}

// NewRunHandler creates a new RunHandler.
func NewRunHandler(reportService service.ReportService) *RunHandler {
	return &RunHandler{reportService: reportService}
}

// List handles GET /api/v1/runs
// @Summary List pipeline runs
// @Description List archived pipeline runs with pagination
// @Tags runs
// @Produce json
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.PipelineRun,meta=PagMeta}
// @Failure 404 {object} ErrorResponseBody "Archive disabled"
// @Router /runs [get]
func (h *RunHandler) List(c *gin.Context) {
	offset := 0
	limit := 20
	if s := c.Query("offset"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid 'offset': must be a non-negative integer")
			return
		}
		offset = v
	}
	if s := c.Query("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid 'limit': must be a positive integer")
			return
		}
		limit = v
	}
	if limit > 100 {
		limit = 100
	}

	runs, total, err := h.reportService.ListRuns(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, runs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Get handles GET /api/v1/runs/:id
// @Summary Get a pipeline run
// @Description Fetch a single archived pipeline run by ID
// @Tags runs
// @Produce json
// @Param id path string true "Run ID (UUID)"
// @Success 200 {object} Response{data=domain.PipelineRun}
// @Failure 400 {object} ErrorResponseBody "Invalid run ID"
// @Failure 404 {object} ErrorResponseBody "Run not found or archive disabled"
// @Router /runs/{id} [get]
func (h *RunHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid run id: must be a valid UUID")
		return
	}

	run, err := h.reportService.GetRun(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, run)
}

// Original handles GET /api/v1/runs/:id/original
// @Summary Download a run's original upload
// @Description Download the original report document stored when the run was processed
// @Tags runs
// @Produce application/pdf
// @Produce image/png
// @Produce image/jpeg
// @Param id path string true "Run ID (UUID)"
// @Success 200 {file} file "Original report document"
// @Failure 400 {object} ErrorResponseBody "Invalid run ID"
// @Failure 404 {object} ErrorResponseBody "Run or original not found, or archive disabled"
// @Router /runs/{id}/original [get]
func (h *RunHandler) Original(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid run id: must be a valid UUID")
		return
	}

	orig, err := h.reportService.GetOriginal(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	name := "original_" + id.String()[:8] + path.Ext(orig.Key)
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, orig.ContentType, orig.Data)
}

// Delete handles DELETE /api/v1/runs/:id
// @Summary Delete a pipeline run
// @Description Remove an archived run and its stored original upload
// @Tags runs
// @Produce json
// @Param id path string true "Run ID (UUID)"
// @Success 200 {object} Response
// @Failure 400 {object} ErrorResponseBody "Invalid run ID"
// @Failure 404 {object} ErrorResponseBody "Run not found or archive disabled"
// @Router /runs/{id} [delete]
func (h *RunHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid run id: must be a valid UUID")
		return
	}

	if err := h.reportService.DeleteRun(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"id": id})
}

// Export handles GET /api/v1/runs/:id/export
// @Summary Export a run's lab tests
// @Description Download the structured tests of a successful run as CSV or XLSX
// @Tags runs
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Run ID (UUID)"
// @Param format query string false "Export format: csv or xlsx" default(csv)
// @Success 200 {file} file "Exported tests"
// @Failure 400 {object} ErrorResponseBody "Invalid run ID, format, or run not exportable"
// @Failure 404 {object} ErrorResponseBody "Run not found or archive disabled"
// @Router /runs/{id}/export [get]
func (h *RunHandler) Export(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid run id: must be a valid UUID")
		return
	}

	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid 'format': must be csv or xlsx")
		return
	}

	run, err := h.reportService.GetRun(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	if run.Status != domain.PipelineStatusOK || len(run.Tests) == 0 {
		HandleError(c, domain.ErrRunNotExportable)
		return
	}

	var tests []domain.LabTest
	if err := json.Unmarshal(run.Tests, &tests); err != nil {
		HandleError(c, domain.ErrRunNotExportable)
		return
	}
	if len(tests) == 0 {
		HandleError(c, domain.ErrRunNotExportable)
		return
	}

	name := "lab_report_" + run.ID.String()[:8]
	switch format {
	case "xlsx":
		data, err := export.WriteXLSX(tests)
		if err != nil {
			HandleError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+export.BuildFilename(name, "xlsx")+`"`)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	default:
		var buf bytes.Buffer
		buf.Write(export.BOM)
		w := export.NewWriter(&buf)
		if err := w.WriteHeader(); err != nil {
			HandleError(c, err)
			return
		}
		if err := w.WriteTests(tests); err != nil {
			HandleError(c, err)
			return
		}
		w.Flush()
		if err := w.Error(); err != nil {
			HandleError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+export.BuildFilename(name, "csv")+`"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	}
}
