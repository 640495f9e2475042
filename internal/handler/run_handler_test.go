package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"labsight/internal/domain"
	"labsight/internal/service"
)

func setupRunRouter(svc *MockReportService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewRunHandler(svc)
	r.GET("/api/v1/runs", h.List)
	r.GET("/api/v1/runs/:id", h.Get)
	r.GET("/api/v1/runs/:id/export", h.Export)
	r.GET("/api/v1/runs/:id/original", h.Original)
	r.DELETE("/api/v1/runs/:id", h.Delete)
	return r
}

func okRun(id uuid.UUID) *domain.PipelineRun {
	tests, _ := json.Marshal([]domain.LabTest{{
		Name:     "Hemoglobin",
		Value:    domain.NumberValue(10.2),
		Unit:     "g/dL",
		Status:   domain.TestStatusLow,
		RefRange: &domain.RefRange{Low: 12.0, High: 15.0},
	}})
	return &domain.PipelineRun{
		ID:     id,
		Status: domain.PipelineStatusOK,
		Tests:  tests,
	}
}

func TestListRuns(t *testing.T) {
	svc := new(MockReportService)
	svc.On("ListRuns", mock.Anything, 0, 20).
		Return([]domain.PipelineRun{{ID: uuid.New()}}, 1, nil)

	r := setupRunRouter(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/runs", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 1, resp.Meta.Total)
	assert.Equal(t, 20, resp.Meta.Limit)
}

func TestListRuns_LimitCapped(t *testing.T) {
	svc := new(MockReportService)
	svc.On("ListRuns", mock.Anything, 0, 100).Return([]domain.PipelineRun{}, 0, nil)

	r := setupRunRouter(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/runs?limit=500", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestListRuns_InvalidOffset(t *testing.T) {
	svc := new(MockReportService)
	r := setupRunRouter(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/runs?offset=banana", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListRuns_ArchiveDisabled(t *testing.T) {
	svc := new(MockReportService)
	svc.On("ListRuns", mock.Anything, 0, 20).Return(nil, 0, domain.ErrArchiveDisabled)

	r := setupRunRouter(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/runs", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetRun(t *testing.T) {
	svc := new(MockReportService)
	id := uuid.New()
	svc.On("GetRun", mock.Anything, id).Return(okRun(id), nil)

	r := setupRunRouter(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/runs/"+id.String(), nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetRun_NotFound(t *testing.T) {
	svc := new(MockReportService)
	id := uuid.New()
	svc.On("GetRun", mock.Anything, id).Return(nil, domain.ErrRunNotFound)

	r := setupRunRouter(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/runs/"+id.String(), nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetRun_InvalidID(t *testing.T) {
	svc := new(MockReportService)
	r := setupRunRouter(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/runs/not-a-uuid", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportRun_CSV(t *testing.T) {
	svc := new(MockReportService)
	id := uuid.New()
	svc.On("GetRun", mock.Anything, id).Return(okRun(id), nil)

	r := setupRunRouter(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/runs/"+id.String()+"/export", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")

	body := w.Body.String()
	assert.Contains(t, body, "Test Name")
	assert.Contains(t, body, "Hemoglobin")
	assert.True(t, strings.HasPrefix(body, "\xEF\xBB\xBF"), "CSV starts with a UTF-8 BOM")
}

func TestExportRun_XLSX(t *testing.T) {
	svc := new(MockReportService)
	id := uuid.New()
	svc.On("GetRun", mock.Anything, id).Return(okRun(id), nil)

	r := setupRunRouter(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/runs/"+id.String()+"/export?format=xlsx", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	// XLSX files are zip archives.
	assert.Equal(t, []byte{'P', 'K'}, w.Body.Bytes()[:2])
}

func TestExportRun_InvalidFormat(t *testing.T) {
	svc := new(MockReportService)
	id := uuid.New()

	r := setupRunRouter(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/runs/"+id.String()+"/export?format=docx", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "GetRun", mock.Anything, mock.Anything)
}

func TestDownloadOriginal(t *testing.T) {
	svc := new(MockReportService)
	id := uuid.New()
	svc.On("GetOriginal", mock.Anything, id).Return(&service.OriginalUpload{
		Data:        []byte{0x89, 'P', 'N', 'G'},
		ContentType: "image/png",
		Key:         "reports/" + id.String() + ".png",
	}, nil)

	r := setupRunRouter(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/runs/"+id.String()+"/original", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".png")
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, w.Body.Bytes())
}

func TestDownloadOriginal_NotStored(t *testing.T) {
	svc := new(MockReportService)
	id := uuid.New()
	svc.On("GetOriginal", mock.Anything, id).Return(nil, domain.ErrOriginalNotFound)

	r := setupRunRouter(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/runs/"+id.String()+"/original", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ORIGINAL_NOT_FOUND", resp.Error.Code)
}

func TestDeleteRun(t *testing.T) {
	svc := new(MockReportService)
	id := uuid.New()
	svc.On("DeleteRun", mock.Anything, id).Return(nil)

	r := setupRunRouter(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/runs/"+id.String(), nil))

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestDeleteRun_InvalidID(t *testing.T) {
	svc := new(MockReportService)
	r := setupRunRouter(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/runs/not-a-uuid", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "DeleteRun", mock.Anything, mock.Anything)
}

func TestExportRun_UnprocessedRunNotExportable(t *testing.T) {
	svc := new(MockReportService)
	id := uuid.New()
	svc.On("GetRun", mock.Anything, id).Return(&domain.PipelineRun{
		ID:     id,
		Status: domain.PipelineStatusUnprocessed,
		Reason: "rejected",
	}, nil)

	r := setupRunRouter(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/runs/"+id.String()+"/export", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "RUN_NOT_EXPORTABLE", resp.Error.Code)
}
