package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edupulse/internal/config"
	apierrors "edupulse/internal/errors"
	appmw "edupulse/internal/middleware"
	"edupulse/internal/services"
)

const sampleUpload = `student_id,enrollment_date,program,advisor_id,gpa_at_time,attendance_rate,completion_status,support_ticket_count,advisor_meeting_count,credits_earned,total_credits_required
S1,2024-01-15,CS,A1,1.8,0.55,Dropped,6,0,10,120
S2,2024-02-01,CS,A1,3.6,0.95,Completed,0,4,120,120
S3,2024-03-10,Math,A2,2.7,0.80,In Progress,1,1,40,120
`

func newTestRouter(t *testing.T) (chi.Router, *services.DataService) {
	t.Helper()

	cfg := config.Default()
	cfg.Paths.DataDir = t.TempDir()
	cfg.Paths.UploadsDir = cfg.Paths.DataDir + "/uploads"
	cfg.Paths.ReportsDir = cfg.Paths.DataDir + "/reports"
	cfg.Paths.LogsDir = cfg.Paths.DataDir + "/logs"

	paths, err := config.ResolvePaths(cfg.Paths)
	require.NoError(t, err)

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	svc := services.NewDataService(&cfg, paths, logger)

	errorHandler := apierrors.NewErrorHandler(logger, false)
	validation := appmw.NewValidationMiddleware(logger, errorHandler)
	handler := NewDataHandler(svc, logger, errorHandler, validation, cfg.Engine.MaxUploadBytes)

	r := chi.NewRouter()
	r.Mount("/api/data", handler.Routes())
	return r, svc
}

func uploadSample(t *testing.T, router chi.Router) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/data/upload?name=journeys.csv", strings.NewReader(sampleUpload))
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestUploadRawBody(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/data/upload?name=journeys.csv", strings.NewReader(sampleUpload))
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "success", body["status"])

	dataset := body["dataset"].(map[string]any)
	assert.Equal(t, float64(3), dataset["record_count"])
	assert.Equal(t, "journeys.csv", dataset["source_name"])
}

func TestUploadMultipart(t *testing.T) {
	router, _ := newTestRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "cohort.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(sampleUpload))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/data/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "cohort.csv")
}

func TestUploadEmptyDatasetRejected(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/data/upload", strings.NewReader("student_id,gpa\n"))
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "EMPTY_DATASET")
}

func TestSummaryWithoutDataset(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/data/summary", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), apierrors.TypeDatasetNotFound)
}

func TestSummaryAfterUpload(t *testing.T) {
	router, _ := newTestRouter(t)
	uploadSample(t, router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/data/summary", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status  string `json:"status"`
		Summary struct {
			TotalStudents  int     `json:"total_students"`
			CompletionRate float64 `json:"completion_rate"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "success", body.Status)
	assert.Equal(t, 3, body.Summary.TotalStudents)
}

func TestProcessWithFilters(t *testing.T) {
	router, _ := newTestRouter(t)
	uploadSample(t, router)

	payload := `{"programs":["CS"],"risk_level":"high"}`
	req := httptest.NewRequest(http.MethodPost, "/api/data/process", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Data struct {
			Students []struct {
				StudentID string `json:"student_id"`
			} `json:"students"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data.Students, 1)
	assert.Equal(t, "S1", body.Data.Students[0].StudentID)
}

func TestProcessRejectsInvalidRiskLevel(t *testing.T) {
	router, _ := newTestRouter(t)
	uploadSample(t, router)

	req := httptest.NewRequest(http.MethodPost, "/api/data/process", strings.NewReader(`{"risk_level":"extreme"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "risk_level")
}

func TestProcessRejectsNonJSONContentType(t *testing.T) {
	router, _ := newTestRouter(t)
	uploadSample(t, router)

	req := httptest.NewRequest(http.MethodPost, "/api/data/process", strings.NewReader("risk_level=high"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNSUPPORTED_MEDIA_TYPE")
}

func TestBreakdownByAdvisor(t *testing.T) {
	router, _ := newTestRouter(t)
	uploadSample(t, router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/data/breakdown?by=advisor", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		By     string `json:"by"`
		Count  int    `json:"count"`
		Groups []struct {
			Key string `json:"key"`
		} `json:"groups"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "advisor", body.By)
	require.Equal(t, 2, body.Count)
	assert.Equal(t, "A1", body.Groups[0].Key)
}

func TestBreakdownRejectsUnknownDimension(t *testing.T) {
	router, _ := newTestRouter(t)
	uploadSample(t, router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/data/breakdown?by=cohort", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportCSV(t *testing.T) {
	router, _ := newTestRouter(t)
	uploadSample(t, router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/data/export/csv?programs=CS", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "student_profiles.csv")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	// Header plus the two CS students.
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "S1,CS"))
	assert.True(t, strings.HasPrefix(lines[2], "S2,CS"))
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	router, _ := newTestRouter(t)
	uploadSample(t, router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/data/export/pdf", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportXLSX(t *testing.T) {
	router, _ := newTestRouter(t)
	uploadSample(t, router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/data/export/xlsx", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")
	assert.NotZero(t, rec.Body.Len())
}

func TestGetDataset(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/data/dataset", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	uploadSample(t, router)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/data/dataset", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "journeys.csv")
}
