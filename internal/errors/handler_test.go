package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHandler() *ErrorHandler {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewErrorHandler(logger, false)
}

func TestErrorToProblem(t *testing.T) {
	h := testHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/data/summary", nil)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{
			name:       "context deadline",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "api error dataset not found",
			err:        ErrDatasetNotFound,
			wantStatus: http.StatusNotFound,
			wantType:   TypeDatasetNotFound,
		},
		{
			name:       "api error validation",
			err:        ErrValidation("risk_level", "invalid value"),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
		},
		{
			name:       "no dataset message",
			err:        errors.New("no dataset loaded"),
			wantStatus: http.StatusNotFound,
			wantType:   TypeDatasetNotFound,
		},
		{
			name:       "unsupported format message",
			err:        errors.New("unsupported format: pdf"),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeUnsupportedFormat,
		},
		{
			name:       "generic error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problem := h.ErrorToProblem(tt.err, req)
			require.NotNil(t, problem)
			assert.Equal(t, tt.wantStatus, problem.Status)
			assert.Equal(t, tt.wantType, problem.Type)
			assert.Equal(t, "/api/data/summary", problem.Instance)
		})
	}
}

func TestErrorToProblemAppErrors(t *testing.T) {
	h := testHandler()
	req := httptest.NewRequest(http.MethodPost, "/api/data/upload", nil)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{
			name:       "parsing error",
			err:        NewParsingError("parse workbook roster.xlsx", errors.New("zip: not a valid zip file")),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeDataCorrupted,
		},
		{
			name:       "validation error",
			err:        NewAppValidationError("risk_level must be a known band"),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
		},
		{
			name:       "not found error",
			err:        NewNotFoundError("dataset"),
			wantStatus: http.StatusNotFound,
			wantType:   TypeNotFound,
		},
		{
			name:       "storage error stays generic",
			err:        NewStorageError("stage upload roster.xlsx", errors.New("disk full")),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
		{
			name:       "config error stays generic",
			err:        NewConfigError("load engine config", errors.New("bad yaml")),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problem := h.ErrorToProblem(tt.err, req)
			require.NotNil(t, problem)
			assert.Equal(t, tt.wantStatus, problem.Status)
			assert.Equal(t, tt.wantType, problem.Type)
		})
	}

	// Wrapped AppErrors still map, and their context rides along.
	wrapped := NewParsingError("parse upload", errors.New("bad header")).WithContext("source", "roster.csv")
	problem := h.ErrorToProblem(fmt.Errorf("upload failed: %w", wrapped), req)
	assert.Equal(t, TypeDataCorrupted, problem.Type)

	raw, err := json.Marshal(problem)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "roster.csv")
}

func TestHandleErrorWritesProblemJSON(t *testing.T) {
	h := testHandler()
	req := httptest.NewRequest(http.MethodPost, "/api/data/process", nil)
	rec := httptest.NewRecorder()

	h.HandleError(rec, req, ErrValidationFailed)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, TypeValidation, body["type"])
	assert.Equal(t, "VALIDATION_FAILED", body["error_code"])
}

func TestProblemDetailsMarshalIncludesExtensions(t *testing.T) {
	problem := NewProblemDetails(http.StatusConflict, TypeConflict, "Conflict", "detail", "/x").
		WithExtension("retry_after", 60)

	raw, err := json.Marshal(problem)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, float64(60), decoded["retry_after"])
	assert.Equal(t, float64(http.StatusConflict), decoded["status"])
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("bad line")
	err := NewParsingError("parse upload", cause).WithContext("line", 7)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "PARSING")
	assert.Equal(t, 7, err.Context["line"])
}
