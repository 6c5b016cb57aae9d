package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantDetail string
		wantCode   string
	}{
		{
			name:       "api error",
			err:        InvalidFileType([]string{".xlsx", ".xls"}),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
			wantDetail: "Invalid file type. Allowed: .xlsx, .xls",
			wantCode:   "INVALID_FILE_TYPE",
		},
		{
			name:       "file too large",
			err:        FileTooLarge(50 * 1024 * 1024),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
			wantDetail: "File too large. Max size: 50.0MB",
			wantCode:   "FILE_TOO_LARGE",
		},
		{
			name:       "wrapped not found",
			err:        fmt.Errorf("lookup: %w", NewNotFoundError("Analysis not found: abc", nil)),
			wantStatus: http.StatusNotFound,
			wantType:   TypeNotFound,
			wantDetail: "Analysis not found: abc",
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "validation shows cause",
			err:        NewAppValidationError("invalid analysis request", errors.New("Unsupported format: pdf")),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
			wantDetail: "Unsupported format: pdf",
			wantCode:   "VALIDATION",
		},
		{
			name:       "parsing error",
			err:        NewParsingError("Invalid file structure", errors.New("File is empty")),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeParsing,
			wantDetail: "Invalid file structure: File is empty",
			wantCode:   "PARSING",
		},
		{
			name:       "analysis error",
			err:        NewAnalysisError("Analysis failed: Analysis error: boom", nil),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeAnalysis,
			wantDetail: "Analysis failed: Analysis error: boom",
			wantCode:   "ANALYSIS",
		},
		{
			name:       "deadline",
			err:        fmt.Errorf("analyze: %w", context.DeadlineExceeded),
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "body too large",
			err:        &http.MaxBytesError{Limit: 10},
			wantStatus: http.StatusRequestEntityTooLarge,
			wantType:   TypePayloadTooLarge,
		},
		{
			name:       "unknown error hides message",
			err:        errors.New("disk exploded"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
			wantDetail: "An unexpected error occurred while processing your request",
		},
	}

	h := NewErrorHandler(nil, false)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/analysis/abc", nil)
			rec := httptest.NewRecorder()

			h.HandleError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeProblem(t, rec)
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, float64(tt.wantStatus), body["status"])
			assert.Equal(t, "/api/v1/analysis/abc", body["instance"])
			if tt.wantDetail != "" {
				assert.Equal(t, tt.wantDetail, body["detail"])
			}
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, body["error_code"])
			}
			assert.Contains(t, body, "trace_id")
		})
	}
}

func TestHandleErrorNil(t *testing.T) {
	rec := httptest.NewRecorder()
	NewErrorHandler(nil, false).HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	assert.Empty(t, rec.Body.String())
}

func TestAppErrorContextBecomesExtension(t *testing.T) {
	err := NewNotFoundError("File not found: u1", nil).WithContext("upload_id", "u1")

	rec := httptest.NewRecorder()
	NewErrorHandler(nil, false).HandleError(rec, httptest.NewRequest(http.MethodPost, "/x", nil), err)

	body := decodeProblem(t, rec)
	assert.Equal(t, "u1", body["upload_id"])
}

func TestRecoverer(t *testing.T) {
	h := NewErrorHandler(nil, true)
	handler := h.Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeProblem(t, rec)
	assert.Equal(t, "kaboom", body["panic"])
	assert.Contains(t, body, "stack")
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	h := NewErrorHandler(nil, false)

	rec := httptest.NewRecorder()
	h.NotFound(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.MethodNotAllowed(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/upload", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, decodeProblem(t, rec)["detail"], "DELETE")
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("permission denied")
	err := NewStorageError("save upload", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "[STORAGE] save upload: permission denied", err.Error())
	assert.Equal(t, "[NOT_FOUND] gone", NewNotFoundError("gone", nil).Error())
}
