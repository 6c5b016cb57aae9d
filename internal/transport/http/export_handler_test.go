package http

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apierrors "github.com/AALVAREZG/contraidos-processor/internal/errors"
	"github.com/AALVAREZG/contraidos-processor/internal/services"
	api "github.com/AALVAREZG/contraidos-processor/pkg/contracts/api/v1"
)

func TestExportHandler_Export(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockExportService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "excel with original data",
			body: `{"format":"excel","options":{"include_original_data":true}}`,
			setupMock: func(m *MockExportService) {
				m.On("Export", "a-1", api.ExportRequest{
					Format:  "excel",
					Options: &api.ExportOptions{IncludeOriginalData: true},
				}).Return(&api.ExportResponse{
					ExportID:    "e-1",
					DownloadURL: "/api/v1/export/download/e-1",
					Filename:    "analysis_e-1.xlsx",
					Format:      "excel",
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"download_url":"/api/v1/export/download/e-1"`,
		},
		{
			name:           "unknown format",
			body:           `{"format":"pdf"}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "format must be one of: json, excel, csv",
		},
		{
			name:           "missing body",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "analysis not found",
			body: `{"format":"json"}`,
			setupMock: func(m *MockExportService) {
				m.On("Export", "a-1", api.ExportRequest{Format: "json"}).Return(nil,
					apierrors.NewNotFoundError("Analysis not found: a-1", services.ErrAnalysisNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   "Analysis not found: a-1",
		},
		{
			name: "write failure",
			body: `{"format":"csv"}`,
			setupMock: func(m *MockExportService) {
				m.On("Export", "a-1", api.ExportRequest{Format: "csv"}).Return(nil,
					apierrors.NewStorageError("Export error", os.ErrPermission))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "Export error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockExportService)
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}
			handler := NewExportHandler(mockService, testValidator(), discardLogger(), testErrorHandler())

			req := httptest.NewRequest(http.MethodPost, "/a-1", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			handler.Routes().ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, rec.Body.String(), tt.expectedBody)
			}
			mockService.AssertExpectations(t)
			if tt.setupMock == nil {
				mockService.AssertNotCalled(t, "Export", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestExportHandler_Download(t *testing.T) {
	path := filepath.Join(t.TempDir(), "e-1.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"analysis_id":"a-1"}`), 0o644))

	mockService := new(MockExportService)
	mockService.On("Download", "e-1").Return(path, nil)
	mockService.On("Download", "nope").Return("",
		apierrors.NewNotFoundError("Export not found: nope", services.ErrExportNotFound))

	router := NewExportHandler(mockService, testValidator(), discardLogger(), testErrorHandler()).Routes()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/download/e-1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="e-1.json"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, `{"analysis_id":"a-1"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/download/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Export not found: nope")
}
