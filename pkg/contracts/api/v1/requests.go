// Package api contains the request and response contracts of the v1 HTTP API.
package api

import (
	"github.com/AALVAREZG/contraidos-processor/pkg/contracts/domain"
)

// Export formats
const (
	ExportFormatJSON  = "json"
	ExportFormatExcel = "excel"
	ExportFormatCSV   = "csv"
)

// AnalysisRequest optionally pins the analysis type; empty means auto-detect
type AnalysisRequest struct {
	AnalysisType     string `json:"analysis_type,omitempty" validate:"omitempty,analysistype"`
	CancellationRule *bool  `json:"cancellation_rule,omitempty"`
}

// ExportRequest selects the export format
type ExportRequest struct {
	Format  string         `json:"format" validate:"required,oneof=json excel csv"`
	Options *ExportOptions `json:"options,omitempty"`
}

// ExportOptions tunes an export
type ExportOptions struct {
	IncludeOriginalData bool `json:"include_original_data"`
}

// UploadResponse is returned after a file upload
type UploadResponse struct {
	UploadID  string `json:"upload_id"`
	Filename  string `json:"filename"`
	SizeBytes int64  `json:"size_bytes"`
	FileType  string `json:"file_type"`
	Status    string `json:"status"`
	Message   string `json:"message"`
}

// ExportResponse describes a generated export
type ExportResponse struct {
	ExportID    string `json:"export_id"`
	DownloadURL string `json:"download_url"`
	Filename    string `json:"filename"`
	Format      string `json:"format"`
	SizeBytes   int64  `json:"size_bytes"`
}

// AnalysisListResponse lists the stored analyses
type AnalysisListResponse []domain.AnalysisSummary

// InfoResponse is served at the root path
type InfoResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Status  string `json:"status"`
	Docs    string `json:"docs"`
}

// HealthResponse is served by the health endpoint
type HealthResponse struct {
	Status  string         `json:"status"`
	Version string         `json:"version,omitempty"`
	Checks  map[string]any `json:"checks,omitempty"`
}
