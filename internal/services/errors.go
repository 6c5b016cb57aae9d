package services

import (
	"errors"

	"github.com/AALVAREZG/contraidos-processor/internal/analysis"
)

var (
	// Lookup errors
	ErrUploadNotFound   = errors.New("upload not found")
	ErrAnalysisNotFound = errors.New("analysis not found")
	ErrExportNotFound   = errors.New("export not found")

	// Upload errors
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrFileTooLarge    = errors.New("file too large")

	// Analysis errors
	ErrAnalysisFailed      = errors.New("analysis failed")
	ErrUnknownAnalysisType = analysis.ErrUnknownType
	ErrNoAnalyzerDetected  = analysis.ErrNotDetected

	// Export errors
	ErrUnsupportedFormat = errors.New("unsupported format")
)
