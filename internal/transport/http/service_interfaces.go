package http

import (
	"context"
	"io"

	"github.com/AALVAREZG/contraidos-processor/internal/services"
	api "github.com/AALVAREZG/contraidos-processor/pkg/contracts/api/v1"
	"github.com/AALVAREZG/contraidos-processor/pkg/contracts/domain"
)

// UploadService stores uploaded files
type UploadService interface {
	Save(ctx context.Context, filename string, r io.Reader, size int64) (*services.Upload, error)
}

// AnalysisService runs and serves analyses
type AnalysisService interface {
	AnalyzeUpload(ctx context.Context, uploadID string, opts services.AnalyzeOptions) (*domain.StoredAnalysis, error)
	Get(ctx context.Context, analysisID string) (*domain.StoredAnalysis, error)
	Summary(ctx context.Context, analysisID string) (domain.AnalysisSummary, error)
	List(ctx context.Context) []domain.AnalysisSummary
	Types() []string
}

// ExportService generates and locates export files
type ExportService interface {
	Export(ctx context.Context, analysisID string, req api.ExportRequest) (*api.ExportResponse, error)
	Download(ctx context.Context, exportID string) (string, error)
}

// HealthService reports service health
type HealthService interface {
	HealthCheck(ctx context.Context) api.HealthResponse
}

// StructValidator validates decoded request bodies
type StructValidator interface {
	ValidateStruct(v any) error
}
