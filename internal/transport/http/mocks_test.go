package http

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	apierrors "github.com/AALVAREZG/contraidos-processor/internal/errors"
	"github.com/AALVAREZG/contraidos-processor/internal/middleware"
	"github.com/AALVAREZG/contraidos-processor/internal/services"
	api "github.com/AALVAREZG/contraidos-processor/pkg/contracts/api/v1"
	"github.com/AALVAREZG/contraidos-processor/pkg/contracts/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testErrorHandler() *apierrors.ErrorHandler {
	return apierrors.NewErrorHandler(discardLogger(), false)
}

func testValidator() StructValidator {
	return middleware.NewValidationMiddleware(discardLogger(), testErrorHandler())
}

// MockUploadService is a mock implementation of UploadService
type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) Save(ctx context.Context, filename string, r io.Reader, size int64) (*services.Upload, error) {
	content, _ := io.ReadAll(r)
	args := m.Called(filename, string(content), size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Upload), args.Error(1)
}

// MockAnalysisService is a mock implementation of AnalysisService
type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) AnalyzeUpload(ctx context.Context, uploadID string, opts services.AnalyzeOptions) (*domain.StoredAnalysis, error) {
	args := m.Called(uploadID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StoredAnalysis), args.Error(1)
}

func (m *MockAnalysisService) Get(ctx context.Context, analysisID string) (*domain.StoredAnalysis, error) {
	args := m.Called(analysisID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StoredAnalysis), args.Error(1)
}

func (m *MockAnalysisService) Summary(ctx context.Context, analysisID string) (domain.AnalysisSummary, error) {
	args := m.Called(analysisID)
	return args.Get(0).(domain.AnalysisSummary), args.Error(1)
}

func (m *MockAnalysisService) List(ctx context.Context) []domain.AnalysisSummary {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.AnalysisSummary)
}

func (m *MockAnalysisService) Types() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

// MockExportService is a mock implementation of ExportService
type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) Export(ctx context.Context, analysisID string, req api.ExportRequest) (*api.ExportResponse, error) {
	args := m.Called(analysisID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.ExportResponse), args.Error(1)
}

func (m *MockExportService) Download(ctx context.Context, exportID string) (string, error) {
	args := m.Called(exportID)
	return args.String(0), args.Error(1)
}

// MockHealthService is a mock implementation of HealthService
type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) HealthCheck(ctx context.Context) api.HealthResponse {
	return m.Called().Get(0).(api.HealthResponse)
}
