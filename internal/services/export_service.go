package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/AALVAREZG/contraidos-processor/internal/config"
	apperrors "github.com/AALVAREZG/contraidos-processor/internal/errors"
	"github.com/AALVAREZG/contraidos-processor/internal/exporter"
	"github.com/AALVAREZG/contraidos-processor/internal/infrastructure"
	api "github.com/AALVAREZG/contraidos-processor/pkg/contracts/api/v1"
	"github.com/AALVAREZG/contraidos-processor/pkg/contracts/domain"
	"github.com/AALVAREZG/contraidos-processor/pkg/contracts/events"
)

var formatExtensions = map[string]string{
	api.ExportFormatJSON:  ".json",
	api.ExportFormatExcel: ".xlsx",
	api.ExportFormatCSV:   ".csv",
}

// ExportService renders stored analyses into downloadable files
type ExportService struct {
	files     *FileService
	store     *ResultStore
	excel     *exporter.ExcelExporter
	csv       *exporter.ContraidoExporter
	publisher EventPublisher
	metrics   *infrastructure.BusinessMetrics
	logger    *slog.Logger
	newID     func() string
}

// NewExportService creates the export service
func NewExportService(fileService *FileService, store *ResultStore, publisher EventPublisher, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *ExportService {
	logger = infrastructure.WithComponent(logger, "services.export")

	return &ExportService{
		files:     fileService,
		store:     store,
		excel:     exporter.NewExcelExporter(logger),
		csv:       exporter.NewContraidoExporter(""),
		publisher: publisherOrNoop(publisher),
		metrics:   metrics,
		logger:    logger,
		newID:     uuid.NewString,
	}
}

// Export writes the analysis in the requested format and describes the file
func (s *ExportService) Export(ctx context.Context, analysisID string, req api.ExportRequest) (*api.ExportResponse, error) {
	stored, ok := s.store.Get(analysisID)
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("Analysis not found: %s", analysisID), ErrAnalysisNotFound)
	}

	ext, ok := formatExtensions[req.Format]
	if !ok {
		return nil, apperrors.NewAppValidationError("Invalid export request",
			fmt.Errorf("%w: %s", ErrUnsupportedFormat, req.Format))
	}

	exportID := s.newID()
	path, err := s.files.ExportPath(exportID, ext)
	if err != nil {
		return nil, apperrors.NewStorageError("Export error", err)
	}

	if err := s.write(path, req, stored); err != nil {
		s.logger.ErrorContext(ctx, "export failed",
			slog.String("analysis_id", analysisID),
			slog.String("format", req.Format),
			slog.String("error", err.Error()))
		return nil, apperrors.NewStorageError("Export error", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, apperrors.NewStorageError("Export error", err)
	}

	s.metrics.RecordExport(ctx, req.Format)
	s.publisher.Publish(ctx, events.NewEvent(events.EventExportCompleted, events.ExportCompletedData{
		ExportID:   exportID,
		AnalysisID: analysisID,
		Format:     req.Format,
	}))
	s.logger.InfoContext(ctx, "export written",
		slog.String("export_id", exportID),
		slog.String("analysis_id", analysisID),
		slog.String("format", req.Format),
		slog.Int64("size_bytes", info.Size()))

	return &api.ExportResponse{
		ExportID:    exportID,
		DownloadURL: fmt.Sprintf("%s/export/download/%s", config.APIPrefix, exportID),
		Filename:    fmt.Sprintf("analysis_%s%s", analysisID, ext),
		Format:      req.Format,
		SizeBytes:   info.Size(),
	}, nil
}

// Download returns the path of a generated export
func (s *ExportService) Download(ctx context.Context, exportID string) (string, error) {
	return s.files.FindExport(exportID)
}

func (s *ExportService) write(path string, req api.ExportRequest, stored *domain.StoredAnalysis) error {
	switch req.Format {
	case api.ExportFormatJSON:
		return exporter.WriteJSONFile(path, stored)
	case api.ExportFormatExcel:
		var original *domain.Table
		if req.Options != nil && req.Options.IncludeOriginalData {
			original, _ = s.store.Original(stored.ID)
		}
		return s.excel.WriteAnalysisWorkbook(path, stored.Result(), original)
	case api.ExportFormatCSV:
		var groups []domain.ContraidoGroup
		if stored.Details != nil {
			groups = stored.Details.ByContraido
		}
		return s.csv.ExportByContraido(groups, path)
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, req.Format)
}
