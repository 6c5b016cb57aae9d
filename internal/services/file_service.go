package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AALVAREZG/contraidos-processor/internal/config"
	apperrors "github.com/AALVAREZG/contraidos-processor/internal/errors"
	"github.com/AALVAREZG/contraidos-processor/internal/files"
	"github.com/AALVAREZG/contraidos-processor/internal/infrastructure"
	"github.com/AALVAREZG/contraidos-processor/pkg/contracts/events"
)

// Export file extensions, in download lookup order
var exportExtensions = []string{".json", ".xlsx", ".csv"}

// Upload is a stored upload
type Upload struct {
	ID        string
	Filename  string
	Extension string
	Path      string
	SizeBytes int64
}

// FileService stores uploads and exports on disk
type FileService struct {
	cfg       config.UploadConfig
	uploads   *files.Manager
	exports   *files.Manager
	publisher EventPublisher
	metrics   *infrastructure.BusinessMetrics
	logger    *slog.Logger
	newID     func() string
}

// NewFileService creates a file service over the upload and export directories
func NewFileService(cfg config.UploadConfig, paths config.Paths, publisher EventPublisher, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *FileService {
	logger = infrastructure.WithComponent(logger, "services.files")

	return &FileService{
		cfg:       cfg,
		uploads:   files.NewManager(paths.UploadDir, logger),
		exports:   files.NewManager(paths.ExportDir, logger),
		publisher: publisherOrNoop(publisher),
		metrics:   metrics,
		logger:    logger,
		newID:     uuid.NewString,
	}
}

// Save validates and stores an uploaded file. size is the size announced by
// the client; the stored content is checked against the limit as well.
func (s *FileService) Save(ctx context.Context, filename string, r io.Reader, size int64) (*Upload, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !s.cfg.AllowsExtension(ext) {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFile, apperrors.InvalidFileType(s.cfg.AllowedExtensions))
	}
	if size > s.cfg.MaxUploadSize {
		return nil, fmt.Errorf("%w: %w", ErrFileTooLarge, apperrors.FileTooLarge(s.cfg.MaxUploadSize))
	}

	id := s.newID()
	info, err := s.uploads.Save(id, ext, io.LimitReader(r, s.cfg.MaxUploadSize+1))
	if err != nil {
		return nil, apperrors.NewStorageError("Error uploading file", err)
	}
	if info.Size > s.cfg.MaxUploadSize {
		if err := os.Remove(info.Path); err != nil {
			s.logger.WarnContext(ctx, "failed to remove oversized upload",
				slog.String("upload_id", id),
				slog.String("error", err.Error()))
		}
		return nil, fmt.Errorf("%w: %w", ErrFileTooLarge, apperrors.FileTooLarge(s.cfg.MaxUploadSize))
	}

	upload := &Upload{
		ID:        id,
		Filename:  filepath.Base(filename),
		Extension: ext,
		Path:      info.Path,
		SizeBytes: info.Size,
	}

	s.metrics.RecordUpload(ctx, ext, info.Size)
	s.publisher.Publish(ctx, events.NewEvent(events.EventUploadCompleted, events.UploadCompletedData{
		UploadID:  id,
		Filename:  upload.Filename,
		SizeBytes: upload.SizeBytes,
	}))
	s.logger.InfoContext(ctx, "upload stored",
		slog.String("upload_id", id),
		slog.String("filename", upload.Filename),
		slog.Int64("size_bytes", upload.SizeBytes))

	return upload, nil
}

// UploadPath finds the stored file of an upload
func (s *FileService) UploadPath(uploadID string) (string, error) {
	path, err := s.uploads.Find(uploadID, s.cfg.AllowedExtensions...)
	if err != nil {
		return "", notFound("File not found: %s", uploadID, ErrUploadNotFound, err)
	}
	return path, nil
}

// DeleteUpload removes the stored file of an upload
func (s *FileService) DeleteUpload(uploadID string) error {
	if err := s.uploads.Delete(uploadID, s.cfg.AllowedExtensions...); err != nil {
		if errors.Is(err, files.ErrNotFound) || errors.Is(err, files.ErrInvalidID) {
			return notFound("File not found: %s", uploadID, ErrUploadNotFound, err)
		}
		return apperrors.NewStorageError("Failed to delete upload", err)
	}
	return nil
}

// ExportPath returns where an export file with this id and extension goes
func (s *FileService) ExportPath(exportID, ext string) (string, error) {
	return s.exports.PathFor(exportID, ext)
}

// FindExport finds a generated export by id, trying .json, .xlsx and .csv
func (s *FileService) FindExport(exportID string) (string, error) {
	path, err := s.exports.Find(exportID, exportExtensions...)
	if err != nil {
		return "", notFound("Export not found: %s", exportID, ErrExportNotFound, err)
	}
	return path, nil
}

// PurgeExpired removes uploads and exports older than the retention window.
// A retention of zero days keeps files forever.
func (s *FileService) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	if s.cfg.RetentionDays <= 0 {
		return 0, nil
	}
	age := time.Duration(s.cfg.RetentionDays) * 24 * time.Hour

	var total int
	var errs []error
	for _, m := range []*files.Manager{s.uploads, s.exports} {
		removed, err := m.PurgeOlderThan(age, now)
		total += len(removed)
		if err != nil {
			errs = append(errs, err)
		}
	}

	if total > 0 {
		s.logger.InfoContext(ctx, "expired files purged",
			slog.Int("count", total),
			slog.Int("retention_days", s.cfg.RetentionDays))
	}
	return total, errors.Join(errs...)
}

func notFound(format, id string, sentinel, cause error) error {
	return apperrors.NewNotFoundError(fmt.Sprintf(format, id), fmt.Errorf("%w: %w", sentinel, cause))
}
