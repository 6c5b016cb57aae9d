package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "github.com/AALVAREZG/contraidos-processor/internal/errors"
	appmiddleware "github.com/AALVAREZG/contraidos-processor/internal/middleware"
	api "github.com/AALVAREZG/contraidos-processor/pkg/contracts/api/v1"
)

const (
	uploadFormField = "file"
	// multipartOverhead covers boundaries and part headers around the file
	multipartOverhead = 1 << 20
	multipartMemory   = 32 << 20

	uploadedStatus  = "uploaded"
	uploadedMessage = "File uploaded successfully. Use upload_id to start analysis."
)

// UploadHandler accepts spreadsheet uploads
type UploadHandler struct {
	service       UploadService
	maxUploadSize int64
	logger        *slog.Logger
	errorHandler  *apierrors.ErrorHandler
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(service UploadService, maxUploadSize int64, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *UploadHandler {
	return &UploadHandler{
		service:       service,
		maxUploadSize: maxUploadSize,
		logger:        logger.With(slog.String("component", "upload_handler")),
		errorHandler:  errorHandler,
	}
}

// Routes returns the upload routes
func (h *UploadHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Upload)
	return r
}

// Upload handles POST /api/v1/upload
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+multipartOverhead)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.errorHandler.HandleError(w, r, apierrors.FileTooLarge(h.maxUploadSize))
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile(uploadFormField)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation(uploadFormField, "No file provided"))
		return
	}
	defer file.Close()

	if strings.TrimSpace(header.Filename) == "" {
		h.errorHandler.HandleError(w, r, apierrors.NewValidationError("Uploaded file has no name"))
		return
	}

	upload, err := h.service.Save(ctx, header.Filename, file, header.Size)
	if err != nil {
		h.logger.WarnContext(ctx, "upload rejected",
			slog.String("filename", header.Filename),
			slog.Int64("size", header.Size),
			slog.String("error", err.Error()),
			slog.String("request_id", appmiddleware.GetRequestID(ctx)))
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, api.UploadResponse{
		UploadID:  upload.ID,
		Filename:  upload.Filename,
		SizeBytes: upload.SizeBytes,
		FileType:  upload.Extension,
		Status:    uploadedStatus,
		Message:   uploadedMessage,
	})
}
