package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "github.com/AALVAREZG/contraidos-processor/internal/errors"
	api "github.com/AALVAREZG/contraidos-processor/pkg/contracts/api/v1"
)

// ExportHandler generates exports and serves their files
type ExportHandler struct {
	service      ExportService
	validator    StructValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewExportHandler creates a new export handler
func NewExportHandler(service ExportService, validator StructValidator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ExportHandler {
	return &ExportHandler{
		service:      service,
		validator:    validator,
		logger:       logger.With(slog.String("component", "export_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the export routes
func (h *ExportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.With(requireParam("export_id", h.errorHandler)).Get("/download/{export_id}", h.Download)
	r.With(requireParam("analysis_id", h.errorHandler)).Post("/{analysis_id}", h.Export)
	return r
}

// Export handles POST /api/v1/export/{analysis_id}
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	var req api.ExportRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	resp, err := h.service.Export(r.Context(), chi.URLParam(r, "analysis_id"), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, resp)
}

// Download handles GET /api/v1/export/download/{export_id}
func (h *ExportHandler) Download(w http.ResponseWriter, r *http.Request) {
	exportID := chi.URLParam(r, "export_id")

	path, err := h.service.Download(r.Context(), exportID)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	filename := filepath.Base(path)
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	h.logger.InfoContext(r.Context(), "serving export",
		slog.String("export_id", exportID),
		slog.String("filename", filename))

	http.ServeFile(w, r, path)
}
