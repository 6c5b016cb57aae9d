package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "github.com/AALVAREZG/contraidos-processor/internal/errors"
	"github.com/AALVAREZG/contraidos-processor/internal/services"
	api "github.com/AALVAREZG/contraidos-processor/pkg/contracts/api/v1"
)

// AnalysisHandler runs analyses and serves their results
type AnalysisHandler struct {
	service      AnalysisService
	validator    StructValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(service AnalysisService, validator StructValidator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AnalysisHandler {
	return &AnalysisHandler{
		service:      service,
		validator:    validator,
		logger:       logger.With(slog.String("component", "analysis_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the analysis routes
func (h *AnalysisHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.List)
	r.Get("/types", h.Types)
	r.Route("/{id}", func(r chi.Router) {
		r.Use(requireParam("id", h.errorHandler))
		r.Post("/", h.Analyze)
		r.Get("/", h.Get)
		r.Get("/summary", h.Summary)
	})
	return r
}

// Analyze handles POST /api/v1/analysis/{upload_id}. The body is optional;
// without one the analyzer is auto-detected.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	uploadID := chi.URLParam(r, "id")

	var req api.AnalysisRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil && !errors.Is(err, io.EOF) {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	stored, err := h.service.AnalyzeUpload(r.Context(), uploadID, services.AnalyzeOptions{
		AnalysisType:     req.AnalysisType,
		CancellationRule: req.CancellationRule,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "analysis served",
		slog.String("upload_id", uploadID),
		slog.String("analysis_id", stored.ID))
	render.JSON(w, r, stored)
}

// Get handles GET /api/v1/analysis/{id}
func (h *AnalysisHandler) Get(w http.ResponseWriter, r *http.Request) {
	stored, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, stored)
}

// Summary handles GET /api/v1/analysis/{id}/summary
func (h *AnalysisHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, summary)
}

// List handles GET /api/v1/analysis
func (h *AnalysisHandler) List(w http.ResponseWriter, r *http.Request) {
	list := api.AnalysisListResponse(h.service.List(r.Context()))
	if list == nil {
		list = api.AnalysisListResponse{}
	}
	render.JSON(w, r, list)
}

// Types handles GET /api/v1/analysis/types
func (h *AnalysisHandler) Types(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{"types": h.service.Types()})
}

// requireParam rejects requests whose URL parameter is blank
func requireParam(name string, errorHandler *apierrors.ErrorHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if chi.URLParam(r, name) == "" {
				errorHandler.HandleError(w, r, apierrors.ErrValidation(name, name+" is required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
