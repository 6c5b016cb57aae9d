package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	api "github.com/AALVAREZG/contraidos-processor/pkg/contracts/api/v1"
)

const docsPath = "/api/docs"

// HealthHandler serves the health and service info endpoints
type HealthHandler struct {
	service HealthService
	name    string
	version string
	logger  *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(service HealthService, name, version string, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		service: service,
		name:    name,
		version: version,
		logger:  logger.With(slog.String("handler", "health")),
	}
}

// HealthCheck handles GET /health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.HealthCheck(r.Context()))
}

// Info handles GET /
func (h *HealthHandler) Info(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, api.InfoResponse{
		Name:    h.name,
		Version: h.version,
		Status:  "running",
		Docs:    docsPath,
	})
}
