package services

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/AALVAREZG/contraidos-processor/internal/config"
	"github.com/AALVAREZG/contraidos-processor/internal/infrastructure"
	api "github.com/AALVAREZG/contraidos-processor/pkg/contracts/api/v1"
)

// ClientCounter reports connected websocket clients
type ClientCounter interface {
	ClientCount() int
}

// HealthService provides health check functionality
type HealthService struct {
	version   string
	paths     config.Paths
	store     *ResultStore
	clients   ClientCounter
	startTime time.Time
	logger    *slog.Logger
}

// NewHealthService creates a health service. clients may be nil.
func NewHealthService(version string, paths config.Paths, store *ResultStore, clients ClientCounter, logger *slog.Logger) *HealthService {
	return &HealthService{
		version:   version,
		paths:     paths,
		store:     store,
		clients:   clients,
		startTime: time.Now(),
		logger:    infrastructure.WithComponent(logger, "services.health"),
	}
}

// HealthCheck reports "healthy" while the storage directories are usable
func (hs *HealthService) HealthCheck(ctx context.Context) api.HealthResponse {
	checks := map[string]any{
		"uptime_seconds": int64(time.Since(hs.startTime).Seconds()),
		"analyses":       hs.store.Count(),
	}
	if hs.clients != nil {
		checks["websocket_clients"] = hs.clients.ClientCount()
	}

	status := "healthy"
	for name, dir := range map[string]string{"upload_dir": hs.paths.UploadDir, "export_dir": hs.paths.ExportDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			checks[name] = "unavailable"
			status = "degraded"
			continue
		}
		checks[name] = "ok"
	}

	if status != "healthy" {
		hs.logger.WarnContext(ctx, "health check degraded", slog.Any("checks", checks))
	}

	return api.HealthResponse{
		Status:  status,
		Version: hs.version,
		Checks:  checks,
	}
}
