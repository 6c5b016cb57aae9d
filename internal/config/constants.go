package config

import (
	"time"

	"github.com/AALVAREZG/contraidos-processor/pkg/contracts"
)

// Application constants
const (
	AppName        = "Contraídos Visual Analyzer"
	AppVersion     = contracts.Version
	AppDescription = "Visual tool for analyzing contraídos and other accounting documents"

	// EnvPrefix namespaces every environment variable (CONTRAIDOS_SERVER_PORT, ...)
	EnvPrefix = "CONTRAIDOS"

	// APIPrefix is where the versioned API is mounted
	APIPrefix = "/api/v1"

	DefaultUploadDir = "uploads"
	DefaultExportDir = "exports"
	DefaultLogsDir   = "logs"

	DefaultMaxUploadSize  int64 = 50 * 1024 * 1024
	DefaultRetentionDays        = 30
	DefaultAnalysisTimeout      = 30 * time.Second
)

// DefaultAllowedExtensions are the upload extensions accepted out of the box
var DefaultAllowedExtensions = []string{".xlsx", ".xls"}

// DefaultAllowedOrigins are the development front-ends allowed by CORS
var DefaultAllowedOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
