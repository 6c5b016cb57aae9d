// Package config loads the analyzer configuration.
//
// Values come from three sources, later ones overriding earlier ones:
//
//  1. Default()
//  2. a YAML file (CONTRAIDOS_CONFIG_FILE, config.yaml or configs/config.yaml)
//  3. environment variables prefixed with CONTRAIDOS_
//
// Environment variables follow the struct nesting:
//
//	CONTRAIDOS_SERVER_PORT=8000
//	CONTRAIDOS_UPLOAD_MAX_UPLOAD_SIZE=52428800
//	CONTRAIDOS_UPLOAD_ALLOWED_EXTENSIONS=.xlsx,.xls
//	CONTRAIDOS_ANALYSIS_CANCELLATION_RULE=true
//	CONTRAIDOS_PATHS_UPLOAD_DIR=/var/lib/contraidos/uploads
//
// Relative directories are resolved against Paths.BaseDir, or the working
// directory when it is empty.
package config
