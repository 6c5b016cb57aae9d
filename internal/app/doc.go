// Package app wires the analyzer web service together and manages its
// lifecycle.
//
// NewApplication loads the configuration, initializes the slog logger and
// OpenTelemetry, then delegates to New which builds:
//
//	1. the analyzer and parser registries
//	2. the shared result store and the file, analysis, export and health services
//	3. the WebSocket hub, which doubles as the event publisher
//	4. the chi router with the middleware chain and the /api/v1 routes
//
// Run blocks until SIGINT or SIGTERM and then shuts the server down within
// the configured timeout. While running, uploads and exports older than the
// retention period are purged every hour.
package app
