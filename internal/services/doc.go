// Package services implements the business logic behind the HTTP API.
//
// FileService stores uploads and exports on disk, AnalysisService runs the
// parse and analyze pipeline and keeps the results in a ResultStore, and
// ExportService renders stored results as JSON, Excel or CSV files.
//
// Services return *errors.AppError values (or *errors.APIError for upload
// rejections) wrapping the sentinels in this package, so handlers can hand
// them straight to the error handler and callers can still use errors.Is:
//
//	stored, err := analyses.Get(ctx, id)
//	if errors.Is(err, services.ErrAnalysisNotFound) {
//		// 404
//	}
//
// Progress is announced through an EventPublisher, normally the websocket hub.
package services
