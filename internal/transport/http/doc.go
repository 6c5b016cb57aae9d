// Package http implements the HTTP handlers of the analyzer API.
//
// Handlers are thin: they decode and validate the request, call a service
// and render the result with chi/render. Every failure goes through
// errors.ErrorHandler so clients always receive RFC 7807 problem details.
//
// Routes, relative to /api/v1:
//
//	POST /upload                      multipart "file" field
//	POST /analysis/{upload_id}        optional {"analysis_type", "cancellation_rule"}
//	GET  /analysis                    stored analyses, newest last
//	GET  /analysis/types              registered analyzers
//	GET  /analysis/{id}               full result
//	GET  /analysis/{id}/summary       summary counts only
//	POST /export/{analysis_id}        {"format": "json"|"excel"|"csv", "options": {...}}
//	GET  /export/download/{export_id} export file as an attachment
//
// Services are consumed through the small interfaces in service_interfaces.go
// so handlers can be tested with testify mocks.
package http
