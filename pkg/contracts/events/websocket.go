// Package events defines the messages pushed to WebSocket clients.
package events

import "time"

// EventType names a server-sent event
type EventType string

const (
	EventConnection        EventType = "connection"
	EventUploadCompleted   EventType = "upload:completed"
	EventAnalysisStarted   EventType = "analysis:started"
	EventAnalysisCompleted EventType = "analysis:completed"
	EventAnalysisFailed    EventType = "analysis:failed"
	EventExportCompleted   EventType = "export:completed"
)

// Event is the envelope of every WebSocket message
type Event struct {
	Type      EventType `json:"type"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	TraceID   string    `json:"trace_id,omitempty"`
}

// NewEvent stamps an event with the current time
func NewEvent(eventType EventType, data any) Event {
	return Event{Type: eventType, Data: data, Timestamp: time.Now().UTC()}
}

// UploadCompletedData accompanies EventUploadCompleted
type UploadCompletedData struct {
	UploadID  string `json:"upload_id"`
	Filename  string `json:"filename"`
	SizeBytes int64  `json:"size_bytes"`
}

// AnalysisEventData accompanies the analysis events
type AnalysisEventData struct {
	AnalysisID    string `json:"analysis_id,omitempty"`
	UploadID      string `json:"upload_id"`
	AnalysisType  string `json:"analysis_type,omitempty"`
	TotalIssues   int    `json:"total_issues,omitempty"`
	TotalWarnings int    `json:"total_warnings,omitempty"`
	Error         string `json:"error,omitempty"`
}

// ExportCompletedData accompanies EventExportCompleted
type ExportCompletedData struct {
	ExportID   string `json:"export_id"`
	AnalysisID string `json:"analysis_id"`
	Format     string `json:"format"`
}
