package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// BusinessMetrics holds the HTTP and analysis instruments
type BusinessMetrics struct {
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPActiveRequests  metric.Int64UpDownCounter

	UploadsTotal     metric.Int64Counter
	UploadBytes      metric.Int64Counter
	AnalysesTotal    metric.Int64Counter
	AnalysisDuration metric.Float64Histogram
	ValidationIssues metric.Int64Counter
	ExportsTotal     metric.Int64Counter
}

// CreateBusinessMetrics registers every instrument on meter
func CreateBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	m := &BusinessMetrics{}
	var err error

	if m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	); err != nil {
		return nil, err
	}
	if m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	if m.HTTPActiveRequests, err = meter.Int64UpDownCounter(
		"http_active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	); err != nil {
		return nil, err
	}
	if m.UploadsTotal, err = meter.Int64Counter(
		"uploads_total",
		metric.WithDescription("Total number of accepted uploads"),
	); err != nil {
		return nil, err
	}
	if m.UploadBytes, err = meter.Int64Counter(
		"upload_bytes_total",
		metric.WithDescription("Total bytes of accepted uploads"),
		metric.WithUnit("By"),
	); err != nil {
		return nil, err
	}
	if m.AnalysesTotal, err = meter.Int64Counter(
		"analyses_total",
		metric.WithDescription("Total number of analyses run"),
	); err != nil {
		return nil, err
	}
	if m.AnalysisDuration, err = meter.Float64Histogram(
		"analysis_duration_seconds",
		metric.WithDescription("Analysis duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	if m.ValidationIssues, err = meter.Int64Counter(
		"validation_issues_total",
		metric.WithDescription("Total number of validation issues and warnings found"),
	); err != nil {
		return nil, err
	}
	if m.ExportsTotal, err = meter.Int64Counter(
		"exports_total",
		metric.WithDescription("Total number of generated exports"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// RecordUpload counts an accepted upload
func (m *BusinessMetrics) RecordUpload(ctx context.Context, extension string, size int64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("file.extension", extension))
	m.UploadsTotal.Add(ctx, 1, attrs)
	m.UploadBytes.Add(ctx, size, attrs)
}

// RecordAnalysis counts an analysis run and its findings
func (m *BusinessMetrics) RecordAnalysis(ctx context.Context, analysisType string, duration time.Duration, success bool, issues, warnings int) {
	if m == nil {
		return
	}

	status := "success"
	if !success {
		status = "failure"
	}
	attrs := []attribute.KeyValue{
		attribute.String("analysis.type", analysisType),
		attribute.String("status", status),
	}
	m.AnalysesTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.AnalysisDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))

	if issues > 0 {
		m.ValidationIssues.Add(ctx, int64(issues), metric.WithAttributes(
			attribute.String("analysis.type", analysisType),
			attribute.String("severity", "critical")))
	}
	if warnings > 0 {
		m.ValidationIssues.Add(ctx, int64(warnings), metric.WithAttributes(
			attribute.String("analysis.type", analysisType),
			attribute.String("severity", "warning")))
	}
}

// RecordExport counts a generated export
func (m *BusinessMetrics) RecordExport(ctx context.Context, format string) {
	if m == nil {
		return
	}
	m.ExportsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("export.format", format)))
}
