package infrastructure

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func quietConfig() *OTelConfig {
	cfg := DefaultOTelConfig()
	cfg.MetricExporter = "none"
	return cfg
}

func TestInitializeOTel(t *testing.T) {
	providers, err := InitializeOTel(DefaultOTelConfig(), nil)
	require.NoError(t, err)
	require.NotNil(t, providers)

	assert.NotNil(t, providers.TracerProvider)
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.PrometheusHTTP)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, providers.Shutdown(ctx))
}

func TestInitializeOTelRejectsUnknownExporters(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*OTelConfig)
	}{
		{"trace exporter", func(c *OTelConfig) { c.TraceExporter = "jaeger" }},
		{"metric exporter", func(c *OTelConfig) { c.MetricExporter = "statsd" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := quietConfig()
			tt.mutate(cfg)
			_, err := InitializeOTel(cfg, nil)
			assert.Error(t, err)
		})
	}
}

func TestTraceIDFromContext(t *testing.T) {
	providers, err := InitializeOTel(quietConfig(), nil)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	assert.Empty(t, TraceIDFromContext(context.Background()))

	ctx, span := otel.Tracer("test").Start(context.Background(), "analysis")
	defer span.End()

	assert.Equal(t, span.SpanContext().TraceID().String(), TraceIDFromContext(ctx))
	RecordError(ctx, errors.New("boom"))
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumOf(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestBusinessMetricsRecording(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	metrics, err := CreateBusinessMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordUpload(ctx, ".xlsx", 2048)
	metrics.RecordAnalysis(ctx, "contraidos", 120*time.Millisecond, true, 2, 3)
	metrics.RecordAnalysis(ctx, "contraidos", time.Millisecond, false, 0, 0)
	metrics.RecordExport(ctx, "json")

	got := collect(t, reader)
	assert.Equal(t, int64(1), sumOf(t, got["uploads_total"]))
	assert.Equal(t, int64(2048), sumOf(t, got["upload_bytes_total"]))
	assert.Equal(t, int64(2), sumOf(t, got["analyses_total"]))
	assert.Equal(t, int64(5), sumOf(t, got["validation_issues_total"]))
	assert.Equal(t, int64(1), sumOf(t, got["exports_total"]))
	assert.Contains(t, got, "analysis_duration_seconds")
}

func TestNilBusinessMetricsIsNoop(t *testing.T) {
	var m *BusinessMetrics
	assert.NotPanics(t, func() {
		m.RecordUpload(context.Background(), ".xlsx", 1)
		m.RecordAnalysis(context.Background(), "contraidos", time.Second, true, 1, 1)
		m.RecordExport(context.Background(), "excel")
	})
}
