package observe

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp)
	require.NoError(t, err)
	return m, reader
}

func findMetric(t *testing.T, reader *sdkmetric.ManualReader, name string) metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				return m
			}
		}
	}
	t.Fatalf("metric %q not found", name)
	return metricdata.Metrics{}
}

func sumFor(sum metricdata.Sum[int64], key, value string) int64 {
	for _, dp := range sum.DataPoints {
		if v, ok := dp.Attributes.Value(attribute.Key(key)); ok && v.AsString() == value {
			return dp.Value
		}
	}
	return -1
}

func TestRecordToolCall(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordToolCall(ctx, "get_balance", "ok", 120*time.Millisecond)
	m.RecordToolCall(ctx, "get_balance", "ok", 80*time.Millisecond)
	m.RecordToolCall(ctx, "get_balance", "timeout", 30*time.Second)

	calls := findMetric(t, reader, "stripe_mcp.tool.calls")
	sum, ok := calls.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.EqualValues(t, 2, sumFor(sum, "status", "ok"))
	assert.EqualValues(t, 1, sumFor(sum, "status", "timeout"))

	duration := findMetric(t, reader, "stripe_mcp.tool.duration")
	hist, ok := duration.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.EqualValues(t, 3, hist.DataPoints[0].Count)
}

func TestRecordProviderRequest(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordProviderRequest(ctx, "balance", "200", time.Second)
	m.RecordProviderRequest(ctx, "customers", "429", time.Second)

	requests := findMetric(t, reader, "stripe_mcp.provider.requests")
	sum, ok := requests.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.EqualValues(t, 1, sumFor(sum, "endpoint", "balance"))
	assert.EqualValues(t, 1, sumFor(sum, "status", "429"))
}

func TestRecordResourceRead(t *testing.T) {
	m, reader := newTestMetrics(t)
	m.RecordResourceRead(context.Background(), "stripe://account/summary", "ok")

	reads := findMetric(t, reader, "stripe_mcp.resource.reads")
	sum, ok := reads.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.EqualValues(t, 1, sumFor(sum, "uri", "stripe://account/summary"))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordToolCall(context.Background(), "get_balance", "ok", time.Second)
		m.RecordProviderRequest(context.Background(), "balance", "200", time.Second)
		m.RecordResourceRead(context.Background(), "stripe://account/summary", "ok")
	})
}

func TestStartSpanUsesGlobalTracer(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
	orig := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(orig)
		_ = tp.Shutdown(context.Background())
	})

	_, span := StartSpan(context.Background(), "tool get_balance")
	span.End()

	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "tool get_balance", spans[0].Name)
}
