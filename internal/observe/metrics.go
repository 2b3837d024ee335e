// Package observe holds the OpenTelemetry instruments of the server.
//
// Metrics are exported through a Prometheus bridge set up by [InitProvider];
// tests build their own [Metrics] with [NewMetrics] and a manual reader.
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/codex-k8s/stripe-mcp-server"

// Metrics holds the metric instruments. A nil *Metrics records nothing.
type Metrics struct {
	// ToolCalls counts tool invocations by tool and status.
	ToolCalls metric.Int64Counter
	// ToolDuration tracks tool call latency by tool.
	ToolDuration metric.Float64Histogram
	// ProviderRequests counts Stripe API requests by endpoint and status.
	ProviderRequests metric.Int64Counter
	// ProviderDuration tracks Stripe API latency by endpoint.
	ProviderDuration metric.Float64Histogram
	// ResourceReads counts resource reads by uri and status.
	ResourceReads metric.Int64Counter
}

var latencyBuckets = []float64{
	0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30,
}

// NewMetrics creates the instruments on the given provider.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.ToolCalls, err = m.Int64Counter("stripe_mcp.tool.calls",
		metric.WithDescription("Total tool invocations by tool name and status."),
	); err != nil {
		return nil, err
	}
	if met.ToolDuration, err = m.Float64Histogram("stripe_mcp.tool.duration",
		metric.WithDescription("Latency of tool calls."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.ProviderRequests, err = m.Int64Counter("stripe_mcp.provider.requests",
		metric.WithDescription("Total Stripe API requests by endpoint and status."),
	); err != nil {
		return nil, err
	}
	if met.ProviderDuration, err = m.Float64Histogram("stripe_mcp.provider.duration",
		metric.WithDescription("Latency of Stripe API requests."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.ResourceReads, err = m.Int64Counter("stripe_mcp.resource.reads",
		metric.WithDescription("Total resource reads by uri and status."),
	); err != nil {
		return nil, err
	}
	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the instruments bound to the global meter provider.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordToolCall records one finished tool call.
func (m *Metrics) RecordToolCall(ctx context.Context, tool, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ToolCalls.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tool", tool),
		attribute.String("status", status),
	))
	m.ToolDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
		attribute.String("tool", tool),
	))
}

// RecordProviderRequest records one Stripe API request.
func (m *Metrics) RecordProviderRequest(ctx context.Context, endpoint, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ProviderRequests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", endpoint),
		attribute.String("status", status),
	))
	m.ProviderDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
		attribute.String("endpoint", endpoint),
	))
}

// RecordResourceRead records one resource read.
func (m *Metrics) RecordResourceRead(ctx context.Context, uri, status string) {
	if m == nil {
		return
	}
	m.ResourceReads.Add(ctx, 1, metric.WithAttributes(
		attribute.String("uri", uri),
		attribute.String("status", status),
	))
}
