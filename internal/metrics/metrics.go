// Package metrics holds the service instruments and the Prometheus exporter
// served on the diag port.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/global"
	export "go.opentelemetry.io/otel/sdk/export/metric"
	"go.opentelemetry.io/otel/sdk/metric/aggregator/histogram"
	controller "go.opentelemetry.io/otel/sdk/metric/controller/basic"
	processor "go.opentelemetry.io/otel/sdk/metric/processor/basic"
	selector "go.opentelemetry.io/otel/sdk/metric/selector/simple"
)

var (
	routeKey    = attribute.Key("http.route")
	statusKey   = attribute.Key("http.status_code")
	endpointKey = attribute.Key("upstream.endpoint")
)

// NewExporter sets up a pull controller with a Prometheus exporter and
// installs its provider as the global meter provider.
func NewExporter() (*prometheus.Exporter, error) {
	config := prometheus.Config{}
	c := controller.New(
		processor.New(
			selector.NewWithHistogramDistribution(
				histogram.WithExplicitBoundaries(config.DefaultHistogramBoundaries),
			),
			export.CumulativeExportKindSelector(),
			processor.WithMemory(true),
		),
	)

	exporter, err := prometheus.New(config, c)
	if err != nil {
		return nil, err
	}
	global.SetMeterProvider(exporter.MeterProvider())

	return exporter, nil
}

// Metrics records inbound request completions and upstream calls. A nil
// *Metrics records nothing.
type Metrics struct {
	completed       metric.Int64Counter
	upstreamCalls   metric.Int64Counter
	upstreamLatency metric.Float64ValueRecorder
}

func New(meter metric.Meter) *Metrics {
	must := metric.Must(meter)

	return &Metrics{
		completed: must.NewInt64Counter(
			"http/server/completed_count",
			metric.WithDescription("Count of completed requests, by route and response status"),
		),
		upstreamCalls: must.NewInt64Counter(
			"upstream/calls",
			metric.WithDescription("Count of upstream API calls, by endpoint and response status"),
		),
		upstreamLatency: must.NewFloat64ValueRecorder(
			"upstream/latency_ms",
			metric.WithDescription("Upstream API call latency in milliseconds"),
		),
	}
}

// Middleware counts every completed request under its chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		m.completed.Add(r.Context(), 1, routeKey.String(route), statusKey.String(strconv.Itoa(status)))
	})
}

// UpstreamCall records one call to the upstream API. A zero status means the
// call failed before a response arrived.
func (m *Metrics) UpstreamCall(ctx context.Context, endpoint string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}

	code := "error"
	if status != 0 {
		code = strconv.Itoa(status)
	}
	labels := []attribute.KeyValue{endpointKey.String(endpoint), statusKey.String(code)}

	m.upstreamCalls.Add(ctx, 1, labels...)
	m.upstreamLatency.Record(ctx, float64(elapsed)/float64(time.Millisecond), labels...)
}
