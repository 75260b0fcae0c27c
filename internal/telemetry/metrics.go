package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Metrics holds the Prometheus collectors for API traffic.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	retriesTotal    *prometheus.CounterVec
	circuitState    *prometheus.GaugeVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	enrichDuration  *prometheus.HistogramVec

	// OTel instruments mirror the request counters for OTLP export.
	otelRequests metric.Int64Counter
	otelDuration metric.Float64Histogram
}

// NewMetrics registers the collectors on reg. Pass prometheus.NewRegistry()
// in tests to avoid clashes on the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vrc_api_requests_total",
			Help: "Total number of VRChat API calls by method, endpoint and outcome",
		}, []string{"method", "endpoint", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vrc_api_request_duration_seconds",
			Help:    "Duration of VRChat API calls including retries",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
		retriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vrc_api_retries_total",
			Help: "Total number of retried VRChat API calls",
		}, []string{"method", "endpoint"}),
		circuitState: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vrc_api_circuit_state",
			Help: "Circuit breaker state (0 closed, 1 open, 2 half-open)",
		}, []string{"endpoint"}),
		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "vrc_response_cache_hits_total",
			Help: "Total number of response cache hits",
		}),
		cacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "vrc_response_cache_misses_total",
			Help: "Total number of response cache misses",
		}),
		enrichDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vrc_enrichment_duration_seconds",
			Help:    "Duration of entity construction including dependent fetches",
			Buckets: prometheus.DefBuckets,
		}, []string{"entity"}),
	}

	meter := otel.Meter(instrumentationName)
	m.otelRequests, _ = meter.Int64Counter("vrc.api.requests",
		metric.WithDescription("VRChat API calls"))
	m.otelDuration, _ = meter.Float64Histogram("vrc.api.request.duration",
		metric.WithDescription("VRChat API call duration"), metric.WithUnit("s"))
	return m
}

// ObserveEnrichment records how long building an entity took.
func (m *Metrics) ObserveEnrichment(entity string, d time.Duration) {
	m.enrichDuration.WithLabelValues(entity).Observe(d.Seconds())
}

// InitMetrics installs an OTLP meter provider when metrics export is enabled.
func InitMetrics(cfg *Config) error {
	if !cfg.EnableMetrics {
		return nil
	}

	ctx := context.Background()
	res, err := newResource(ctx, cfg)
	if err != nil {
		return err
	}

	exporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return fmt.Errorf("failed to create metrics exporter: %w", err)
	}

	otel.SetMeterProvider(sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(
			exporter,
			sdkmetric.WithInterval(time.Duration(cfg.MetricsInterval)*time.Second),
		)),
	))
	return nil
}

// CloseMetrics flushes the SDK meter provider, if one was installed.
func CloseMetrics(ctx context.Context) error {
	if mp, ok := otel.GetMeterProvider().(*sdkmetric.MeterProvider); ok {
		return mp.Shutdown(ctx)
	}
	return nil
}
