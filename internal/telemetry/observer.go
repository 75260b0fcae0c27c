package telemetry

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/birbparty/vrcsdk/sdk"
)

// LogObserver logs transport events through logrus.
type LogObserver struct {
	entry *logrus.Entry
}

var _ sdk.Observer = (*LogObserver)(nil)

// NewLogObserver logs through l, or L() when nil.
func NewLogObserver(l *logrus.Logger) *LogObserver {
	if l == nil {
		l = L()
	}
	return &LogObserver{entry: l.WithField("component", "vrc-transport")}
}

func (o *LogObserver) OnRequestStart(method, path string) {
	o.entry.WithFields(logrus.Fields{"method": method, "path": path}).Debug("API request started")
}

func (o *LogObserver) OnRequestEnd(method, path string, duration time.Duration, err error) {
	entry := o.entry.WithFields(logrus.Fields{
		"method":   method,
		"path":     path,
		"duration": duration.Milliseconds(),
	})
	if err != nil {
		if sdk.IsNotFound(err) {
			entry.WithError(err).Debug("API request found nothing")
			return
		}
		entry.WithError(err).Warn("API request failed")
		return
	}
	entry.Debug("API request completed")
}

func (o *LogObserver) OnRetryAttempt(method, path string, attempt int, delay time.Duration, err error) {
	o.entry.WithFields(logrus.Fields{
		"method":  method,
		"path":    path,
		"attempt": attempt,
		"delay":   delay.Milliseconds(),
	}).WithError(err).Info("Retrying API request")
}

func (o *LogObserver) OnCircuitBreakerStateChange(endpoint string, oldState, newState sdk.CircuitState) {
	o.entry.WithFields(logrus.Fields{
		"endpoint": endpoint,
		"from":     oldState.String(),
		"to":       newState.String(),
	}).Warn("Circuit breaker state changed")
}

func (o *LogObserver) OnCacheHit(key string) {
	o.entry.WithField("key", key).Debug("Response cache hit")
}

func (o *LogObserver) OnCacheMiss(key string) {
	o.entry.WithField("key", key).Debug("Response cache miss")
}

// MetricsObserver feeds transport events into Metrics.
type MetricsObserver struct {
	m *Metrics
}

var _ sdk.Observer = (*MetricsObserver)(nil)

func NewMetricsObserver(m *Metrics) *MetricsObserver {
	return &MetricsObserver{m: m}
}

func (o *MetricsObserver) OnRequestStart(method, path string) {}

func (o *MetricsObserver) OnRequestEnd(method, path string, duration time.Duration, err error) {
	endpoint := EndpointLabel(path)
	status := statusLabel(err)

	o.m.requestsTotal.WithLabelValues(method, endpoint, status).Inc()
	o.m.requestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())

	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("endpoint", endpoint),
		attribute.String("status", status),
	)
	if o.m.otelRequests != nil {
		o.m.otelRequests.Add(context.Background(), 1, attrs)
	}
	if o.m.otelDuration != nil {
		o.m.otelDuration.Record(context.Background(), duration.Seconds(), attrs)
	}
}

func (o *MetricsObserver) OnRetryAttempt(method, path string, attempt int, delay time.Duration, err error) {
	o.m.retriesTotal.WithLabelValues(method, EndpointLabel(path)).Inc()
}

func (o *MetricsObserver) OnCircuitBreakerStateChange(endpoint string, oldState, newState sdk.CircuitState) {
	o.m.circuitState.WithLabelValues(endpoint).Set(float64(newState))
}

func (o *MetricsObserver) OnCacheHit(key string)  { o.m.cacheHits.Inc() }
func (o *MetricsObserver) OnCacheMiss(key string) { o.m.cacheMisses.Inc() }

func statusLabel(err error) string {
	if err == nil {
		return "ok"
	}
	var apiErr *sdk.APIError
	if errors.As(err, &apiErr) {
		return strconv.Itoa(apiErr.StatusCode)
	}
	var sdkErr *sdk.Error
	if errors.As(err, &sdkErr) {
		return sdkErr.Type.String()
	}
	return "error"
}

// EndpointLabel collapses entity ids so label cardinality stays bounded:
// /users/usr_123/avatars becomes /users/{id}/avatars.
func EndpointLabel(path string) string {
	return sdk.RouteTemplate(path)
}
