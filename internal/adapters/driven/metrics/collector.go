// Package metrics provides Prometheus instrumentation for chat and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/VladSF415/ai-platforms-directory/internal/core/domain"
	"github.com/VladSF415/ai-platforms-directory/internal/core/ports/driven"
)

// Ensure Collector implements the interface.
var _ driven.ChatMetrics = (*Collector)(nil)

// Namespace prefixes every metric name.
const Namespace = "aidir"

// Collector wraps Prometheus metrics with its own registry.
type Collector struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	ChatMessages        *prometheus.CounterVec
	ChatErrors          *prometheus.CounterVec
	Platforms           prometheus.Gauge
}

// NewCollector creates a Collector and registers its metrics.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		registry: reg,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ChatMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "chat_messages_total",
			Help:      "Total number of chat messages answered",
		}, []string{"intent", "strategy"}),
		ChatErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "chat_errors_total",
			Help:      "Total number of failed hosted model calls",
		}, []string{"kind"}),
		Platforms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "platforms",
			Help:      "Number of platforms loaded into the directory",
		}),
	}

	reg.MustRegister(
		c.HTTPRequestsTotal,
		c.HTTPRequestDuration,
		c.ChatMessages,
		c.ChatErrors,
		c.Platforms,
		collectors.NewGoCollector(),
	)

	return c
}

// Handler returns an HTTP handler that serves Prometheus metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveChat counts one answered chat message.
func (c *Collector) ObserveChat(intent domain.IntentType, strategy domain.StrategyKind) {
	c.ChatMessages.WithLabelValues(string(intent), strategy.String()).Inc()
}

// ObserveChatError counts one failed hosted call.
func (c *Collector) ObserveChatError(kind domain.ProviderErrorKind) {
	c.ChatErrors.WithLabelValues(string(kind)).Inc()
}

// RecordHTTPRequest records an HTTP request metric.
func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	c.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// SetPlatforms records the size of the loaded directory.
func (c *Collector) SetPlatforms(n int) {
	c.Platforms.Set(float64(n))
}
