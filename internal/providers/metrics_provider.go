package providers

import (
	"time"

	"github.com/momenTUM-research-platform/momenTUM-designer/internal/structures"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncRegistryCall(content string, outcome string)
	ObserveRegistryCallDuration(content string, duration time.Duration)
	IncDelivery(outcome string)
	SetQueueDepth(depth int)
}

type MetricsProvider struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	cacheHits        prometheus.Counter
	cacheMisses      prometheus.Counter
	registryCalls    *prometheus.CounterVec
	registryDuration *prometheus.HistogramVec
	deliveries       *prometheus.CounterVec
	queueDepth       prometheus.Gauge
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) IncRegistryCall(content string, outcome string) {
	m.registryCalls.WithLabelValues(content, outcome).Inc()
}

func (m *MetricsProvider) ObserveRegistryCallDuration(content string, duration time.Duration) {
	m.registryDuration.WithLabelValues(content).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncDelivery(outcome string) {
	m.deliveries.WithLabelValues(outcome).Inc()
}

func (m *MetricsProvider) SetQueueDepth(depth int) {
	m.queueDepth.Set(float64(depth))
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "designer_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "designer_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "designer_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "designer_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		registryCalls: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "designer_registry_calls_total",
			Help: "Registry API calls by content type and outcome",
		}, []string{"content", "outcome"}),

		registryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "designer_registry_call_duration_seconds",
			Help:    "Registry API call duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"content"}),

		deliveries: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "designer_deliveries_total",
			Help: "Response delivery attempts by outcome",
		}, []string{"outcome"}),

		queueDepth: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "designer_delivery_queue_depth",
			Help: "Current number of responses waiting for forwarding",
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                          {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration)          {}
func (n *noopMetrics) IncCacheHits()                                             {}
func (n *noopMetrics) IncCacheMisses()                                           {}
func (n *noopMetrics) IncRegistryCall(_ string, _ string)                        {}
func (n *noopMetrics) ObserveRegistryCallDuration(_ string, _ time.Duration)     {}
func (n *noopMetrics) IncDelivery(_ string)                                      {}
func (n *noopMetrics) SetQueueDepth(_ int)                                       {}
