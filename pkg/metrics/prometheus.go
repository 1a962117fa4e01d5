package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	fallbacks       *prometheus.CounterVec
	providerLatency *prometheus.HistogramVec
	tileInterval    prometheus.Gauge
	errorsTotal     *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		cacheHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketlens_cache_hits_total",
				Help: "Total number of cache hits per data kind",
			},
			[]string{"kind"},
		),
		cacheMisses: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketlens_cache_misses_total",
				Help: "Total number of cache misses per data kind",
			},
			[]string{"kind"},
		),
		fallbacks: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketlens_provider_fallbacks_total",
				Help: "Synthetic fallbacks taken after a provider failure, per data kind and reason",
			},
			[]string{"kind", "reason"},
		),
		providerLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "marketlens_provider_request_duration_seconds",
				Help:    "Duration of live provider requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		tileInterval: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "marketlens_tile_refresh_interval_seconds",
				Help: "Currently scheduled tile refresh interval, including backoff",
			},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketlens_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
	}
}

// RecordCacheHit records a cache hit for a data kind.
func (r *Recorder) RecordCacheHit(kind string) {
	r.cacheHits.WithLabelValues(kind).Inc()
}

// RecordCacheMiss records a cache miss for a data kind.
func (r *Recorder) RecordCacheMiss(kind string) {
	r.cacheMisses.WithLabelValues(kind).Inc()
}

// RecordFallback records a synthetic fallback for a data kind.
func (r *Recorder) RecordFallback(kind, reason string) {
	r.fallbacks.WithLabelValues(kind, reason).Inc()
}

// RecordProviderLatency records live provider request latency in seconds.
func (r *Recorder) RecordProviderLatency(endpoint string, seconds float64) {
	r.providerLatency.WithLabelValues(endpoint).Observe(seconds)
}

// RecordTileInterval records the next scheduled tile refresh interval.
func (r *Recorder) RecordTileInterval(seconds float64) {
	r.tileInterval.Set(seconds)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}
