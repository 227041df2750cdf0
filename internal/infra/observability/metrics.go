package observability

import (
	"time"

	"github.com/kyleBSCS/pokedex/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Cache and component label values shared by the services.
const (
	CacheDirectory = "directory"

	ComponentDirectory = "directory"
	ComponentTypes     = "types"
	ComponentListing   = "listing"
	ComponentEvolution = "evolution"
	ComponentWeakness  = "weakness"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	upstreamErrors  *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	degraded        *prometheus.CounterVec
	requestsTotal   *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pokedex_request_duration_seconds",
				Help:    "Duration of aggregation operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		upstreamErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pokedex_upstream_errors_total",
				Help: "Total failed calls to the upstream API by resource.",
			},
			[]string{"resource"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pokedex_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pokedex_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		degraded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pokedex_degraded_results_total",
				Help: "Sub-fetches that failed and were replaced by an empty or fallback value.",
			},
			[]string{"component"},
		),
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pokedex_requests_total",
				Help: "Total aggregation requests processed.",
			},
			[]string{"operation", "status"},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrUpstreamError increments the upstream error counter.
func (m *Metrics) IncrUpstreamError(resource string) {
	m.upstreamErrors.WithLabelValues(resource).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrDegraded counts a sub-result replaced by a fallback.
func (m *Metrics) IncrDegraded(component string) {
	m.degraded.WithLabelValues(component).Inc()
}

// IncrRequest increments the request counter for an operation.
func (m *Metrics) IncrRequest(operation, status string) {
	m.requestsTotal.WithLabelValues(operation, status).Inc()
}

// Summary returns a snapshot suitable for GET /api/metrics/summary.
func (m *Metrics) Summary() *domain.MetricsSummary {
	hits := counterValue(m.cacheHits.WithLabelValues(CacheDirectory))
	misses := counterValue(m.cacheMisses.WithLabelValues(CacheDirectory))

	hitRate := float64(0)
	if hits+misses > 0 {
		hitRate = hits / (hits + misses)
	}

	return &domain.MetricsSummary{
		DirectoryCacheHits:   int64(hits),
		DirectoryCacheMisses: int64(misses),
		CacheHitRate:         hitRate,
		UpstreamErrors:       int64(sumCounterVec(m.upstreamErrors)),
		DegradedResults:      int64(sumCounterVec(m.degraded)),
		Period:               "all_time",
	}
}

// DegradedCount returns the degraded counter for one component.
func (m *Metrics) DegradedCount(component string) float64 {
	return counterValue(m.degraded.WithLabelValues(component))
}

// counterValue extracts the current float64 value from a counter.
func counterValue(c prometheus.Counter) float64 {
	pb := &dto.Metric{}
	if err := c.Write(pb); err != nil {
		return 0
	}
	if pb.Counter != nil && pb.Counter.Value != nil {
		return *pb.Counter.Value
	}
	return 0
}

// sumCounterVec adds up every label combination of a CounterVec.
func sumCounterVec(cv *prometheus.CounterVec) float64 {
	ch := make(chan prometheus.Metric, 64)
	go func() {
		cv.Collect(ch)
		close(ch)
	}()

	total := float64(0)
	for metric := range ch {
		pb := &dto.Metric{}
		if err := metric.Write(pb); err != nil {
			continue
		}
		if pb.Counter != nil && pb.Counter.Value != nil {
			total += *pb.Counter.Value
		}
	}
	return total
}
