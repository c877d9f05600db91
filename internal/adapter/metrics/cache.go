package metrics

import "github.com/prometheus/client_golang/prometheus"

// Lookup results recorded by CacheMetrics.
const (
	ResultHit         = "hit"
	ResultMiss        = "miss"
	ResultBypass      = "bypass"
	ResultDecodeError = "decode_error"
	ResultStoreError  = "store_error"
)

// CacheMetrics holds Prometheus metrics for the read-through statistics cache.
type CacheMetrics struct {
	Lookups       *prometheus.CounterVec
	WriteErrors   prometheus.Counter
	Invalidations prometheus.Counter
}

// NewCacheMetrics creates and registers cache metrics on the given registry.
func NewCacheMetrics(reg prometheus.Registerer) *CacheMetrics {
	m := &CacheMetrics{
		Lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stats_cache",
			Name:      "lookups_total",
			Help:      "Total number of statistics cache lookups, by result.",
		}, []string{"result"}),
		WriteErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stats_cache",
			Name:      "write_errors_total",
			Help:      "Total number of failed statistics cache writes.",
		}),
		Invalidations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stats_cache",
			Name:      "invalidations_total",
			Help:      "Total number of keys removed from the statistics cache.",
		}),
	}

	reg.MustRegister(m.Lookups, m.WriteErrors, m.Invalidations)
	return m
}

// Lookup records one lookup result. Safe on a nil receiver.
func (m *CacheMetrics) Lookup(result string) {
	if m == nil {
		return
	}
	m.Lookups.WithLabelValues(result).Inc()
}
