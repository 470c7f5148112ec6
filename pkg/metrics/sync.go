package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SyncMetrics records the health of the order synchronization engine.
type SyncMetrics struct {
	eventsRouted  *prometheus.CounterVec
	mergesApplied *prometheus.CounterVec
	fetchDuration prometheus.Histogram
	fetchFailures prometheus.Counter
	staleFetches  prometheus.Counter
	reconnects    prometheus.Counter
	storeSize     prometheus.Gauge
}

// NewSyncMetrics registers the sync metrics on the provided registerer.
func NewSyncMetrics(reg prometheus.Registerer) *SyncMetrics {
	if reg == nil {
		return &SyncMetrics{}
	}
	eventsRouted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "realtime_events_routed_total",
		Help: "Inbound realtime events routed to the order store.",
	}, []string{"event_type"})
	mergesApplied := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_store_merges_total",
		Help: "Merge operations applied to the order store.",
	}, []string{"operation"})
	fetchDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_fetch_duration_seconds",
		Help:    "Duration of order list fetches in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	fetchFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "order_fetch_failures_total",
		Help: "Order fetches that failed for reasons other than supersession.",
	})
	staleFetches := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "order_fetch_stale_discarded_total",
		Help: "Fetch results discarded because a newer fetch superseded them.",
	})
	reconnects := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "realtime_reconnects_total",
		Help: "Realtime channel connection attempts after the first.",
	})
	storeSize := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "order_store_size",
		Help: "Orders currently held in the collection store.",
	})
	reg.MustRegister(eventsRouted, mergesApplied, fetchDuration, fetchFailures, staleFetches, reconnects, storeSize)
	return &SyncMetrics{
		eventsRouted:  eventsRouted,
		mergesApplied: mergesApplied,
		fetchDuration: fetchDuration,
		fetchFailures: fetchFailures,
		staleFetches:  staleFetches,
		reconnects:    reconnects,
		storeSize:     storeSize,
	}
}

// IncEventRouted increments the routed-event counter for the given type.
func (s *SyncMetrics) IncEventRouted(eventType string) {
	if s == nil || s.eventsRouted == nil {
		return
	}
	s.eventsRouted.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// IncMergeApplied increments the merge counter for the named store operation.
func (s *SyncMetrics) IncMergeApplied(operation string) {
	if s == nil || s.mergesApplied == nil {
		return
	}
	s.mergesApplied.WithLabelValues(normalizeLabel(operation)).Inc()
}

// ObserveFetchDuration records how long a completed fetch took.
func (s *SyncMetrics) ObserveFetchDuration(duration time.Duration) {
	if s == nil || s.fetchDuration == nil {
		return
	}
	s.fetchDuration.Observe(duration.Seconds())
}

// IncFetchFailure increments the non-cancellation fetch failure counter.
func (s *SyncMetrics) IncFetchFailure() {
	if s == nil || s.fetchFailures == nil {
		return
	}
	s.fetchFailures.Inc()
}

// IncStaleFetchDiscarded increments the superseded-result counter.
func (s *SyncMetrics) IncStaleFetchDiscarded() {
	if s == nil || s.staleFetches == nil {
		return
	}
	s.staleFetches.Inc()
}

// IncReconnect increments the channel reconnect counter.
func (s *SyncMetrics) IncReconnect() {
	if s == nil || s.reconnects == nil {
		return
	}
	s.reconnects.Inc()
}

// SetStoreSize records the current order count.
func (s *SyncMetrics) SetStoreSize(n int) {
	if s == nil || s.storeSize == nil {
		return
	}
	s.storeSize.Set(float64(n))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
