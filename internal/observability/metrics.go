package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	walksCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "walkapi",
		Subsystem: "walks",
		Name:      "created_total",
		Help:      "Number of walk records persisted.",
	})
	walksDeleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "walkapi",
		Subsystem: "walks",
		Name:      "deleted_total",
		Help:      "Number of walk records deleted.",
	})
	walkPersistGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "walkapi",
		Subsystem: "walks",
		Name:      "last_persisted_timestamp_seconds",
		Help:      "Unix timestamp of the most recent walk record persisted.",
	})
	weatherRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "walkapi",
		Subsystem: "weather",
		Name:      "requests_total",
		Help:      "Weather lookups by the source of the returned snapshot (live or fallback).",
	}, []string{"source"})
	storeUp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "walkapi",
		Subsystem: "store",
		Name:      "up",
		Help:      "1 when the last store probe succeeded, 0 otherwise.",
	})
)

func init() {
	prometheus.MustRegister(walksCreated, walksDeleted, walkPersistGauge, weatherRequests, storeUp)
}

// RecordWalkCreated bumps the create counter and the persistence watermark.
func RecordWalkCreated(ts time.Time) {
	walksCreated.Inc()
	if ts.IsZero() {
		return
	}
	walkPersistGauge.Set(float64(ts.Unix()))
}

// RecordWalkDeleted bumps the delete counter.
func RecordWalkDeleted() {
	walksDeleted.Inc()
}

// RecordWeatherRequest counts a weather response by source.
func RecordWeatherRequest(source string) {
	weatherRequests.WithLabelValues(source).Inc()
}

// RecordStoreProbe stores the outcome of a periodic store probe.
func RecordStoreProbe(ok bool) {
	if ok {
		storeUp.Set(1)
		return
	}
	storeUp.Set(0)
}
