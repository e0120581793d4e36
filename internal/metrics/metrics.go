// Package metrics exposes promptdeck counters and gauges over Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeSkipped  = "skipped"
	OutcomeLimited  = "limited"
	OutcomeDegraded = "degraded"
)

// Metrics groups every collector the engine reports to. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	SourceFetches     *prometheus.CounterVec
	LikeRegistrations *prometheus.CounterVec
	LikesRefreshes    *prometheus.CounterVec
	GlobalLikes       prometheus.Gauge
	Entries           *prometheus.GaugeVec
}

// New registers the collectors on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		SourceFetches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "promptdeck_source_fetch_total",
			Help: "Catalog source fetches by source and outcome.",
		}, []string{"source", "outcome"}),
		LikeRegistrations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "promptdeck_like_registrations_total",
			Help: "Detached like registrations by outcome.",
		}, []string{"outcome"}),
		LikesRefreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "promptdeck_likes_refresh_total",
			Help: "Background likes refreshes by outcome.",
		}, []string{"outcome"}),
		GlobalLikes: factory.NewGauge(prometheus.GaugeOpts{
			Name: "promptdeck_global_likes",
			Help: "Sum of all like counts in the current likes map.",
		}),
		Entries: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "promptdeck_entries",
			Help: "Loaded catalog entries per role.",
		}, []string{"role"}),
	}
}

// SourceFetch counts one source fetch.
func (m *Metrics) SourceFetch(source, outcome string) {
	if m == nil {
		return
	}
	m.SourceFetches.WithLabelValues(source, outcome).Inc()
}

// LikeRegistration counts one detached registration attempt.
func (m *Metrics) LikeRegistration(outcome string) {
	if m == nil {
		return
	}
	m.LikeRegistrations.WithLabelValues(outcome).Inc()
}

// LikesRefresh counts one background refresh.
func (m *Metrics) LikesRefresh(outcome string) {
	if m == nil {
		return
	}
	m.LikesRefreshes.WithLabelValues(outcome).Inc()
}

// SetGlobalLikes records the likes total.
func (m *Metrics) SetGlobalLikes(total int) {
	if m == nil {
		return
	}
	m.GlobalLikes.Set(float64(total))
}

// SetEntries records how many entries role holds.
func (m *Metrics) SetEntries(role string, n int) {
	if m == nil {
		return
	}
	m.Entries.WithLabelValues(role).Set(float64(n))
}
