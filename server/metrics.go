package server

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Ashenafi-pixel/spin-to-win/prize"
)

// metrics implements session.Observer.
type metrics struct {
	started *prometheus.CounterVec
	blocked prometheus.Counter
	awarded *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		started: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spin_games_started_total",
			Help: "Games started (prize drawn), by variant.",
		}, []string{"variant"}),
		blocked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spin_logins_blocked_total",
			Help: "Logins turned away because the email already played today.",
		}),
		awarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spin_prizes_awarded_total",
			Help: "Tickets issued, by prize code prefix and variant.",
		}, []string{"prize", "variant"}),
	}
	reg.MustRegister(m.started, m.blocked, m.awarded)
	return m
}

func (m *metrics) Started(variant string) {
	m.started.WithLabelValues(variant).Inc()
}

func (m *metrics) Blocked() {
	m.blocked.Inc()
}

func (m *metrics) Awarded(p prize.Prize, variant string) {
	m.awarded.WithLabelValues(p.CodePrefix, variant).Inc()
}
