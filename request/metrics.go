package request

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exports pipeline counters. A nil *Metrics records nothing.
type Metrics struct {
	hits    prometheus.Counter
	misses  prometheus.Counter
	fetches *prometheus.CounterVec
	errors  *prometheus.CounterVec
	engine  *prometheus.GaugeVec
}

// NewMetrics registers the pipeline metrics on reg (nil => prometheus.DefaultRegisterer)
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Responses served from the cache",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Cache lookups that fell through to the network",
		}),
		fetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Catalog HTTP requests by status code",
			},
			[]string{"code"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "errors_total",
				Help:      "Failed catalog requests by kind",
			},
			[]string{"kind"},
		),
		engine: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "engine_info",
				Help:      "Active cache engine",
			},
			[]string{"engine"},
		),
	}
	reg.MustRegister(m.hits, m.misses, m.fetches, m.errors, m.engine)
	return m
}

func (m *Metrics) hit() {
	if m != nil {
		m.hits.Inc()
	}
}

func (m *Metrics) miss() {
	if m != nil {
		m.misses.Inc()
	}
}

func (m *Metrics) fetched(code int) {
	if m != nil {
		m.fetches.WithLabelValues(strconv.Itoa(code)).Inc()
	}
}

func (m *Metrics) failed(kind string) {
	if m != nil {
		m.errors.WithLabelValues(kind).Inc()
	}
}

// Engine records name as the active cache engine
func (m *Metrics) Engine(name string) {
	if m == nil {
		return
	}
	m.engine.Reset()
	m.engine.WithLabelValues(name).Set(1)
}
