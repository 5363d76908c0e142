// Package metrics exposes Prometheus counters for the conversion checks served.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fluecheck"

// Metrics holds the collectors of one server on their own registry.
type Metrics struct {
	registry *prometheus.Registry

	Decisions     *prometheus.CounterVec
	Qualification *prometheus.CounterVec
	Renders       *prometheus.CounterVec
	Requests      *prometheus.CounterVec
}

// Result labels of the render counter.
const (
	RenderOK         = "ok"
	RenderIncomplete = "incomplete"
	RenderFailed     = "failed"
)

// New registers the collectors. activeSessions, when not nil, is sampled on every scrape.
func New(activeSessions func() int) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "decisions_total",
				Help:      "Eligibility decisions by outcome",
			},
			[]string{"outcome"},
		),
		Qualification: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "qualification_checks_total",
				Help:      "Qualification gate answers by result",
			},
			[]string{"result"},
		),
		Renders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "documents_rendered_total",
				Help:      "Confirmation document render attempts by result",
			},
			[]string{"result"},
		),
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route and status code",
			},
			[]string{"route", "code"},
		),
	}
	m.registry.MustRegister(m.Decisions, m.Qualification, m.Renders, m.Requests)
	m.registry.MustRegister(collectors.NewGoCollector())
	if activeSessions != nil {
		m.registry.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "sessions_active",
				Help:      "Sessions currently held in memory",
			},
			func() float64 { return float64(activeSessions()) },
		))
	}
	return m
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
