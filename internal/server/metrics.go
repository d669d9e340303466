package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	registry *prometheus.Registry

	auditsTotal      *prometheus.CounterVec
	auditDuration    prometheus.Histogram
	probesTotal      *prometheus.CounterVec
	probeDuration    prometheus.Histogram
	providerRequests *prometheus.CounterVec
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &metrics{
		registry: reg,
		auditsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "geoaudit_audits_total",
			Help: "Audits served, by outcome.",
		}, []string{"outcome"}),
		auditDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "geoaudit_audit_duration_seconds",
			Help:    "Wall time per audit, fetch included.",
			Buckets: prometheus.DefBuckets,
		}),
		probesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "geoaudit_probes_total",
			Help: "Visibility probes served, by outcome.",
		}, []string{"outcome"}),
		probeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "geoaudit_probe_duration_seconds",
			Help:    "Wall time per visibility probe across all providers.",
			Buckets: prometheus.DefBuckets,
		}),
		providerRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "geoaudit_provider_requests_total",
			Help: "Individual AI provider calls, by provider and outcome.",
		}, []string{"provider", "outcome"}),
	}

	reg.MustRegister(m.auditsTotal, m.auditDuration, m.probesTotal, m.probeDuration, m.providerRequests)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func outcomeLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
