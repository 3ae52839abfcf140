// Package metrics exposes Prometheus counters for certificate issuance,
// roster imports and public verification lookups.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics methods are safe on a nil receiver so components can run without
// instrumentation in tests.
type Metrics struct {
	registry      *prometheus.Registry
	certificates  prometheus.Counter
	rosterRows    *prometheus.CounterVec
	verifications *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		certificates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "traintrace",
			Name:      "certificates_issued_total",
			Help:      "Certificates rendered and stored.",
		}),
		rosterRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "traintrace",
			Name:      "roster_rows_total",
			Help:      "Spreadsheet rows processed by the roster importer.",
		}, []string{"outcome"}),
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "traintrace",
			Name:      "verifications_total",
			Help:      "Public certificate verification lookups.",
		}, []string{"result"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.certificates,
		m.rosterRows,
		m.verifications,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) CertificateIssued() {
	if m == nil {
		return
	}
	m.certificates.Inc()
}

func (m *Metrics) RosterRows(imported, failed int) {
	if m == nil {
		return
	}
	m.rosterRows.WithLabelValues("imported").Add(float64(imported))
	m.rosterRows.WithLabelValues("failed").Add(float64(failed))
}

func (m *Metrics) Verification(valid bool) {
	if m == nil {
		return
	}
	result := "invalid"
	if valid {
		result = "valid"
	}
	m.verifications.WithLabelValues(result).Inc()
}
