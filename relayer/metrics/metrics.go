// Package metrics exposes relayer counters on a dedicated prometheus registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "riskmesh"

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
)

// Metrics holds every collector the relayer updates.
type Metrics struct {
	registry *prometheus.Registry

	Submissions     *prometheus.CounterVec
	SubmitDuration  *prometheus.HistogramVec
	Retries         *prometheus.CounterVec
	LedgerHeight    prometheus.Gauge
	Observations    *prometheus.CounterVec
	SweepRuns       prometheus.Counter
	SweepOperations *prometheus.CounterVec
}

// New registers the relayer collectors, plus the Go runtime and process
// collectors, on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Messages submitted to the ledger by type and outcome.",
		}, []string{"msg_type", "outcome"}),
		SubmitDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "submit_duration_seconds",
			Help:      "Time to execute and commit one message, retries included.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"msg_type"}),
		Retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submission_retries_total",
			Help:      "Retried submissions by message type.",
		}, []string{"msg_type"}),
		LedgerHeight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ledger_height",
			Help:      "Last committed ledger height.",
		}),
		Observations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "observations_total",
			Help:      "Delay observations received by outcome.",
		}, []string{"outcome"}),
		SweepRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweep_runs_total",
			Help:      "Completed sweeper passes.",
		}),
		SweepOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweep_operations_total",
			Help:      "Operations issued by the sweeper by action and outcome.",
		}, []string{"action", "outcome"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Submissions,
		m.SubmitDuration,
		m.Retries,
		m.LedgerHeight,
		m.Observations,
		m.SweepRuns,
		m.SweepOperations,
	)
	return m
}

// ObserveSubmission records one finished submission.
func (m *Metrics) ObserveSubmission(msgType string, height int64, took time.Duration, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailed
	} else {
		m.LedgerHeight.Set(float64(height))
	}
	m.Submissions.WithLabelValues(msgType, outcome).Inc()
	m.SubmitDuration.WithLabelValues(msgType).Observe(took.Seconds())
}

// Registry exposes the underlying registry for tests and custom collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
