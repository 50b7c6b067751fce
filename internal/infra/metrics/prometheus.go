// Package metrics exposes use case timings and stock movements to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "donut"

// Registry implements usecase.Metrics on its own prometheus registry.
type Registry struct {
	reg       *prometheus.Registry
	duration  *prometheus.HistogramVec
	outcomes  *prometheus.CounterVec
	movements *prometheus.CounterVec
}

func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Latency of order engine operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Order engine operations by outcome (ok or error kind).",
		}, []string{"op", "outcome"}),
		movements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_units_total",
			Help:      "Units of stock moved, by direction.",
		}, []string{"direction"}),
	}
	r.reg.MustRegister(
		r.duration,
		r.outcomes,
		r.movements,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Registry) ObserveOperation(op, outcome string, elapsed time.Duration) {
	r.duration.WithLabelValues(op).Observe(elapsed.Seconds())
	r.outcomes.WithLabelValues(op, outcome).Inc()
}

func (r *Registry) AddStockMovement(direction string, units int) {
	if units <= 0 {
		return
	}
	r.movements.WithLabelValues(direction).Add(float64(units))
}

// Handler serves the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// Gatherer is exposed for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}
