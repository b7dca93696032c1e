package api

import (
	"net/http"

	"github.com/piwi3910/LoadPlan/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private Prometheus registry with the service's
// HTTP and planning metrics.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	PlansTotal      *prometheus.CounterVec
	LoadingMeters   prometheus.Histogram
	PlacedUnits     prometheus.Histogram
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: reg,
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "loadplan_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "loadplan_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		PlansTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "loadplan_plans_total",
			Help: "Load plans computed, by result status",
		}, []string{"status"}),
		LoadingMeters: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "loadplan_loading_meters",
			Help:    "Required loading meters per plan",
			Buckets: []float64{1, 2.5, 5, 7.5, 10, 13.6, 20, 27.2, 40.8},
		}),
		PlacedUnits: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "loadplan_placed_units",
			Help:    "Placed units per plan",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
	}
	reg.MustRegister(m.RequestsTotal, m.RequestDuration, m.PlansTotal, m.LoadingMeters, m.PlacedUnits)
	return m
}

// ObservePlan records a computed plan.
func (m *Metrics) ObservePlan(r model.PackingResult) {
	m.PlansTotal.WithLabelValues(r.Status().String()).Inc()
	m.LoadingMeters.Observe(r.RequiredLength)
	m.PlacedUnits.Observe(float64(r.UnitCount))
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
