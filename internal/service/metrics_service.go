package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tabi-ops/tabi-api/internal/models"
	"github.com/tabi-ops/tabi-api/internal/store"
)

// MetricsService owns the Prometheus registry: HTTP observations plus
// gauges derived from the store on demand.
type MetricsService struct {
	registry *prometheus.Registry

	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	recordsByStatus  *prometheus.GaugeVec
	assignmentsTotal prometheus.Gauge
}

func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &MetricsService{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tabi",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tabi",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		recordsByStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "tabi",
			Name:      "records",
			Help:      "Schedule records by workflow status.",
		}, []string{"status"}),
		assignmentsTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tabi",
			Name:      "assignments_total",
			Help:      "Assignment events currently on the ledger.",
		}),
	}
	registry.MustRegister(m.requestsTotal, m.requestDuration, m.recordsByStatus, m.assignmentsTotal)
	return m
}

// ObserveRequest records one completed HTTP request.
func (m *MetricsService) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Refresh recomputes the store-derived gauges.
func (m *MetricsService) Refresh(st *store.Store) {
	counts := map[models.RecordStatus]int{}
	assignments := 0
	st.View(func(state *store.State) {
		for _, rec := range state.Records {
			counts[rec.Status]++
		}
		for _, events := range state.Assignments {
			assignments += len(events)
		}
	})

	m.recordsByStatus.Reset()
	for status, n := range counts {
		m.recordsByStatus.WithLabelValues(string(status)).Set(float64(n))
	}
	m.assignmentsTotal.Set(float64(assignments))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *MetricsService) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
