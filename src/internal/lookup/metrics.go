package lookup

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Lookup results as counted by deposit_import_lookups_total.
const (
	resultMalformed = "malformed"
	resultDatabase  = "database"
	resultFetched   = "fetched"
	resultNotFound  = "notfound"
	resultError     = "error"
)

type metrics struct {
	lookups  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	gatherer prometheus.Gatherer
}

// EnableMetrics registers the service collectors on reg and serves them at
// /metrics from Handler.
func (s *Service) EnableMetrics(reg *prometheus.Registry) error {
	m := &metrics{
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "deposit_import_lookups_total",
			Help: "Identifier lookups by kind and result.",
		}, []string{"kind", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "deposit_import_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method", "route", "status_code"}),
		gatherer: reg,
	}
	for _, c := range []prometheus.Collector{m.lookups, m.duration} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	s.metrics = m
	return nil
}

func (m *metrics) countLookup(kind, result string) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(kind, result).Inc()
}

func (m *metrics) observeRequest(method, route string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(method, route, strconv.Itoa(code)).Observe(d.Seconds())
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
