// Package metrics exposes Prometheus instruments for the report store and
// content generation.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "reportkeeper"

// Collector implements reports.Observer and records generation outcomes.
type Collector struct {
	mutations     *prometheus.CounterVec
	persistErrors prometheus.Counter
	reports       prometheus.Gauge
	generations   *prometheus.CounterVec
	logins        *prometheus.CounterVec
}

// New creates the instruments and registers them with reg.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "mutations_total",
			Help:      "Report store mutations by operation.",
		}, []string{"op"}),
		persistErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "persist_errors_total",
			Help:      "Failed writes of the report collection.",
		}),
		reports: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "reports",
			Help:      "Number of reports after the last mutation.",
		}),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_requests_total",
			Help:      "Content generation requests by result.",
		}, []string{"result"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(c.mutations, c.persistErrors, c.reports, c.generations, c.logins)
	return c
}

func (c *Collector) ObserveMutation(op string, size int) {
	c.mutations.WithLabelValues(op).Inc()
	c.reports.Set(float64(size))
}

func (c *Collector) ObservePersistError() {
	c.persistErrors.Inc()
}

// ObserveGeneration counts a generation request; result is "ok", "error" or "in_flight".
func (c *Collector) ObserveGeneration(result string) {
	c.generations.WithLabelValues(result).Inc()
}

// ObserveLogin counts a login attempt.
func (c *Collector) ObserveLogin(ok bool) {
	result := "failure"
	if ok {
		result = "success"
	}
	c.logins.WithLabelValues(result).Inc()
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
