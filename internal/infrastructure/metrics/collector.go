package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mcp-agent/internal/application/port/output"
)

var _ output.MetricsPort = (*Collector)(nil)

// Collector owns a private registry so tests and multiple servers in one
// process do not collide on the global one.
type Collector struct {
	registry *prometheus.Registry

	navigationsTotal   *prometheus.CounterVec
	navigationDuration prometheus.Histogram
	navigationWarnings prometheus.Histogram
	snapshotsTotal     *prometheus.CounterVec
	invokesTotal       *prometheus.CounterVec
}

func NewCollector(namespace string) *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		navigationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "navigations_total",
				Help:      "Browser navigations by outcome.",
			},
			[]string{"success", "search_performed"},
		),
		navigationDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "navigation_duration_seconds",
				Help:      "Wall time of one browser_navigate call.",
				Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
			},
		),
		navigationWarnings: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "navigation_warnings",
				Help:      "Warnings produced per navigation.",
				Buckets:   []float64{0, 1, 2, 3, 5, 8},
			},
		),
		snapshotsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "snapshots_total",
				Help:      "Page snapshots served, by cache result.",
			},
			[]string{"cached"},
		),
		invokesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "invokes_total",
				Help:      "MCP tool invocations by tool and status.",
			},
			[]string{"tool", "status"},
		),
	}
}

func (c *Collector) ObserveNavigation(success, searchPerformed bool, warnings int, elapsed time.Duration) {
	c.navigationsTotal.WithLabelValues(strconv.FormatBool(success), strconv.FormatBool(searchPerformed)).Inc()
	c.navigationDuration.Observe(elapsed.Seconds())
	c.navigationWarnings.Observe(float64(warnings))
}

func (c *Collector) ObserveSnapshot(cached bool) {
	c.snapshotsTotal.WithLabelValues(strconv.FormatBool(cached)).Inc()
}

func (c *Collector) ObserveInvoke(tool, status string) {
	c.invokesTotal.WithLabelValues(tool, status).Inc()
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
