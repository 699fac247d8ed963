// Package metrics holds the Prometheus collectors of the service. Every method
// is safe on a nil *Metrics so collaborators can run without a registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ndr"

type Metrics struct {
	gatherer prometheus.Gatherer

	scanDuration   prometheus.Histogram
	scanContexts   *prometheus.CounterVec
	schedulerRuns  *prometheus.CounterVec
	outreachSends  *prometheus.CounterVec
	outreachTime   *prometheus.HistogramVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	consumerEvents *prometheus.CounterVec
}

// New registers the collectors on a fresh registry together with the Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		gatherer: reg,
		scanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scan_duration_seconds",
			Help:      "Duration of rule engine scans.",
			Buckets:   []float64{0.5, 1, 5, 15, 30, 60, 120, 300, 600},
		}),
		scanContexts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scan_contexts_total",
			Help:      "Delivery attempt contexts evaluated, by result.",
		}, []string{"result"}),
		schedulerRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scheduler_runs_total",
			Help:      "Scheduler ticks, by final status.",
		}, []string{"status"}),
		outreachSends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outreach_sends_total",
			Help:      "Outreach attempts, by channel and outcome.",
		}, []string{"channel", "outcome"}),
		outreachTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "outreach_send_duration_seconds",
			Help:      "Provider call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"channel"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by route and status code.",
		}, []string{"method", "route", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		consumerEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delivery_events_total",
			Help:      "Delivery attempt events consumed, by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.scanDuration,
		m.scanContexts,
		m.schedulerRuns,
		m.outreachSends,
		m.outreachTime,
		m.httpRequests,
		m.httpDuration,
		m.consumerEvents,
	)
	return m
}

func (m *Metrics) ObserveScan(d time.Duration) {
	if m == nil {
		return
	}
	m.scanDuration.Observe(d.Seconds())
}

// CountContext records one evaluated context: created, updated, resolved, unchanged, failed or skipped.
func (m *Metrics) CountContext(result string) {
	if m == nil {
		return
	}
	m.scanContexts.WithLabelValues(result).Inc()
}

func (m *Metrics) CountRun(status string) {
	if m == nil {
		return
	}
	m.schedulerRuns.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveSend(channel, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.outreachSends.WithLabelValues(channel, outcome).Inc()
	m.outreachTime.WithLabelValues(channel).Observe(d.Seconds())
}

func (m *Metrics) CountDeliveryEvent(result string) {
	if m == nil {
		return
	}
	m.consumerEvents.WithLabelValues(result).Inc()
}

// GinMiddleware records request count and latency per matched route.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
