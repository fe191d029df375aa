// Package metrics exports denmark's observability hooks to Prometheus.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/binford2k/denmark/pkg/observability"
)

const namespace = "denmark"

// Metrics holds the Prometheus collectors. It implements
// observability.PluginHooks, observability.CacheHooks and
// observability.HTTPHooks.
type Metrics struct {
	// Outgoing registry and git-hosting API calls
	APIRequests        *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec
	APIErrors          *prometheus.CounterVec

	// Smell engine
	PluginRuns     *prometheus.CounterVec
	PluginDuration *prometheus.HistogramVec
	PluginAlerts   *prometheus.CounterVec

	// In-run response memo
	CacheLookups *prometheus.CounterVec

	// Incoming HTTP API requests
	ServerRequests        *prometheus.CounterVec
	ServerRequestDuration *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

var (
	_ observability.PluginHooks = (*Metrics)(nil)
	_ observability.CacheHooks  = (*Metrics)(nil)
	_ observability.HTTPHooks   = (*Metrics)(nil)
)

// New creates the collectors and registers them with reg.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{gatherer: reg}

	m.APIRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Requests made to registry and git-hosting APIs",
		},
		[]string{"host", "status"},
	)
	m.APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "Latency of registry and git-hosting API requests",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"host"},
	)
	m.APIErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_errors_total",
			Help:      "API requests that failed before a response arrived",
		},
		[]string{"host"},
	)
	m.PluginRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plugin_runs_total",
			Help:      "Smell plugin executions",
		},
		[]string{"plugin", "result"},
	)
	m.PluginDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "plugin_duration_seconds",
			Help:      "Time spent in each smell plugin",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"plugin"},
	)
	m.PluginAlerts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plugin_alerts_total",
			Help:      "Alerts raised by smell plugins",
		},
		[]string{"plugin", "severity"},
	)
	m.CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Response memo lookups",
		},
		[]string{"namespace", "result"},
	)
	m.ServerRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Requests served by the denmark API",
		},
		[]string{"method", "route", "status"},
	)
	m.ServerRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency of requests served by the denmark API",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	reg.MustRegister(
		m.APIRequests,
		m.APIRequestDuration,
		m.APIErrors,
		m.PluginRuns,
		m.PluginDuration,
		m.PluginAlerts,
		m.CacheLookups,
		m.ServerRequests,
		m.ServerRequestDuration,
	)
	return m
}

// Install registers m as the process-wide hook implementation.
func (m *Metrics) Install() {
	observability.SetPluginHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Middleware records every request served by a chi router.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.ServerRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.ServerRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) OnPluginStart(context.Context, string) {}

func (m *Metrics) OnPluginComplete(_ context.Context, plugin string, _ int, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.PluginRuns.WithLabelValues(plugin, result).Inc()
	m.PluginDuration.WithLabelValues(plugin).Observe(d.Seconds())
}

func (m *Metrics) OnAlert(_ context.Context, plugin, severity string) {
	m.PluginAlerts.WithLabelValues(plugin, severity).Inc()
}

func (m *Metrics) OnCacheHit(_ context.Context, ns string) {
	m.CacheLookups.WithLabelValues(ns, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, ns string) {
	m.CacheLookups.WithLabelValues(ns, "miss").Inc()
}

func (m *Metrics) OnCacheSet(context.Context, string, int) {}

func (m *Metrics) OnRequest(context.Context, string, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, _, host, _ string, status int, d time.Duration) {
	m.APIRequests.WithLabelValues(host, strconv.Itoa(status)).Inc()
	m.APIRequestDuration.WithLabelValues(host).Observe(d.Seconds())
}

func (m *Metrics) OnError(_ context.Context, _, host, _ string, _ error) {
	m.APIErrors.WithLabelValues(host).Inc()
}
