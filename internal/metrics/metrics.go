// Package metrics exposes Prometheus instrumentation for the task API: a
// counter of task events fed by the events emitter, and request counters and
// latency histograms fed by an HTTP middleware.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/workforce-api/internal/events"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	LabelEvent  = "event"
	LabelStatus = "status"
	LabelMethod = "method"
	LabelRoute  = "route"
	LabelCode   = "code"

	// unmatchedRoute labels requests that did not hit a registered route.
	unmatchedRoute = "unmatched"
)

// Metrics holds the collectors of one process. Each instance owns its
// registry so tests can build as many as they need.
type Metrics struct {
	registry *prometheus.Registry

	taskEvents      *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

var _ events.EventHandler = (*Metrics)(nil)

// New creates and registers all collectors under namespace. Go runtime and
// process collectors are included.
func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		taskEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "task_events_total",
				Help:      "Total number of persisted task transitions",
			},
			[]string{LabelEvent, LabelStatus},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests served",
			},
			[]string{LabelMethod, LabelRoute, LabelCode},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{LabelMethod, LabelRoute},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.taskEvents,
		m.httpRequests,
		m.requestDuration,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// HandleEvent counts a task event. It implements events.EventHandler.
func (m *Metrics) HandleEvent(_ context.Context, event *events.TaskEvent) error {
	m.taskEvents.WithLabelValues(string(event.Type), string(event.Status)).Inc()
	return nil
}

// Middleware records request count and latency per chi route pattern, so
// path parameters do not explode label cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := unmatchedRoute
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
