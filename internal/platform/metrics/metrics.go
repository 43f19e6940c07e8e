package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

// Metrics owns the storefront's collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	sessionsCreated   prometheus.Counter
	sessionsFailed    *prometheus.CounterVec
	sessionsRetrieved *prometheus.CounterVec
	directoryReads    *prometheus.CounterVec
}

// New registers all collectors, plus Go runtime and process collectors, on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "Total HTTP requests"},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Namespace: namespace, Name: "http_request_duration_seconds", Help: "HTTP request duration", Buckets: prometheus.DefBuckets},
			[]string{"method", "route"},
		),
		sessionsCreated: prometheus.NewCounter(
			prometheus.CounterOpts{Namespace: namespace, Subsystem: "checkout", Name: "sessions_created_total", Help: "Checkout sessions created with the payment provider"},
		),
		sessionsFailed: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Subsystem: "checkout", Name: "sessions_failed_total", Help: "Checkout session operations that failed, by kind"},
			[]string{"kind"},
		),
		sessionsRetrieved: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Subsystem: "checkout", Name: "sessions_retrieved_total", Help: "Checkout session lookups, by outcome"},
			[]string{"outcome"},
		),
		directoryReads: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Subsystem: "admin", Name: "directory_reads_total", Help: "Team directory list reads, by outcome"},
			[]string{"outcome"},
		),
	}
	reg.MustRegister(
		m.httpRequests, m.httpDuration,
		m.sessionsCreated, m.sessionsFailed, m.sessionsRetrieved, m.directoryReads,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Middleware records request counts and latency keyed by the matched chi route.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(sw, r)
		route := routePattern(r)
		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).Inc()
		m.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) CheckoutSessionCreated() { m.sessionsCreated.Inc() }

func (m *Metrics) CheckoutSessionFailed(kind string) { m.sessionsFailed.WithLabelValues(kind).Inc() }

func (m *Metrics) CheckoutSessionRetrieved(outcome string) {
	m.sessionsRetrieved.WithLabelValues(outcome).Inc()
}

func (m *Metrics) DirectoryRead(outcome string) { m.directoryReads.WithLabelValues(outcome).Inc() }

type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
