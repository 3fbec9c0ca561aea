package metric

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "authfront"

// Registry holds all application metrics.
type Registry struct {
	registry *prometheus.Registry

	// API client metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Session metrics
	SessionAuthenticated prometheus.Gauge
	SessionTransitions   *prometheus.CounterVec

	// Form metrics
	FormSubmissions *prometheus.CounterVec
}

// NewRegistry creates a registry with all metrics and the Go runtime
// and process collectors registered.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),

		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "API requests sent, by method, endpoint and status.",
		}, []string{"method", "endpoint", "status"}),

		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "API request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),

		SessionAuthenticated: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "session_authenticated",
			Help:      "1 when the current session is authenticated, 0 otherwise.",
		}),

		SessionTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_transitions_total",
			Help:      "Session state changes, by resulting state.",
		}, []string{"state"}),

		FormSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "form_submissions_total",
			Help:      "Form submissions, by form and outcome.",
		}, []string{"form", "outcome"}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.RequestsTotal,
		r.RequestDuration,
		r.SessionAuthenticated,
		r.SessionTransitions,
		r.FormSubmissions,
	)

	return r
}

var (
	globalOnce     sync.Once
	globalRegistry *Registry
)

// Global returns the process-wide registry.
func Global() *Registry {
	globalOnce.Do(func() {
		globalRegistry = NewRegistry()
	})
	return globalRegistry
}

// Handler returns an HTTP handler for the global registry.
func Handler() http.Handler {
	return Global().Handler()
}

// Handler returns an HTTP handler serving this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// MustRegister registers additional collectors.
func (r *Registry) MustRegister(cs ...prometheus.Collector) {
	r.registry.MustRegister(cs...)
}

// RecordRequest counts one API request.
func (r *Registry) RecordRequest(method, endpoint, status string) {
	r.RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
}

// ObserveRequestDuration records API request latency.
func (r *Registry) ObserveRequestDuration(method, endpoint string, seconds float64) {
	r.RequestDuration.WithLabelValues(method, endpoint).Observe(seconds)
}

// SetAuthenticated sets the session gauge.
func (r *Registry) SetAuthenticated(ok bool) {
	if ok {
		r.SessionAuthenticated.Set(1)
		return
	}
	r.SessionAuthenticated.Set(0)
}

// RecordSessionTransition counts a change into state.
func (r *Registry) RecordSessionTransition(state string) {
	r.SessionTransitions.WithLabelValues(state).Inc()
}

// RecordFormSubmit counts a form submission outcome.
func (r *Registry) RecordFormSubmit(form, outcome string) {
	r.FormSubmissions.WithLabelValues(form, outcome).Inc()
}
