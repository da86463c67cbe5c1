package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	// HTTP metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Model service metrics
	trainTotal    *prometheus.CounterVec
	trainDuration prometheus.Histogram
	predictTotal  *prometheus.CounterVec
	modelRequests *prometheus.CounterVec
	archiveWrites *prometheus.CounterVec
	jobsActive    *prometheus.GaugeVec
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		httpRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently in flight",
			},
		),

		trainTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pricecast_train_total",
				Help: "Total number of training requests by outcome",
			},
			[]string{"status"},
		),

		// Training on the remote side can take minutes.
		trainDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pricecast_train_duration_seconds",
				Help:    "Duration of training calls in seconds",
				Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
			},
		),

		predictTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pricecast_predict_total",
				Help: "Total number of prediction requests by outcome",
			},
			[]string{"status"},
		),

		modelRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pricecast_model_requests_total",
				Help: "Requests sent to the model service",
			},
			[]string{"endpoint", "status"},
		),

		archiveWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pricecast_archive_writes_total",
				Help: "Prediction snapshots written to the archive",
			},
			[]string{"status"},
		),

		jobsActive: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pricecast_jobs_active",
				Help: "Number of active background jobs",
			},
			[]string{"type"},
		),
	}

	reg.MustRegister(r.httpRequestsTotal)
	reg.MustRegister(r.httpRequestDuration)
	reg.MustRegister(r.httpRequestsInFlight)
	reg.MustRegister(r.trainTotal)
	reg.MustRegister(r.trainDuration)
	reg.MustRegister(r.predictTotal)
	reg.MustRegister(r.modelRequests)
	reg.MustRegister(r.archiveWrites)
	reg.MustRegister(r.jobsActive)

	return r
}

// RecordRequest records metrics for an HTTP request.
func (r *Registry) RecordRequest(method, path string, status int, duration float64) {
	statusStr := statusToString(status)
	r.httpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	r.httpRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// InFlightInc increments in-flight requests.
func (r *Registry) InFlightInc() {
	r.httpRequestsInFlight.Inc()
}

// InFlightDec decrements in-flight requests.
func (r *Registry) InFlightDec() {
	r.httpRequestsInFlight.Dec()
}

// RecordTrain records a finished training call.
func (r *Registry) RecordTrain(status string, duration float64) {
	r.trainTotal.WithLabelValues(status).Inc()
	if status != "rejected" {
		r.trainDuration.Observe(duration)
	}
}

// RecordPredict records a finished prediction fetch.
func (r *Registry) RecordPredict(status string) {
	r.predictTotal.WithLabelValues(status).Inc()
}

// RecordModelRequest records one request to the model service.
func (r *Registry) RecordModelRequest(endpoint string, status int) {
	label := "error"
	if status > 0 {
		label = statusToString(status)
	}
	r.modelRequests.WithLabelValues(endpoint, label).Inc()
}

// RecordArchiveWrite records a snapshot archive attempt.
func (r *Registry) RecordArchiveWrite(status string) {
	r.archiveWrites.WithLabelValues(status).Inc()
}

// SetJobsActive sets the number of active jobs of a type.
func (r *Registry) SetJobsActive(jobType string, count int) {
	r.jobsActive.WithLabelValues(jobType).Set(float64(count))
}

func statusToString(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}

// Handler exposes the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.Registry, promhttp.HandlerOpts{})
}
