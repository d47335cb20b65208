package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce       sync.Once
	httpRequestsTotal  *prometheus.CounterVec
	httpLatencySeconds *prometheus.HistogramVec
	httpErrorsTotal    *prometheus.CounterVec
	uploadsTotal       *prometheus.CounterVec
	uploadRejected     *prometheus.CounterVec
	uploadLatency      *prometheus.HistogramVec
	uploadBytes        *prometheus.HistogramVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coursehub_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "coursehub_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coursehub_http_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		uploadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coursehub_uploads_total",
			Help: "Files stored, by upload kind and material type.",
		}, []string{"kind", "type"})

		uploadRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coursehub_upload_rejected_total",
			Help: "Uploads rejected, by upload kind and reason.",
		}, []string{"kind", "reason"})

		uploadLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "coursehub_upload_duration_seconds",
			Help:    "Time spent storing an upload and recording its metadata.",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"})

		uploadBytes = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "coursehub_upload_size_bytes",
			Help:    "Size distribution of stored uploads.",
			Buckets: prometheus.ExponentialBuckets(64*1024, 4, 7),
		}, []string{"kind"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			uploadsTotal,
			uploadRejected,
			uploadLatency,
			uploadBytes,
		)
	})
}

// HTTPRequests exposes the request counter.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the request latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the error response counter.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// Uploads exposes the stored upload counter.
func Uploads() *prometheus.CounterVec {
	RegisterMetrics()
	return uploadsTotal
}

// UploadRejected exposes the rejected upload counter.
func UploadRejected() *prometheus.CounterVec {
	RegisterMetrics()
	return uploadRejected
}

// UploadLatency exposes the upload duration histogram.
func UploadLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return uploadLatency
}

// UploadBytes exposes the upload size histogram.
func UploadBytes() *prometheus.HistogramVec {
	RegisterMetrics()
	return uploadBytes
}
