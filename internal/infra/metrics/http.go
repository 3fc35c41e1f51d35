package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(httpRequestsTotal, httpRequestLatencyMs)
}

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests, labeled by path and status code.",
		},
		[]string{"path", "code"},
	)

	httpRequestLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_latency_ms",
			Help:    "HTTP request latency distribution in milliseconds.",
			Buckets: []float64{5, 10, 25, 50, 100, 200, 400, 800, 1600, 3000},
		},
		[]string{"path"},
	)
)

func ObserveHTTPRequest(path string, code int, elapsed time.Duration) {
	httpRequestsTotal.WithLabelValues(path, strconv.Itoa(code)).Inc()
	httpRequestLatencyMs.WithLabelValues(path).Observe(float64(elapsed.Milliseconds()))
}
