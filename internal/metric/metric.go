package metric

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPRequests counts handled requests by route, method and response status.
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "multical_http_requests_total",
	Help: "Total number of handled HTTP requests",
}, []string{"route", "method", "status"})

// HTTPDuration tracks request latency by route.
var HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "multical_http_request_duration_seconds",
	Help:    "HTTP request latency in seconds",
	Buckets: prometheus.DefBuckets,
}, []string{"route"})
