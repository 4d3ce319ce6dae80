package metric

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "comp313_http_requests_total",
	Help: "Count of handled HTTP requests",
}, []string{"method", "path"})

func CountRequest(method, path string) {
	httpRequests.WithLabelValues(method, path).Inc()
}
