package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP 请求延迟（秒）
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// 资源操作计数
	ResourceOperationCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resource_operation_count",
			Help: "Total number of resource CRUD operations",
		},
		[]string{"resource", "operation", "outcome"}, // outcome: success, failed
	)
)

// RecordHTTPRequestDuration 记录 HTTP 请求延迟
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// IncrementResourceOperation 增加资源操作计数
func IncrementResourceOperation(resource, operation, outcome string) {
	ResourceOperationCount.WithLabelValues(resource, operation, outcome).Inc()
}
