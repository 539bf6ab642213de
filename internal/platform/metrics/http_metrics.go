package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	requestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	statusCategoryCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_status_category_total",
			Help: "Total number of responses by status category (2xx, 4xx, 5xx)",
		},
		[]string{"category", "method", "path"},
	)
)

// registerOnce guards the package-level collectors: constructing a second
// HTTPMetrics must not re-register them.
var registerOnce sync.Once

// HTTPMetrics collects request metrics for the API server.
type HTTPMetrics struct{}

func NewHTTPMetrics() *HTTPMetrics {
	registerOnce.Do(func() {
		prometheus.MustRegister(requestCounter)
		prometheus.MustRegister(requestDurationHistogram)
		prometheus.MustRegister(statusCategoryCounter)
	})
	return &HTTPMetrics{}
}

// Middleware records a counter, duration histogram and status-category
// counter for every request. Uses the route template (FullPath) rather than
// the raw URL so label cardinality stays bounded.
func (m *HTTPMetrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		status := c.Writer.Status()
		statusStr := strconv.Itoa(status)

		requestCounter.WithLabelValues(method, path, statusStr).Inc()
		requestDurationHistogram.WithLabelValues(method, path, statusStr).Observe(time.Since(start).Seconds())

		category := ""
		switch {
		case status >= 200 && status < 300:
			category = "2xx"
		case status >= 400 && status < 500:
			category = "4xx"
		case status >= 500 && status < 600:
			category = "5xx"
		}
		if category != "" {
			statusCategoryCounter.WithLabelValues(category, method, path).Inc()
		}
	}
}

// Handler exposes the prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
