package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "school",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "school",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	billingRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "school",
			Subsystem: "billing",
			Name:      "runs_total",
			Help:      "Total number of monthly billing runs by result.",
		},
		[]string{"result"},
	)

	billingInvoices = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "school",
			Subsystem: "billing",
			Name:      "invoices_total",
			Help:      "Per-student outcomes of billing runs.",
		},
		[]string{"outcome"},
	)

	billingDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "school",
			Subsystem: "billing",
			Name:      "run_duration_seconds",
			Help:      "Duration of monthly billing runs.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		billingRuns,
		billingInvoices,
		billingDuration,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request count and latency per matched route.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == "/metrics" {
			return c.Next()
		}
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		route := c.Route().Path
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// RecordBillingRun: result = "ok" | "partial" | "canceled" | "error".
func RecordBillingRun(result string, created, skipped, failed int, d time.Duration) {
	billingRuns.WithLabelValues(result).Inc()
	billingInvoices.WithLabelValues("created").Add(float64(created))
	billingInvoices.WithLabelValues("skipped").Add(float64(skipped))
	billingInvoices.WithLabelValues("failed").Add(float64(failed))
	billingDuration.Observe(d.Seconds())
}
