// Package metrics holds the Prometheus collectors served on /metrics.
package metrics

import (
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agency",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "agency",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
	loginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agency",
			Subsystem: "auth",
			Name:      "login_attempts_total",
			Help:      "Login attempts by result.",
		},
		[]string{"result"},
	)
	reportTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agency",
			Subsystem: "reports",
			Name:      "transitions_total",
			Help:      "Scouting report workflow actions applied.",
		},
		[]string{"action"},
	)
)

func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, loginAttempts, reportTransitions)
	})
}

func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	Register()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, route, statusLabel).Inc()
	httpDuration.WithLabelValues(method, route, statusLabel).Observe(duration.Seconds())
}

// RecordLogin counts a login attempt; result is "success", "invalid" or
// "disabled".
func RecordLogin(result string) {
	Register()
	loginAttempts.WithLabelValues(result).Inc()
}

func RecordReportTransition(action string) {
	Register()
	reportTransitions.WithLabelValues(action).Inc()
}

// Middleware records request counts and latency by route pattern.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		RecordHTTPRequest(c.Method(), c.Route().Path, status, time.Since(start))
		return err
	}
}

// Handler serves the default registry in the Prometheus text format.
func Handler() fiber.Handler {
	Register()
	return adaptor.HTTPHandler(promhttp.Handler())
}
