// Package metrics provides Prometheus instrumentation for the TokenScout service.
package metrics

import (
	"context"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tokenscout",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, path pattern, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration observes request latency by method and path.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tokenscout",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// ResearchRequestsTotal counts completed token assessments by chain and
	// the risk level the decision engine produced.
	ResearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tokenscout",
			Name:      "research_requests_total",
			Help:      "Total token risk assessments by chain and resulting risk level.",
		},
		[]string{"chain", "risk_level"},
	)

	// ResearchDuration observes end-to-end assessment latency, fan-out
	// fetches included.
	ResearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tokenscout",
			Name:      "research_duration_seconds",
			Help:      "Token assessment duration in seconds, upstream fetches included.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"chain"},
	)

	// UpstreamFetchTotal counts signal-source fetch outcomes. The "absent"
	// result means the source answered but had no record of the token.
	UpstreamFetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tokenscout",
			Name:      "upstream_fetch_total",
			Help:      "Upstream signal fetches by source and result (ok, absent, error).",
		},
		[]string{"source", "result"},
	)

	// UpstreamFetchDuration observes per-source fetch latency.
	UpstreamFetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tokenscout",
			Name:      "upstream_fetch_duration_seconds",
			Help:      "Upstream signal fetch duration in seconds, by source.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"source"},
	)

	// SignalCoverage observes how many of the three signal sources returned
	// data per assessment.
	SignalCoverage = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "tokenscout",
			Name:      "signal_coverage",
			Help:      "Signal sources that returned data per assessment, 0 through 3.",
			Buckets:   []float64{0, 1, 2, 3},
		},
	)

	// HardFlagVerdictsTotal counts assessments short-circuited by a hard
	// red flag, by rule.
	HardFlagVerdictsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tokenscout",
			Name:      "hard_flag_verdicts_total",
			Help:      "Assessments decided by a hard red flag, by rule.",
		},
		[]string{"rule"},
	)

	// ActiveWebSocketClients tracks connected WebSocket feed clients.
	ActiveWebSocketClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "tokenscout",
			Name:      "active_websocket_clients",
			Help:      "Number of currently connected WebSocket clients.",
		},
	)

	// GoroutineCount tracks the current number of goroutines.
	GoroutineCount = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "tokenscout", Name: "goroutines",
		Help: "Current number of goroutines.",
	})
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		ResearchRequestsTotal,
		ResearchDuration,
		UpstreamFetchTotal,
		UpstreamFetchDuration,
		SignalCoverage,
		HardFlagVerdictsTotal,
		ActiveWebSocketClients,
		GoroutineCount,
	)
}

// StartRuntimeCollector periodically samples the goroutine count into its
// gauge. Call in a goroutine; exits when ctx is done.
func StartRuntimeCollector(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			GoroutineCount.Set(float64(runtime.NumGoroutine()))
		}
	}
}

// Middleware returns a gin middleware that records request metrics.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		timer := prometheus.NewTimer(HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(), // Uses route pattern, not actual path (avoids cardinality explosion)
		))

		c.Next()

		timer.ObserveDuration()
		HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			statusBucket(c.Writer.Status()),
		).Inc()
	}
}

// Handler returns the Prometheus metrics HTTP handler for /metrics endpoint.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// statusBucket groups HTTP status codes into buckets (2xx, 3xx, 4xx, 5xx).
func statusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
