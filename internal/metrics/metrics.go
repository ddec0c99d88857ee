// Package metrics records auth telemetry for the external metrics pipeline.
package metrics

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the telemetry collaborator used by the auth flows.
// Implementations must not block and must never fail the caller.
type Recorder interface {
	IncRequest(method string)
	IncAuthAttempt(operation string, success bool)
	IncActiveSessions()
	DecActiveSessions()
	ObserveLatency(operation string, d time.Duration)
}

// Collector records metrics into prometheus.
type Collector struct {
	requests       *prometheus.CounterVec
	authAttempts   *prometheus.CounterVec
	activeSessions prometheus.Gauge
	latency        *prometheus.HistogramVec
}

var _ Recorder = (*Collector)(nil)

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pizza_http_requests_total",
			Help: "HTTP requests by method.",
		}, []string{"method"}),
		authAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pizza_auth_attempts_total",
			Help: "Register, login, logout and update attempts by outcome.",
		}, []string{"operation", "result"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pizza_active_sessions",
			Help: "Sessions opened minus sessions closed since start.",
		}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pizza_endpoint_latency_seconds",
			Help:    "Auth endpoint latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}

	reg.MustRegister(c.requests, c.authAttempts, c.activeSessions, c.latency)
	return c
}

func (c *Collector) IncRequest(method string) {
	c.requests.WithLabelValues(strings.ToLower(method)).Inc()
}

func (c *Collector) IncAuthAttempt(operation string, success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	c.authAttempts.WithLabelValues(operation, result).Inc()
}

func (c *Collector) IncActiveSessions() {
	c.activeSessions.Inc()
}

func (c *Collector) DecActiveSessions() {
	c.activeSessions.Dec()
}

func (c *Collector) ObserveLatency(operation string, d time.Duration) {
	c.latency.WithLabelValues(operation).Observe(d.Seconds())
}

// Handler returns the scrape endpoint for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything.
type Nop struct{}

var _ Recorder = Nop{}

func (Nop) IncRequest(string)                    {}
func (Nop) IncAuthAttempt(string, bool)          {}
func (Nop) IncActiveSessions()                   {}
func (Nop) DecActiveSessions()                   {}
func (Nop) ObserveLatency(string, time.Duration) {}
