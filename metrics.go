package main

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// apiMetrics holds the Prometheus collectors exposed on /metrics. Each
// instance owns its registry so tests can build several without tripping
// duplicate-registration panics.
type apiMetrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	EstimatesTotal  *prometheus.CounterVec
	RecognizeTotal  *prometheus.CounterVec
}

func newAPIMetrics() *apiMetrics {
	reg := prometheus.NewRegistry()
	m := &apiMetrics{
		registry: reg,

		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "healthoria_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		}, []string{"method", "route", "status"}),

		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "healthoria_http_request_duration_seconds",
			Help:    "Duration of HTTP request handling",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),

		EstimatesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "healthoria_estimates_total",
			Help: "Calorie estimates by outcome (ok, invalid) and goal",
		}, []string{"outcome", "goal"}),

		RecognizeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "healthoria_meal_recognitions_total",
			Help: "Meal recognitions by source (cache, openai, keywords) and result",
		}, []string{"source", "result"}),
	}
	reg.MustRegister(
		m.RequestsTotal, m.RequestDuration, m.EstimatesTotal, m.RecognizeTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// middleware records request counts and latency. Unmatched routes are
// grouped under "unmatched" to keep label cardinality bounded.
func (m *apiMetrics) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.RequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
