package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the prometheus collectors for analytics and HTTP traffic
type Registry struct {
	reg           *prometheus.Registry
	QueryDuration *prometheus.HistogramVec
	QueryErrors   *prometheus.CounterVec
	HTTPRequests  *prometheus.CounterVec
}

// NewRegistry creates a private registry with every collector registered
func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	queryDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cartstats_analytics_query_duration_seconds",
		Help:    "Duration of analytics operations.",
		Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
	}, []string{"operation"})
	queryErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cartstats_analytics_query_errors_total",
		Help: "Failed analytics operations.",
	}, []string{"operation"})
	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cartstats_http_requests_total",
		Help: "HTTP requests by route and status.",
	}, []string{"method", "route", "status"})

	r.MustRegister(queryDuration, queryErrors, httpRequests)
	return &Registry{
		reg:           r,
		QueryDuration: queryDuration,
		QueryErrors:   queryErrors,
		HTTPRequests:  httpRequests,
	}
}

// Gatherer exposes the underlying registry, mainly for tests
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
