package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tenantwave_sender_requests_total",
			Help: "Total number of requests handled, by endpoint and status",
		},
		[]string{"endpoint", "status"},
	)

	InjectedErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tenantwave_sender_injected_errors_total",
			Help: "Total number of synthetic errors injected by the fault injector",
		},
	)

	ForwardDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tenantwave_sender_forward_duration_seconds",
			Help:    "Duration of forward calls to the receiver in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	ForwardErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tenantwave_sender_forward_errors_total",
			Help: "Total number of failed forward calls to the receiver",
		},
	)
)
