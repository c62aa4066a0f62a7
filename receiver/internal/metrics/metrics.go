package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tenantwave_receiver_requests_total",
			Help: "Total number of requests handled, by endpoint and status",
		},
		[]string{"endpoint", "status"},
	)

	InjectedErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tenantwave_receiver_injected_errors_total",
			Help: "Total number of synthetic errors injected by the fault injector",
		},
	)

	StoreDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tenantwave_receiver_store_duration_seconds",
			Help:    "Duration of datastore writes in seconds, by backend",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend"},
	)

	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tenantwave_receiver_store_errors_total",
			Help: "Total number of failed datastore writes, by backend",
		},
		[]string{"backend"},
	)
)
