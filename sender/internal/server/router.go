package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tenantwave/tenantwave-demo/common/middleware"
	"github.com/tenantwave/tenantwave-demo/common/observability"
	"github.com/tenantwave/tenantwave-demo/sender/internal/handlers"
)

// NewRouter constructs a ServeMux with the sender API routes registered.
func NewRouter(h *handlers.SendHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/send", h.HandleSend)
	mux.HandleFunc("/health", h.Health)
	mux.HandleFunc("/readyz", h.Ready)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	return middleware.RequestID(observability.HTTPMiddleware("sender", mux))
}
