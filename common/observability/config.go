// Package observability wires the OpenTelemetry SDK for the demo services:
// OTLP gRPC exporters for traces and metrics, W3C propagation, and an HTTP
// middleware that opens a server span per request. Every resource carries a
// tenant.id attribute; the gateway collector routes exports on it.
package observability

import "time"

// Config configures the OpenTelemetry pipeline of a service.
type Config struct {
	// Enabled turns OTLP export on. When false, noop providers are
	// installed and the service runs without telemetry.
	Enabled bool
	// Endpoint is the OTLP gRPC target, host:port (no scheme).
	Endpoint string
	// ServiceName is reported as the service.name resource attribute.
	ServiceName string
	// TenantID is attached to every telemetry record as the tenant.id
	// resource attribute and is the routing key for tenant-based export.
	TenantID string
	// ServiceVersion is optional; reported as service.version when set.
	ServiceVersion string
	// Environment is reported as deployment.environment.
	Environment string
	// SamplingRatio is the trace sampling fraction in [0,1]; 1.0 keeps all.
	SamplingRatio float64
	// MetricInterval is the periodic reader interval; defaults to 5s to
	// match the demo collector's batching cadence.
	MetricInterval time.Duration
}
