package logging

import "log/slog"

// Common field names for consistent logging across services.
const (
	FieldService   = "service"
	FieldTenant    = "tenant_id"
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldDuration  = "duration_ms"
	FieldError     = "error"
	FieldTarget    = "target"
	FieldEndpoint  = "endpoint"
)

// Service returns a slog attribute for the service name.
func Service(name string) slog.Attr {
	return slog.String(FieldService, name)
}

// Tenant returns a slog attribute for the tenant identifier.
func Tenant(id string) slog.Attr {
	return slog.String(FieldTenant, id)
}

// RequestID returns a slog attribute for the request identifier.
func RequestID(id string) slog.Attr {
	return slog.String(FieldRequestID, id)
}

// Method returns a slog attribute for the HTTP method.
func Method(method string) slog.Attr {
	return slog.String(FieldMethod, method)
}

// Path returns a slog attribute for the HTTP path.
func Path(path string) slog.Attr {
	return slog.String(FieldPath, path)
}

// Status returns a slog attribute for the HTTP status code.
func Status(code int) slog.Attr {
	return slog.Int(FieldStatus, code)
}

// Duration returns a slog attribute for duration in milliseconds.
func Duration(ms int64) slog.Attr {
	return slog.Int64(FieldDuration, ms)
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	return slog.String(FieldError, err.Error())
}

// Target returns a slog attribute for a downstream target URL.
func Target(url string) slog.Attr {
	return slog.String(FieldTarget, url)
}

// Endpoint returns a slog attribute for an endpoint name.
func Endpoint(name string) slog.Attr {
	return slog.String(FieldEndpoint, name)
}
