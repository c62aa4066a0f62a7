package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tenantwave/tenantwave-demo/common/fault"
	"github.com/tenantwave/tenantwave-demo/common/httputil"
	"github.com/tenantwave/tenantwave-demo/common/logging"
	"github.com/tenantwave/tenantwave-demo/common/models"
	"github.com/tenantwave/tenantwave-demo/receiver/internal/metrics"
	"github.com/tenantwave/tenantwave-demo/receiver/internal/store"
)

// ProcessHandler serves the receiver's HTTP API: accept a forwarded
// request, apply the fault injector, write it to the datastore, return the
// processing result.
type ProcessHandler struct {
	serviceName string
	tenantID    string
	store       store.Store
	injector    *fault.Injector
	logger      *logging.Logger
	tracer      trace.Tracer
}

func NewProcessHandler(serviceName, tenantID string, st store.Store, injector *fault.Injector, logger *logging.Logger) *ProcessHandler {
	if injector == nil {
		injector = fault.Disabled()
	}
	return &ProcessHandler{
		serviceName: serviceName,
		tenantID:    tenantID,
		store:       st,
		injector:    injector,
		logger:      logger,
		tracer:      otel.Tracer("receiver"),
	}
}

// HandleProcess implements POST /process.
func (h *ProcessHandler) HandleProcess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.respond(w, "process", http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	ctx := r.Context()
	start := time.Now()

	var req models.ProcessRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.logger.WarnContext(ctx, "rejected malformed process request", logging.Error(err))
		h.respond(w, "process", http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if req.RequestID == "" {
		h.respond(w, "process", http.StatusBadRequest, map[string]string{"error": "request_id is required"})
		return
	}
	// Forwarded requests carry the sender's tenant; direct calls may not.
	if req.TenantID == "" {
		req.TenantID = h.tenantID
	}

	h.logger.InfoContext(ctx, "received request to process",
		logging.RequestID(req.RequestID),
		logging.Tenant(req.TenantID),
	)

	if h.injector.MaxLatency() > 0 {
		latencyCtx, span := h.tracer.Start(ctx, "artificial_latency")
		applied := h.injector.Sleep(latencyCtx)
		span.SetAttributes(attribute.Int64("app.latency.ms", applied.Milliseconds()))
		span.End()
	}

	if h.injector.ShouldFail() {
		metrics.InjectedErrorsTotal.Inc()
		span := trace.SpanFromContext(ctx)
		span.SetStatus(codes.Error, "simulated processing error")
		span.SetAttributes(attribute.String("error.type", "simulated_error"))
		h.logger.ErrorContext(ctx, "simulated processing error occurred",
			logging.RequestID(req.RequestID),
			logging.Tenant(req.TenantID),
		)
		h.respond(w, "process", http.StatusInternalServerError, map[string]string{"error": "simulated processing error"})
		return
	}

	queryCtx, span := h.tracer.Start(ctx, "database_query",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", h.store.System()),
			attribute.String("db.operation", "select"),
			attribute.String("db.name", "demo_db"),
			attribute.String("app.request.id", req.RequestID),
			attribute.String("app.tenant.id", req.TenantID),
		),
	)

	queryStart := time.Now()
	result, err := h.store.Save(queryCtx, &req)
	metrics.StoreDuration.WithLabelValues(h.store.System()).Observe(time.Since(queryStart).Seconds())

	if err != nil {
		metrics.StoreErrors.WithLabelValues(h.store.System()).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.End()
		h.logger.ErrorContext(ctx, "datastore write failed",
			logging.RequestID(req.RequestID),
			logging.Tenant(req.TenantID),
			logging.Error(err),
		)
		h.respond(w, "process", http.StatusInternalServerError, map[string]string{"error": fmt.Sprintf("database error: %v", err)})
		return
	}
	span.SetAttributes(attribute.Int("db.result.records", result.Records))
	span.End()

	h.logger.InfoContext(ctx, "successfully processed request",
		logging.RequestID(req.RequestID),
		logging.Tenant(req.TenantID),
	)

	h.respond(w, "process", http.StatusOK, models.ProcessResponse{
		Status:                "processed",
		RequestID:             req.RequestID,
		TenantID:              req.TenantID,
		Sender:                req.Sender,
		Receiver:              h.serviceName,
		DatabaseResult:        *result,
		ProcessingTimeSeconds: time.Since(start).Seconds(),
	})
}

// Health implements GET /health. Always 200, regardless of fault config.
func (h *ProcessHandler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": h.serviceName,
		"tenant":  h.tenantID,
	})
}

// Ready implements GET /readyz. Probes the datastore, since a receiver
// that cannot reach its store cannot process anything.
func (h *ProcessHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (h *ProcessHandler) respond(w http.ResponseWriter, endpoint string, status int, body interface{}) {
	metrics.RequestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	httputil.WriteJSON(w, status, body)
}
