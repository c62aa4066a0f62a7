package handlers

import (
	"context"
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
	"github.com/tenantwave/tenantwave-demo/sender/internal/metrics"
)

// Forwarder forwards an envelope to the receiver service.
type Forwarder interface {
	Process(ctx context.Context, req *models.ProcessRequest) (*models.ProcessResponse, error)
}

// SendHandler serves the sender's HTTP API: accept an envelope, apply the
// fault injector, forward to the receiver, return the aggregated result.
type SendHandler struct {
	serviceName string
	tenantID    string
	forwarder   Forwarder
	injector    *fault.Injector
	logger      *logging.Logger
	tracer      trace.Tracer
}

func NewSendHandler(serviceName, tenantID string, forwarder Forwarder, injector *fault.Injector, logger *logging.Logger) *SendHandler {
	if injector == nil {
		injector = fault.Disabled()
	}
	return &SendHandler{
		serviceName: serviceName,
		tenantID:    tenantID,
		forwarder:   forwarder,
		injector:    injector,
		logger:      logger,
		tracer:      otel.Tracer("sender"),
	}
}

// HandleSend implements POST /send.
func (h *SendHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.respond(w, "send", http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	ctx := r.Context()
	start := time.Now()

	var envelope models.Envelope
	if err := httputil.DecodeJSON(r, &envelope); err != nil {
		h.logger.WarnContext(ctx, "rejected malformed envelope", logging.Error(err))
		h.respond(w, "send", http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := envelope.Validate(); err != nil {
		h.respond(w, "send", http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	h.logger.InfoContext(ctx, "received request to send",
		logging.RequestID(envelope.RequestID),
		logging.Tenant(h.tenantID),
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
		span.SetStatus(codes.Error, "simulated error")
		span.SetAttributes(attribute.String("error.type", "simulated_error"))
		h.logger.ErrorContext(ctx, "simulated error occurred",
			logging.RequestID(envelope.RequestID),
			logging.Tenant(h.tenantID),
		)
		h.respond(w, "send", http.StatusInternalServerError, map[string]string{"error": "simulated error"})
		return
	}

	forwardCtx, span := h.tracer.Start(ctx, "call_receiver",
		trace.WithAttributes(
			attribute.String("app.request.id", envelope.RequestID),
			attribute.String("app.tenant.id", h.tenantID),
			attribute.String("peer.service", "receiver-service"),
		),
	)

	forwardStart := time.Now()
	receiverResp, err := h.forwarder.Process(forwardCtx, &models.ProcessRequest{
		RequestID: envelope.RequestID,
		Message:   envelope.Message,
		TenantID:  h.tenantID,
		Sender:    h.serviceName,
		Data:      envelope.Data,
	})
	metrics.ForwardDuration.Observe(time.Since(forwardStart).Seconds())

	if err != nil {
		metrics.ForwardErrors.Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.End()
		h.logger.ErrorContext(ctx, "failed to forward request to receiver",
			logging.RequestID(envelope.RequestID),
			logging.Tenant(h.tenantID),
			logging.Error(err),
		)
		h.respond(w, "send", http.StatusBadGateway, map[string]string{"error": "receiver service error: " + err.Error()})
		return
	}
	span.End()

	h.logger.InfoContext(ctx, "successfully forwarded request to receiver",
		logging.RequestID(envelope.RequestID),
		logging.Tenant(h.tenantID),
	)

	h.respond(w, "send", http.StatusOK, models.SendResponse{
		Status:           "success",
		Sender:           h.serviceName,
		Tenant:           h.tenantID,
		ReceiverResponse: receiverResp,
		DurationMS:       time.Since(start).Milliseconds(),
	})
}

// Health implements GET /health. Always 200, regardless of fault config.
func (h *SendHandler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": h.serviceName,
		"tenant":  h.tenantID,
	})
}

// Ready implements GET /readyz. The sender has no local dependencies to
// probe; readiness tracks liveness.
func (h *SendHandler) Ready(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (h *SendHandler) respond(w http.ResponseWriter, endpoint string, status int, body interface{}) {
	metrics.RequestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	httputil.WriteJSON(w, status, body)
}
