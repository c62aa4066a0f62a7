package models

import "errors"

var (
	// ErrMissingRequestID is returned when an envelope has no request_id.
	ErrMissingRequestID = errors.New("request_id is required")
	// ErrMissingMessage is returned when an envelope has no message.
	ErrMissingMessage = errors.New("message is required")
)

// Envelope is the request body accepted by the sender's /send endpoint.
// It is created by the load generator (or an operator with curl), consumed
// once by the sender, and forwarded to the receiver wrapped in a
// ProcessRequest. Nothing is persisted.
type Envelope struct {
	RequestID string                 `json:"request_id"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// Validate checks the envelope's required fields.
func (e *Envelope) Validate() error {
	if e.RequestID == "" {
		return ErrMissingRequestID
	}
	if e.Message == "" {
		return ErrMissingMessage
	}
	return nil
}

// ProcessRequest is the wire form the sender posts to the receiver's
// /process endpoint: the original envelope plus the sender's identity.
type ProcessRequest struct {
	RequestID string                 `json:"request_id"`
	Message   string                 `json:"message"`
	TenantID  string                 `json:"tenant_id"`
	Sender    string                 `json:"sender"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// DatabaseResult describes the simulated datastore round-trip performed by
// the receiver while handling a request.
type DatabaseResult struct {
	Records int    `json:"records"`
	Status  string `json:"status"`
}

// ProcessResponse is the receiver's success payload. It echoes the request
// identifiers so callers can correlate responses with requests.
type ProcessResponse struct {
	Status                string         `json:"status"`
	RequestID             string         `json:"request_id"`
	TenantID              string         `json:"tenant_id"`
	Sender                string         `json:"sender"`
	Receiver              string         `json:"receiver"`
	DatabaseResult        DatabaseResult `json:"database_result"`
	ProcessingTimeSeconds float64        `json:"processing_time_seconds"`
}

// SendResponse is the sender's success payload: the receiver's response
// augmented with sender-side timing.
type SendResponse struct {
	Status           string           `json:"status"`
	Sender           string           `json:"sender"`
	Tenant           string           `json:"tenant"`
	ReceiverResponse *ProcessResponse `json:"receiver_response"`
	DurationMS       int64            `json:"duration_ms"`
}
