package models

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestEnvelope_Validate(t *testing.T) {
	tests := []struct {
		name     string
		envelope Envelope
		wantErr  error
	}{
		{
			name:     "valid envelope",
			envelope: Envelope{RequestID: "demo-001", Message: "hello"},
			wantErr:  nil,
		},
		{
			name: "valid envelope with data",
			envelope: Envelope{
				RequestID: "demo-002",
				Message:   "hello",
				Data:      map[string]interface{}{"source": "test", "value": 42},
			},
			wantErr: nil,
		},
		{
			name:     "missing request_id",
			envelope: Envelope{Message: "hello"},
			wantErr:  ErrMissingRequestID,
		},
		{
			name:     "missing message",
			envelope: Envelope{RequestID: "demo-003"},
			wantErr:  ErrMissingMessage,
		},
		{
			name:     "empty envelope",
			envelope: Envelope{},
			wantErr:  ErrMissingRequestID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.envelope.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnvelope_JSONRoundTrip(t *testing.T) {
	body := []byte(`{"request_id":"demo-001","message":"hello","data":{"source":"curl"}}`)

	var e Envelope
	if err := json.Unmarshal(body, &e); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if e.RequestID != "demo-001" {
		t.Errorf("RequestID = %q, want %q", e.RequestID, "demo-001")
	}
	if e.Message != "hello" {
		t.Errorf("Message = %q, want %q", e.Message, "hello")
	}
	if e.Data["source"] != "curl" {
		t.Errorf("Data[source] = %v, want %q", e.Data["source"], "curl")
	}
}

func TestSendResponse_NestsReceiverResponse(t *testing.T) {
	resp := SendResponse{
		Status: "success",
		Sender: "sender-service",
		Tenant: "tenant-a",
		ReceiverResponse: &ProcessResponse{
			Status:    "processed",
			RequestID: "demo-001",
			TenantID:  "tenant-a",
			Receiver:  "receiver-service",
		},
		DurationMS: 12,
	}

	buf, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	inner, ok := decoded["receiver_response"].(map[string]interface{})
	if !ok {
		t.Fatalf("receiver_response missing or wrong type: %v", decoded)
	}
	if inner["request_id"] != "demo-001" {
		t.Errorf("receiver_response.request_id = %v, want %q", inner["request_id"], "demo-001")
	}
}
