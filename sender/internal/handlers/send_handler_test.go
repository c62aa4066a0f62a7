package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tenantwave/tenantwave-demo/common/fault"
	"github.com/tenantwave/tenantwave-demo/common/logging"
	"github.com/tenantwave/tenantwave-demo/common/models"
)

type mockForwarder struct {
	resp   *models.ProcessResponse
	err    error
	called bool
	got    *models.ProcessRequest
}

func (m *mockForwarder) Process(ctx context.Context, req *models.ProcessRequest) (*models.ProcessResponse, error) {
	m.called = true
	m.got = req
	return m.resp, m.err
}

func quietLogger() *logging.Logger {
	return logging.New(slog.LevelError, "text")
}

func newHandler(f Forwarder, inj *fault.Injector) *SendHandler {
	return NewSendHandler("sender-service", "tenant-a", f, inj, quietLogger())
}

func postSend(t *testing.T, h *SendHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/send", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.HandleSend(rr, req)
	return rr
}

func TestHandleSend_Success(t *testing.T) {
	forwarder := &mockForwarder{
		resp: &models.ProcessResponse{
			Status:    "processed",
			RequestID: "demo-001",
			TenantID:  "tenant-a",
			Sender:    "sender-service",
			Receiver:  "receiver-service",
			DatabaseResult: models.DatabaseResult{
				Records: 5,
				Status:  "success",
			},
		},
	}
	h := newHandler(forwarder, fault.Disabled())

	rr := postSend(t, h, `{"request_id":"demo-001","message":"hello"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if !forwarder.called {
		t.Fatal("forwarder should have been called")
	}
	if forwarder.got.TenantID != "tenant-a" {
		t.Errorf("forwarded tenant_id = %q, want tenant-a", forwarder.got.TenantID)
	}
	if forwarder.got.Sender != "sender-service" {
		t.Errorf("forwarded sender = %q, want sender-service", forwarder.got.Sender)
	}

	// The response body carries the echoed request id.
	if !strings.Contains(rr.Body.String(), `"request_id":"demo-001"`) {
		t.Errorf("body should contain echoed request_id, got %s", rr.Body.String())
	}

	var resp models.SendResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "success" {
		t.Errorf("status = %q, want success", resp.Status)
	}
	if resp.ReceiverResponse == nil || resp.ReceiverResponse.RequestID != "demo-001" {
		t.Errorf("receiver_response.request_id missing: %+v", resp.ReceiverResponse)
	}
}

func TestHandleSend_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing request_id", body: `{"message":"hello"}`},
		{name: "missing message", body: `{"request_id":"demo-001"}`},
		{name: "empty body", body: ``},
		{name: "malformed JSON", body: `{"request_id":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			forwarder := &mockForwarder{}
			h := newHandler(forwarder, fault.Disabled())

			rr := postSend(t, h, tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rr.Code)
			}
			if forwarder.called {
				t.Error("forwarder should not be called for invalid envelopes")
			}
		})
	}
}

func TestHandleSend_InjectedErrorSkipsReceiver(t *testing.T) {
	inj, err := fault.New(1.0, 0, 0)
	if err != nil {
		t.Fatalf("fault.New() error = %v", err)
	}
	forwarder := &mockForwarder{}
	h := newHandler(forwarder, inj)

	// Error rate 1.0: every call fails without contacting the receiver.
	for i := 0; i < 10; i++ {
		rr := postSend(t, h, `{"request_id":"demo-001","message":"hello"}`)
		if rr.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", rr.Code)
		}
	}
	if forwarder.called {
		t.Error("forwarder must not be contacted when the error draw triggers")
	}
}

func TestHandleSend_ReceiverFailureIsBadGateway(t *testing.T) {
	forwarder := &mockForwarder{err: errors.New("connection refused")}
	h := newHandler(forwarder, fault.Disabled())

	rr := postSend(t, h, `{"request_id":"demo-001","message":"hello"}`)
	if rr.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rr.Code)
	}
}

func TestHandleSend_LatencyWithinBound(t *testing.T) {
	bound := 100 * time.Millisecond
	inj, err := fault.New(0, 0, bound)
	if err != nil {
		t.Fatalf("fault.New() error = %v", err)
	}
	forwarder := &mockForwarder{resp: &models.ProcessResponse{Status: "processed", RequestID: "demo-001"}}
	h := newHandler(forwarder, inj)

	start := time.Now()
	rr := postSend(t, h, `{"request_id":"demo-001","message":"hello"}`)
	elapsed := time.Since(start)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	// Handler-added latency stays within the bound plus scheduling slack.
	if elapsed > bound+200*time.Millisecond {
		t.Errorf("request took %v, want <= %v plus slack", elapsed, bound)
	}
}

func TestHandleSend_MethodNotAllowed(t *testing.T) {
	h := newHandler(&mockForwarder{}, fault.Disabled())

	req := httptest.NewRequest(http.MethodGet, "/send", nil)
	rr := httptest.NewRecorder()
	h.HandleSend(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rr.Code)
	}
}

func TestHealth_AlwaysOK(t *testing.T) {
	// Health must return 200 even with error injection at 1.0.
	inj, err := fault.New(1.0, 0, 0)
	if err != nil {
		t.Fatalf("fault.New() error = %v", err)
	}
	h := newHandler(&mockForwarder{}, inj)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	h.Health(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status field = %q, want healthy", body["status"])
	}
	if body["tenant"] != "tenant-a" {
		t.Errorf("tenant field = %q, want tenant-a", body["tenant"])
	}
}
