package httputil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status field = %q, want healthy", body["status"])
	}
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, http.StatusBadGateway, "receiver unreachable")

	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", w.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if body["error"] != "receiver unreachable" {
		t.Errorf("error field = %q", body["error"])
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid body", body: `{"request_id":"demo-001","message":"hello"}`, wantErr: false},
		{name: "empty body", body: "", wantErr: true},
		{name: "malformed body", body: `{"request_id":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/send", bytes.NewBufferString(tt.body))

			var dst map[string]interface{}
			err := DecodeJSON(req, &dst)
			if (err != nil) != tt.wantErr {
				t.Errorf("DecodeJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && dst["request_id"] != "demo-001" {
				t.Errorf("request_id = %v, want demo-001", dst["request_id"])
			}
		})
	}
}

func TestDecodeJSON_OversizedBody(t *testing.T) {
	big := `{"message":"` + strings.Repeat("x", MaxBodySize) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/send", strings.NewReader(big))

	var dst map[string]interface{}
	if err := DecodeJSON(req, &dst); err == nil {
		t.Error("expected error for oversized body")
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		xff        string
		xri        string
		remoteAddr string
		want       string
	}{
		{name: "x-forwarded-for single", xff: "203.0.113.195", want: "203.0.113.195"},
		{name: "x-forwarded-for chain", xff: "203.0.113.195, 70.41.3.18", want: "203.0.113.195"},
		{name: "x-real-ip", xri: "198.51.100.7", want: "198.51.100.7"},
		{name: "remote addr fallback", remoteAddr: "192.0.2.1:51234", want: "192.0.2.1:51234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			if tt.remoteAddr != "" {
				req.RemoteAddr = tt.remoteAddr
			}

			if got := GetClientIP(req); got != tt.want {
				t.Errorf("GetClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
