package config

import (
	"testing"
	"time"
)

func TestLoad_WithDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8000 {
		t.Errorf("Server.Port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 30s", cfg.Server.ReadTimeout)
	}
	if cfg.Service.Name != "sender-service" {
		t.Errorf("Service.Name = %q, want sender-service", cfg.Service.Name)
	}
	if cfg.Service.TenantID != "default" {
		t.Errorf("Service.TenantID = %q, want default", cfg.Service.TenantID)
	}
	if cfg.Receiver.URL != "http://receiver-service:8000" {
		t.Errorf("Receiver.URL = %q", cfg.Receiver.URL)
	}
	if cfg.Receiver.Timeout != 10*time.Second {
		t.Errorf("Receiver.Timeout = %v, want 10s", cfg.Receiver.Timeout)
	}
	if cfg.Fault.ErrorRate != 0.0 {
		t.Errorf("Fault.ErrorRate = %v, want 0.0", cfg.Fault.ErrorRate)
	}
	if cfg.Fault.LatencyMS != 0 {
		t.Errorf("Fault.LatencyMS = %d, want 0", cfg.Fault.LatencyMS)
	}
	if !cfg.Telemetry.Enabled {
		t.Error("Telemetry.Enabled should default to true")
	}
	if cfg.Telemetry.SamplingRatio != 1.0 {
		t.Errorf("Telemetry.SamplingRatio = %v, want 1.0", cfg.Telemetry.SamplingRatio)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want json", cfg.Logging.Format)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "sender-tenant-a")
	t.Setenv("TENANT_ID", "tenant-a")
	t.Setenv("RECEIVER_SERVICE_URL", "http://receiver.tenant-a:8000")
	t.Setenv("ERROR_RATE", "0.25")
	t.Setenv("LATENCY_MS", "150")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Service.Name != "sender-tenant-a" {
		t.Errorf("Service.Name = %q, want sender-tenant-a", cfg.Service.Name)
	}
	if cfg.Service.TenantID != "tenant-a" {
		t.Errorf("Service.TenantID = %q, want tenant-a", cfg.Service.TenantID)
	}
	if cfg.Receiver.URL != "http://receiver.tenant-a:8000" {
		t.Errorf("Receiver.URL = %q", cfg.Receiver.URL)
	}
	if cfg.Fault.ErrorRate != 0.25 {
		t.Errorf("Fault.ErrorRate = %v, want 0.25", cfg.Fault.ErrorRate)
	}
	if cfg.Fault.LatencyMS != 150 {
		t.Errorf("Fault.LatencyMS = %d, want 150", cfg.Fault.LatencyMS)
	}
}

func TestLoad_RejectsInvalidErrorRate(t *testing.T) {
	t.Setenv("ERROR_RATE", "1.5")

	if _, err := Load(""); err == nil {
		t.Error("Load() should reject error rate above 1")
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	if _, err := Load("/nonexistent/path/config.yaml"); err == nil {
		t.Error("Load() with non-existent file path should return error")
	}
}

func TestOTLPEndpoint_ResolutionChain(t *testing.T) {
	tests := []struct {
		name string
		cfg  TelemetryConfig
		want string
	}{
		{
			name: "explicit endpoint wins",
			cfg:  TelemetryConfig{Endpoint: "collector.obs:4317", NodeIP: "10.0.0.5"},
			want: "collector.obs:4317",
		},
		{
			name: "explicit endpoint scheme stripped",
			cfg:  TelemetryConfig{Endpoint: "http://collector.obs:4317"},
			want: "collector.obs:4317",
		},
		{
			name: "node IP with port",
			cfg:  TelemetryConfig{NodeIP: "10.0.0.5", OTLPPort: "4317"},
			want: "10.0.0.5:4317",
		},
		{
			name: "node IP defaults port",
			cfg:  TelemetryConfig{NodeIP: "10.0.0.5"},
			want: "10.0.0.5:4317",
		},
		{
			name: "cluster-local default",
			cfg:  TelemetryConfig{},
			want: DefaultOTLPEndpoint,
		},
		{
			name: "whitespace endpoint falls through",
			cfg:  TelemetryConfig{Endpoint: "   ", NodeIP: "10.0.0.5"},
			want: "10.0.0.5:4317",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.OTLPEndpoint(); got != tt.want {
				t.Errorf("OTLPEndpoint() = %q, want %q", got, tt.want)
			}
		})
	}
}
