package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Service   ServiceConfig   `mapstructure:"service"`
	Receiver  ReceiverConfig  `mapstructure:"receiver"`
	Fault     FaultConfig     `mapstructure:"fault"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type ServiceConfig struct {
	Name     string `mapstructure:"name"`
	TenantID string `mapstructure:"tenant_id"`
	Version  string `mapstructure:"version"`
}

type ReceiverConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// FaultConfig holds the simulated fault parameters. Both are read once at
// startup; error_rate 0.0 means no injected errors and 1.0 means every
// request fails.
type FaultConfig struct {
	ErrorRate float64 `mapstructure:"error_rate"`
	LatencyMS int     `mapstructure:"latency_ms"`
}

type TelemetryConfig struct {
	Enabled       bool    `mapstructure:"enabled"`
	Endpoint      string  `mapstructure:"endpoint"`
	NodeIP        string  `mapstructure:"node_ip"`
	OTLPPort      string  `mapstructure:"otlp_port"`
	SamplingRatio float64 `mapstructure:"sampling_ratio"`
	Environment   string  `mapstructure:"environment"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DefaultOTLPEndpoint is used when neither an explicit endpoint nor a node
// IP is configured; it matches the in-cluster collector service address.
const DefaultOTLPEndpoint = "opentelemetry-collector.otel-collector.svc.cluster.local:4317"

// OTLPEndpoint resolves the export target: an explicit endpoint wins, then
// the node-local agent at NODE_IP:OTLP_PORT (daemonset deployments), then
// the cluster-local default.
func (t TelemetryConfig) OTLPEndpoint() string {
	if ep := strings.TrimSpace(t.Endpoint); ep != "" {
		return stripScheme(ep)
	}
	if ip := strings.TrimSpace(t.NodeIP); ip != "" {
		port := t.OTLPPort
		if port == "" {
			port = "4317"
		}
		return ip + ":" + port
	}
	return DefaultOTLPEndpoint
}

// stripScheme removes an http:// or https:// prefix; the OTLP gRPC
// exporter expects host:port.
func stripScheme(endpoint string) string {
	endpoint = strings.TrimPrefix(endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")
	return endpoint
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("service.name", "sender-service")
	v.SetDefault("service.tenant_id", "default")
	v.SetDefault("service.version", "1.0.0")
	v.SetDefault("receiver.url", "http://receiver-service:8000")
	v.SetDefault("receiver.timeout", "10s")
	v.SetDefault("fault.error_rate", 0.0)
	v.SetDefault("fault.latency_ms", 0)
	v.SetDefault("telemetry.enabled", true)
	v.SetDefault("telemetry.endpoint", "")
	v.SetDefault("telemetry.node_ip", "")
	v.SetDefault("telemetry.otlp_port", "4317")
	v.SetDefault("telemetry.sampling_ratio", 1.0)
	v.SetDefault("telemetry.environment", "demo")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/tenantwave/sender")
	}

	// Environment variables override; the explicit bindings carry the
	// names the deployment charts inject.
	v.SetEnvPrefix("SENDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.BindEnv("service.name", "OTEL_SERVICE_NAME")
	v.BindEnv("service.tenant_id", "TENANT_ID")
	v.BindEnv("receiver.url", "RECEIVER_SERVICE_URL")
	v.BindEnv("telemetry.endpoint", "OTEL_EXPORTER_OTLP_ENDPOINT")
	v.BindEnv("telemetry.node_ip", "NODE_IP")
	v.BindEnv("telemetry.otlp_port", "OTLP_PORT")
	v.BindEnv("fault.error_rate", "ERROR_RATE")
	v.BindEnv("fault.latency_ms", "LATENCY_MS")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Fault.ErrorRate < 0 || cfg.Fault.ErrorRate > 1 {
		return nil, fmt.Errorf("fault.error_rate %v outside [0,1]", cfg.Fault.ErrorRate)
	}
	if cfg.Fault.LatencyMS < 0 {
		return nil, fmt.Errorf("fault.latency_ms must be non-negative, got %d", cfg.Fault.LatencyMS)
	}

	return &cfg, nil
}
