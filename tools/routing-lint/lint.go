package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// GatewayConfig is the subset of the gateway collector config the linter
// cares about: declared exporters and the tenant routing table.
type GatewayConfig struct {
	Exporters  map[string]yaml.Node `yaml:"exporters"`
	Processors struct {
		Routing RoutingConfig `yaml:"routing"`
	} `yaml:"processors"`
}

// RoutingConfig mirrors the collector routing processor: requests are
// routed to per-tenant exporters by a resource attribute.
type RoutingConfig struct {
	FromAttribute    string       `yaml:"from_attribute"`
	DefaultExporters []string     `yaml:"default_exporters"`
	Table            []RouteEntry `yaml:"table"`
}

type RouteEntry struct {
	Value     string   `yaml:"value"`
	Exporters []string `yaml:"exporters"`
}

// TenantsFile lists the tenants the deployment is provisioned for.
type TenantsFile struct {
	Tenants []Tenant `yaml:"tenants"`
}

type Tenant struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

func loadGateway(path string) (*GatewayConfig, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read gateway config: %w", err)
	}
	var cfg GatewayConfig
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return nil, fmt.Errorf("parse gateway config: %w", err)
	}
	return &cfg, nil
}

func loadTenants(path string) (*TenantsFile, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tenants file: %w", err)
	}
	var tf TenantsFile
	if err := yaml.Unmarshal(buf, &tf); err != nil {
		return nil, fmt.Errorf("parse tenants file: %w", err)
	}
	return &tf, nil
}

// lint checks the routing table against the tenant list and returns one
// finding per problem. An empty slice means the config is sound.
func lint(cfg *GatewayConfig, tenants *TenantsFile) []string {
	var findings []string

	routing := cfg.Processors.Routing

	if routing.FromAttribute == "" {
		findings = append(findings, "routing processor has no from_attribute; tenant routing will not work")
	}

	if len(routing.DefaultExporters) == 0 {
		findings = append(findings, "routing processor has no default_exporters; telemetry from unknown tenants will be dropped")
	}
	for _, exp := range routing.DefaultExporters {
		if _, ok := cfg.Exporters[exp]; !ok {
			findings = append(findings, fmt.Sprintf("default exporter %q is not declared under exporters", exp))
		}
	}

	routed := make(map[string]bool, len(routing.Table))
	for i, entry := range routing.Table {
		if entry.Value == "" {
			findings = append(findings, fmt.Sprintf("routing table entry %d has an empty tenant value", i))
			continue
		}
		if routed[entry.Value] {
			findings = append(findings, fmt.Sprintf("tenant %q appears more than once in the routing table", entry.Value))
		}
		routed[entry.Value] = true

		if len(entry.Exporters) == 0 {
			findings = append(findings, fmt.Sprintf("tenant %q routes to no exporters", entry.Value))
		}
		for _, exp := range entry.Exporters {
			if _, ok := cfg.Exporters[exp]; !ok {
				findings = append(findings, fmt.Sprintf("tenant %q routes to undeclared exporter %q", entry.Value, exp))
			}
		}
	}

	for _, tenant := range tenants.Tenants {
		if tenant.ID == "" {
			findings = append(findings, fmt.Sprintf("tenant entry %q has no id", tenant.Name))
			continue
		}
		if !routed[tenant.ID] {
			findings = append(findings, fmt.Sprintf("tenant %q has no route in the gateway routing table", tenant.ID))
		}
	}

	return findings
}
