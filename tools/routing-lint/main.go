// routing-lint validates the gateway collector's tenant routing table
// against the provisioned tenant list. It catches the config drift that
// silently sends a tenant's telemetry to the default backend: a tenant
// added to the values file without a matching route, a route pointing at
// an exporter nobody declared, or a tenant routed twice.
//
// Usage:
//
//	routing-lint -gateway deploy/collector/gateway.yaml -tenants deploy/collector/tenants.yaml
package main

import (
	"flag"
	"fmt"
	"os"
)

var (
	gatewayPath = flag.String("gateway", "deploy/collector/gateway.yaml", "Path to gateway collector config")
	tenantsPath = flag.String("tenants", "deploy/collector/tenants.yaml", "Path to tenant values file")
)

func main() {
	flag.Parse()

	cfg, err := loadGateway(*gatewayPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	tenants, err := loadTenants(*tenantsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	findings := lint(cfg, tenants)
	if len(findings) > 0 {
		for _, f := range findings {
			fmt.Fprintf(os.Stderr, "routing-lint: %s\n", f)
		}
		fmt.Fprintf(os.Stderr, "%d problem(s) found\n", len(findings))
		os.Exit(1)
	}

	fmt.Printf("OK: %d tenants routed, %d exporters declared\n",
		len(tenants.Tenants), len(cfg.Exporters))
}
