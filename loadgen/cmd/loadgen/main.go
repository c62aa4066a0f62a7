package main

import (
	"os"

	"github.com/tenantwave/tenantwave-demo/loadgen/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
