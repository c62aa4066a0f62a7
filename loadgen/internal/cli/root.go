package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "loadgen",
	Short: "Load generator for the demo pipeline",
	Long: `loadgen drives traffic against a sender service.

Run a bounded headless load test with 'loadgen run', or start a
long-running console with 'loadgen serve' and control runs over its
JSON API.`,
	Version: "1.0.0",
}

func Execute() error {
	return rootCmd.Execute()
}
