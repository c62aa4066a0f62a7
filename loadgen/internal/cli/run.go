package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tenantwave/tenantwave-demo/loadgen/internal/runner"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a bounded headless load test",
	Long:  "Spawn users against the target sender, run for the given duration, and write a JSON report",
	Example: `  loadgen run --target http://localhost:8000 --users 10 --duration 60s
  loadgen run --target http://sender.tenant-a:8000 --users 50 --spawn-rate 5 --report run.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		target, _ := cmd.Flags().GetString("target")
		users, _ := cmd.Flags().GetInt("users")
		spawnRate, _ := cmd.Flags().GetFloat64("spawn-rate")
		duration, _ := cmd.Flags().GetDuration("duration")
		reportPath, _ := cmd.Flags().GetString("report")

		r, err := runner.New(runner.Options{
			Target:    target,
			Users:     users,
			SpawnRate: spawnRate,
			Duration:  duration,
		})
		if err != nil {
			return err
		}

		// Ctrl-C stops the run and still writes the report.
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-quit
			r.Stop()
		}()

		fmt.Fprintf(cmd.OutOrStdout(), "Running against %s: %d users, %v\n", target, users, duration)
		rep, err := r.Run(cmd.Context())
		if err != nil {
			return fmt.Errorf("run aborted: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Done: %d requests, %d failures, %.1f req/s\n",
			rep.TotalRequests, rep.TotalFailures, rep.RequestsPerS)
		for name, ep := range rep.Endpoints {
			fmt.Fprintf(cmd.OutOrStdout(), "  %-8s %6d requests  p50 %.1fms  p99 %.1fms\n",
				name, ep.Requests, ep.P50MS, ep.P99MS)
		}

		if err := runner.WriteReport(rep, reportPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", reportPath)

		if rep.TotalFailures > 0 {
			return fmt.Errorf("%d requests failed", rep.TotalFailures)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("target", "t", "http://localhost:8000", "Sender service base URL")
	runCmd.Flags().IntP("users", "u", 10, "Number of concurrent users")
	runCmd.Flags().Float64P("spawn-rate", "r", 1, "Users started per second during ramp-up")
	runCmd.Flags().DurationP("duration", "d", time.Minute, "Run duration")
	runCmd.Flags().String("report", "loadgen-report.json", "Path for the JSON report")
}
