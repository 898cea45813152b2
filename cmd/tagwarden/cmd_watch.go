package main

import (
	"github.com/spf13/cobra"

	"github.com/tagwarden/tagwarden/internal/daemon"
	"github.com/tagwarden/tagwarden/orchestrator"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Scan continuously and expose metrics",
	Long: `Run tagwarden as a long-lived process: scan all regions on an
interval, persist each result to scan history, and serve Prometheus
metrics plus a health endpoint.

Configure the interval and metrics address under "watch" in the config
file.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	d := daemon.NewDaemon(daemon.Config{
		Interval:    a.cfg.Watch.Interval,
		MetricsAddr: a.cfg.Watch.MetricsAddr,
	}, daemon.OrchestratorScan(a.orch, orchestrator.ScanRequest{}), a.store)

	return d.Run(ctx)
}
