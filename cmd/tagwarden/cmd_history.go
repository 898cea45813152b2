package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tagwarden/tagwarden/config"
	"github.com/tagwarden/tagwarden/report"
	"github.com/tagwarden/tagwarden/storage"
)

var (
	historyLimit int
	historyShow  int64
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past scan results",
	Example: `  tagwarden history              # Recent scans, newest first
  tagwarden history --limit 50   # More of them
  tagwarden history --show 12    # Full report for scan revision 12`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Number of scans to list")
	historyCmd.Flags().Int64Var(&historyShow, "show", 0, "Show the full report for one revision")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	store, err := storage.NewHistoryStore(cfg.StorageDir)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if historyShow > 0 {
		record, err := store.GetScan(historyShow)
		if err != nil {
			return err
		}
		return report.New(&record.Result).RenderJSON(os.Stdout)
	}

	scans := store.ListScans(historyLimit)
	if len(scans) == 0 {
		fmt.Println("No scans recorded yet")
		return nil
	}

	fmt.Printf("%-6s %-22s %-8s %-10s %-10s %s\n",
		"REV", "TIMESTAMP", "SCORE", "RESOURCES", "VIOLATIONS", "COVERAGE")
	for _, s := range scans {
		coverage := "complete"
		if s.Partial {
			coverage = "partial"
		}
		fmt.Printf("%-6d %-22s %-8.1f %-10d %-10d %s\n",
			s.Revision,
			s.Timestamp.Format("2006-01-02 15:04:05"),
			s.ComplianceScore*100,
			s.TotalResources,
			s.ViolationCount,
			coverage)
	}
	return nil
}
