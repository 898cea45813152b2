package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tagwarden/tagwarden/orchestrator"
	"github.com/tagwarden/tagwarden/regions"
	"github.com/tagwarden/tagwarden/report"
	"github.com/tagwarden/tagwarden/types"
)

var (
	scanRegions  string
	scanTypes    string
	scanSeverity string
	scanOutput   string
	scanNoStore  bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan resources for tag compliance",
	Long: `Scan cloud resources across all enabled regions and validate
their tags against the configured policy.

Account-global resources (IAM, S3, Route53 zones) are scanned once from
the home region so they never inflate the totals.`,
	Example: `  tagwarden scan                               # All regions, all types
  tagwarden scan --regions us-east-1,eu-west-1 # Only these regions
  tagwarden scan --types ec2,rds               # Only these resource kinds
  tagwarden scan --severity error              # Ignore warnings
  tagwarden scan --output csv > violations.csv`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVar(&scanRegions, "regions", "", "Comma-separated regions to scan (default: all enabled)")
	scanCmd.Flags().StringVarP(&scanTypes, "types", "t", "", "Comma-separated resource kinds to scan")
	scanCmd.Flags().StringVar(&scanSeverity, "severity", "", "Minimum severity to report: error, warning")
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "markdown", "Output format: markdown, json, csv")
	scanCmd.Flags().BoolVar(&scanNoStore, "no-store", false, "Do not record the result in scan history")
}

func runScan(cmd *cobra.Command, args []string) error {
	if err := validateScanFlags(); err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	req := orchestrator.ScanRequest{
		ResourceTypes: splitList(scanTypes),
		Severity:      types.Severity(scanSeverity),
	}
	if list := splitList(scanRegions); len(list) > 0 {
		req.RegionFilter = &regions.Filter{Regions: list}
	}

	result, err := a.orch.Scan(ctx, req)
	if err != nil {
		var total *orchestrator.TotalFailureError
		if errors.As(err, &total) && total.Partial != nil {
			// Still emit the (empty) report so callers see the region
			// metadata and data-quality disclosure
			_ = renderReport(report.New(total.Partial), scanOutput)
		}
		return err
	}

	if !scanNoStore {
		if _, err := a.store.RecordScan(result); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to record scan history: %v\n", err)
		}
	}

	return renderReport(report.New(result), scanOutput)
}

func validateScanFlags() error {
	switch scanOutput {
	case "markdown", "json", "csv":
	default:
		return fmt.Errorf("invalid output format: %s (must be one of: markdown, json, csv)", scanOutput)
	}
	switch scanSeverity {
	case "", "error", "warning":
	default:
		return fmt.Errorf("invalid severity: %s (must be error or warning)", scanSeverity)
	}
	return nil
}

func renderReport(r *report.Report, format string) error {
	switch format {
	case "json":
		return r.RenderJSON(os.Stdout)
	case "csv":
		return r.RenderCSV(os.Stdout)
	default:
		return r.RenderMarkdown(os.Stdout)
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
