package main

import (
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/spf13/cobra"

	"github.com/tagwarden/tagwarden/config"
	"github.com/tagwarden/tagwarden/regions"
)

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "List regions enabled for this account",
	Long: `List every region a multi-region scan would cover. Account-global
resource kinds are marked separately since they are scanned once, from
the home region only.`,
	RunE: runRegions,
}

func init() {
	rootCmd.AddCommand(regionsCmd)
}

func runRegions(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return fmt.Errorf("failed to load aws config: %w", err)
	}

	discoverer := regions.NewEC2Discoverer(ec2.NewFromConfig(awsCfg))
	enabled, err := discoverer.EnabledRegions(ctx)
	if err != nil {
		return fmt.Errorf("region discovery failed: %w", err)
	}

	fmt.Printf("Enabled regions (%d):\n", len(enabled))
	for _, region := range enabled {
		marker := ""
		if region == cfg.Region {
			marker = "  (home)"
		}
		fmt.Printf("  %s%s\n", region, marker)
	}

	fmt.Printf("\nGlobal resource kinds scanned from %s only:\n", cfg.Region)
	for _, kind := range regions.GlobalTypes() {
		fmt.Printf("  %s\n", kind)
	}
	return nil
}
