package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"

	configPath string
	debugLog   bool

	rootCmd = &cobra.Command{
		Use:   "tagwarden",
		Short: "Tag governance for cloud resources",
		Long: `Tagwarden - Tag Governance Scanner

Tagwarden scans every enabled region of your cloud account, validates
resource tags against your policy, and reports compliance with the cost
that untagged resources leave unattributed.

Scans are honest about their coverage: when regions fail or discovery
falls back, the result says so instead of quietly reporting less.`,
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
			if debugLog {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
		},
	}
)

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetVersionTemplate(`Tagwarden {{.Version}} - Tag Governance Scanner
`)
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "tagwarden.yaml", "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "Enable debug logging")
}
