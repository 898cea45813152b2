package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tagwarden/tagwarden/config"
	"github.com/tagwarden/tagwarden/policy"
)

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Validate the tag policy",
	Long: `Load the configured tag policy and any rego rules, and report
what they require. Fails when a rule is malformed, so this doubles as a
pre-commit check for policy changes.`,
	RunE: runPolicy,
}

func init() {
	rootCmd.AddCommand(policyCmd)
}

func runPolicy(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	tagPolicy, err := policy.LoadPolicy(cfg.PolicyPath)
	if err != nil {
		return fmt.Errorf("policy invalid: %w", err)
	}

	fmt.Printf("Policy %s: %d rules\n", cfg.PolicyPath, len(tagPolicy.Rules))
	for _, rule := range tagPolicy.Rules {
		detail := "optional"
		if rule.Required {
			detail = "required"
		}
		if len(rule.AllowedValues) > 0 {
			detail += fmt.Sprintf(", %d allowed values", len(rule.AllowedValues))
		}
		if rule.Pattern != "" {
			detail += fmt.Sprintf(", pattern %q", rule.Pattern)
		}
		fmt.Printf("  %s (%s)\n", rule.Key, detail)
	}

	if cfg.RegoDir != "" {
		engine := policy.NewRegoEngine()
		if err := engine.LoadDir(cmd.Context(), cfg.RegoDir); err != nil {
			return fmt.Errorf("rego rules invalid: %w", err)
		}
		fmt.Printf("Rego rules %s: %d rules\n", cfg.RegoDir, engine.RuleCount())
	}

	fmt.Println("Policy OK")
	return nil
}
