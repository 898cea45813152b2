package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tagwarden.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
version: v1
region: us-east-1
provider: aws
policy: policy.yaml

multi_region:
  enabled: true
  max_concurrent: 10
  max_retries: 2
  region_timeout: 3m

watch:
  interval: 30m
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Version != "v1" {
		t.Errorf("Version = %v, want v1", cfg.Version)
	}
	if cfg.Region != "us-east-1" {
		t.Errorf("Region = %v, want us-east-1", cfg.Region)
	}
	if !cfg.MultiRegion.Enabled {
		t.Error("MultiRegion.Enabled = false, want true")
	}
	if cfg.MultiRegion.MaxConcurrent != 10 {
		t.Errorf("MaxConcurrent = %v, want 10", cfg.MultiRegion.MaxConcurrent)
	}
	if cfg.MultiRegion.RegionTimeout != 3*time.Minute {
		t.Errorf("RegionTimeout = %v, want 3m", cfg.MultiRegion.RegionTimeout)
	}
	if cfg.Watch.Interval != 30*time.Minute {
		t.Errorf("Watch.Interval = %v, want 30m", cfg.Watch.Interval)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, `
version: v1
region: eu-west-1
policy: policy.yaml
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Provider != "aws" {
		t.Errorf("Provider = %v, want aws", cfg.Provider)
	}
	if cfg.MultiRegion.MaxConcurrent != 5 {
		t.Errorf("MaxConcurrent = %v, want 5", cfg.MultiRegion.MaxConcurrent)
	}
	if cfg.MultiRegion.MaxRetries != 3 {
		t.Errorf("MaxRetries = %v, want 3", cfg.MultiRegion.MaxRetries)
	}
	if cfg.MultiRegion.RegionTimeout != 5*time.Minute {
		t.Errorf("RegionTimeout = %v, want 5m", cfg.MultiRegion.RegionTimeout)
	}
	if cfg.StorageDir != ".tagwarden" {
		t.Errorf("StorageDir = %v, want .tagwarden", cfg.StorageDir)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing version", "region: us-east-1\npolicy: p.yaml\n"},
		{"missing region", "version: v1\npolicy: p.yaml\n"},
		{"missing policy", "version: v1\nregion: us-east-1\n"},
		{"bad max_retries", "version: v1\nregion: us-east-1\npolicy: p.yaml\nmulti_region:\n  max_retries: -1\n"},
		{"not yaml", "{{{"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tt.content)); err == nil {
				t.Error("LoadConfig() expected error, got nil")
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig("/does/not/exist.yaml"); err == nil {
		t.Error("LoadConfig() expected error, got nil")
	}
}
