package main

import (
	"context"
	"fmt"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"

	"github.com/tagwarden/tagwarden/config"
	"github.com/tagwarden/tagwarden/cost"
	"github.com/tagwarden/tagwarden/orchestrator"
	"github.com/tagwarden/tagwarden/policy"
	"github.com/tagwarden/tagwarden/providers"
	_ "github.com/tagwarden/tagwarden/providers/aws" // register the aws provider
	"github.com/tagwarden/tagwarden/regions"
	"github.com/tagwarden/tagwarden/retrier"
	"github.com/tagwarden/tagwarden/scanner"
	"github.com/tagwarden/tagwarden/storage"
	"github.com/tagwarden/tagwarden/telemetry"
)

// app holds everything a command needs, built once from config
type app struct {
	cfg      *config.Config
	orch     *orchestrator.Orchestrator
	store    *storage.HistoryStore
	shutdown func(context.Context) error
}

func buildApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	shutdown, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    "tagwarden",
		ServiceVersion: version,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init telemetry: %w", err)
	}

	tagPolicy, err := policy.LoadPolicy(cfg.PolicyPath)
	if err != nil {
		return nil, err
	}

	var regoEngine *policy.RegoEngine
	if cfg.RegoDir != "" {
		regoEngine = policy.NewRegoEngine()
		if err := regoEngine.LoadDir(ctx, cfg.RegoDir); err != nil {
			return nil, fmt.Errorf("failed to load rego rules: %w", err)
		}
	}

	estimator := cost.NewStaticEstimator()

	factory := func(ctx context.Context, region string) (scanner.RegionalComplianceChecker, error) {
		provider, err := providers.GetProvider(ctx, cfg.Provider, providers.ProviderConfig{Region: region})
		if err != nil {
			return nil, err
		}
		service := scanner.NewComplianceService(provider, tagPolicy, estimator)
		if regoEngine != nil {
			service = service.WithRegoEngine(regoEngine)
		}
		return service, nil
	}

	backoff := retrier.DefaultBackoff()
	backoff.Base = cfg.MultiRegion.RetryBackoff

	regionScanner := scanner.NewRegionScanner(factory,
		cfg.MultiRegion.RegionTimeout, cfg.MultiRegion.MaxRetries, backoff)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	discoverer := regions.NewEC2Discoverer(ec2.NewFromConfig(awsCfg))

	orch := orchestrator.New(orchestrator.Config{
		MultiRegionEnabled: cfg.MultiRegion.Enabled,
		HomeRegion:         cfg.Region,
		MaxConcurrent:      cfg.MultiRegion.MaxConcurrent,
		RegionTimeout:      cfg.MultiRegion.RegionTimeout,
		MaxAttempts:        cfg.MultiRegion.MaxRetries,
		Backoff:            backoff,
	}, regionScanner, discoverer)

	if err := os.MkdirAll(cfg.StorageDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	store, err := storage.NewHistoryStore(cfg.StorageDir)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, orch: orch, store: store, shutdown: shutdown}, nil
}

func (a *app) close(ctx context.Context) {
	if a.store != nil {
		_ = a.store.Close()
	}
	if a.shutdown != nil {
		_ = a.shutdown(ctx)
	}
}
