// Package orchestrator fans a compliance scan out across regions and
// folds the regional results into one account-wide answer.
package orchestrator

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/tagwarden/tagwarden/regions"
	"github.com/tagwarden/tagwarden/scanner"
	"github.com/tagwarden/tagwarden/telemetry"
	"github.com/tagwarden/tagwarden/types"
)

// RegionScanner runs the full scan of one region, retries included
type RegionScanner interface {
	ScanRegion(ctx context.Context, req scanner.Request) types.RegionalScanResult
}

// Orchestrator coordinates discover → filter → fan-out → aggregate
type Orchestrator struct {
	cfg        Config
	scanner    RegionScanner
	discoverer regions.Discoverer
	logger     *telemetry.Logger
}

// New creates an orchestrator around a region scanner and a discoverer
func New(cfg Config, regionScanner RegionScanner, discoverer regions.Discoverer) *Orchestrator {
	return &Orchestrator{
		cfg:        cfg,
		scanner:    regionScanner,
		discoverer: discoverer,
		logger:     telemetry.NewLogger("orchestrator"),
	}
}

// Scan runs one compliance scan across the account.
//
// An invalid region filter fails the whole scan before anything is
// dispatched. Individual regions failing does not: the result aggregates
// whatever succeeded and discloses the gaps in RegionMetadata. Only when
// every attempted region fails does Scan return a TotalFailureError, with
// the (empty-data) aggregate attached so callers can still see which
// regions failed.
func (o *Orchestrator) Scan(ctx context.Context, req ScanRequest) (*types.MultiRegionComplianceResult, error) {
	toScan, meta, err := o.selectRegions(ctx, req)
	if err != nil {
		return nil, err
	}

	requests := o.buildRequests(req, toScan, &meta)
	meta.TotalRegions = len(requests)

	results := o.fanOut(ctx, requests)

	for _, r := range results {
		if r.Success {
			meta.SuccessfulRegions = append(meta.SuccessfulRegions, r.Region)
		} else {
			meta.FailedRegions = append(meta.FailedRegions, r.Region)
		}
	}

	result := aggregate(results, meta)

	if len(requests) > 0 && len(meta.SuccessfulRegions) == 0 {
		return nil, &TotalFailureError{
			FailedRegions: meta.FailedRegions,
			Partial:       result,
		}
	}

	telemetry.RecordScanResult(ctx, result.ComplianceScore, len(result.Violations))
	return result, nil
}

// selectRegions resolves which regions the scan covers and seeds the
// metadata with discovery and filtering outcomes.
func (o *Orchestrator) selectRegions(ctx context.Context, req ScanRequest) ([]string, types.RegionScanMetadata, error) {
	var meta types.RegionScanMetadata

	if !o.cfg.MultiRegionEnabled {
		// Single-region mode scans home and nothing else. The region
		// filter is ignored, not validated: there is no enabled set
		// to validate against.
		return []string{o.cfg.HomeRegion}, meta, nil
	}

	enabled, err := o.discoverer.EnabledRegions(ctx)
	if err != nil {
		o.logger.LogDiscoveryFallback(ctx, o.cfg.HomeRegion, err)
		meta.DiscoveryFailed = true
		meta.DiscoveryError = err.Error()
		return []string{o.cfg.HomeRegion}, meta, nil
	}

	selected, err := regions.ApplyFilter(enabled, req.RegionFilter)
	if err != nil {
		return nil, meta, err
	}

	if len(selected) < len(enabled) {
		selectedSet := make(map[string]bool, len(selected))
		for _, r := range selected {
			selectedSet[r] = true
		}
		for _, r := range enabled {
			if !selectedSet[r] {
				meta.SkippedRegions = append(meta.SkippedRegions, r)
			}
		}
	}

	return selected, meta, nil
}

// buildRequests turns the region list into per-region scan requests.
// Account-global resource kinds go to exactly one region: home when it
// is in the list, otherwise the first region. When the request asks only
// for global kinds, the other regions have no work and are skipped.
func (o *Orchestrator) buildRequests(req ScanRequest, toScan []string, meta *types.RegionScanMetadata) []scanner.Request {
	if len(toScan) == 0 {
		return nil
	}

	globalHome := toScan[0]
	for _, r := range toScan {
		if r == o.cfg.HomeRegion {
			globalHome = r
			break
		}
	}

	regionalTypes, globalTypes := regions.SplitTypes(req.ResourceTypes)
	allKinds := len(req.ResourceTypes) == 0
	globalOnly := !allKinds && len(regionalTypes) == 0 && len(globalTypes) > 0

	requests := make([]scanner.Request, 0, len(toScan))
	for _, region := range toScan {
		r := scanner.Request{
			Region:   region,
			Filter:   req.Filter,
			Severity: req.Severity,
		}

		switch {
		case region == globalHome:
			r.ResourceTypes = req.ResourceTypes
		case globalOnly:
			meta.SkippedRegions = append(meta.SkippedRegions, region)
			continue
		case allKinds:
			r.Filter.ExcludeTypes = regions.GlobalTypes()
		default:
			r.ResourceTypes = regionalTypes
		}

		requests = append(requests, r)
	}

	return requests
}

// fanOut scans every region concurrently, bounded by MaxConcurrent.
// Results keep dispatch order regardless of completion order.
func (o *Orchestrator) fanOut(ctx context.Context, requests []scanner.Request) []types.RegionalScanResult {
	results := make([]types.RegionalScanResult, len(requests))

	g, gctx := errgroup.WithContext(ctx)
	if o.cfg.MaxConcurrent > 0 {
		g.SetLimit(o.cfg.MaxConcurrent)
	}

	for i, req := range requests {
		g.Go(func() error {
			results[i] = o.scanner.ScanRegion(gctx, req)
			return nil
		})
	}

	_ = g.Wait() // workers report failure through their result, never an error

	return results
}
