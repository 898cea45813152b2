package orchestrator

import (
	"time"

	"github.com/tagwarden/tagwarden/regions"
	"github.com/tagwarden/tagwarden/retrier"
	"github.com/tagwarden/tagwarden/types"
)

// Config controls multi-region fan-out behavior
type Config struct {
	// MultiRegionEnabled false pins every scan to HomeRegion
	MultiRegionEnabled bool
	// HomeRegion is the fallback region and the one region that
	// scans account-global resource kinds
	HomeRegion string
	// MaxConcurrent caps in-flight regional scans; <=1 means sequential
	MaxConcurrent int
	// RegionTimeout bounds each scan attempt within a region
	RegionTimeout time.Duration
	// MaxAttempts is the total attempt budget per region, retries included
	MaxAttempts int
	// Backoff paces retries of transient regional failures
	Backoff retrier.Backoff
}

// DefaultConfig returns the fan-out settings used when no config file
// overrides them.
func DefaultConfig(homeRegion string) Config {
	return Config{
		MultiRegionEnabled: true,
		HomeRegion:         homeRegion,
		MaxConcurrent:      5,
		RegionTimeout:      5 * time.Minute,
		MaxAttempts:        3,
		Backoff:            retrier.DefaultBackoff(),
	}
}

// ScanRequest describes one compliance scan across regions
type ScanRequest struct {
	// ResourceTypes limits the scan to these kinds; empty means all
	ResourceTypes []string
	// RegionFilter narrows which enabled regions to scan
	RegionFilter *regions.Filter
	// Filter narrows resources within each region
	Filter types.ResourceFilter
	// Severity drops violations below this level; empty keeps all
	Severity types.Severity
}
