// Package report renders scan results for humans and machines, and
// attaches the data-quality disclosure consumers use to decide how much
// to trust a result.
package report

import (
	"fmt"
	"strings"

	"github.com/tagwarden/tagwarden/types"
)

// Data quality statuses
const (
	StatusComplete = "complete"
	StatusPartial  = "partial"
)

// DataQuality tells the consumer whether the result covers everything
// it was asked to cover
type DataQuality struct {
	Status  string `json:"status"`
	Warning string `json:"warning,omitempty"`
}

// BuildDataQuality derives the disclosure from the scan's region metadata
func BuildDataQuality(meta types.RegionScanMetadata) DataQuality {
	if !meta.Partial() {
		return DataQuality{Status: StatusComplete}
	}

	var parts []string
	if len(meta.FailedRegions) > 0 {
		parts = append(parts, fmt.Sprintf("no data from %s",
			strings.Join(meta.FailedRegions, ", ")))
	}
	if meta.DiscoveryFailed {
		parts = append(parts, fmt.Sprintf(
			"region discovery failed (%s), results cover a single region",
			meta.DiscoveryError))
	}

	return DataQuality{
		Status:  StatusPartial,
		Warning: strings.Join(parts, "; "),
	}
}

// Report is a scan result packaged for output
type Report struct {
	Result      *types.MultiRegionComplianceResult `json:"result"`
	DataQuality DataQuality                        `json:"data_quality"`
}

// New wraps a result with its data-quality disclosure
func New(result *types.MultiRegionComplianceResult) *Report {
	return &Report{
		Result:      result,
		DataQuality: BuildDataQuality(result.RegionMetadata),
	}
}
