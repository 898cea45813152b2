package orchestrator

import (
	"time"

	"github.com/tagwarden/tagwarden/cost"
	"github.com/tagwarden/tagwarden/types"
)

// aggregate folds regional results into the account-wide view. Failed
// regions contribute nothing to the totals; they are disclosed through
// the metadata instead of silently deflating the score. Violations keep
// dispatch order so output is stable run to run.
func aggregate(results []types.RegionalScanResult, meta types.RegionScanMetadata) *types.MultiRegionComplianceResult {
	out := &types.MultiRegionComplianceResult{
		ScanTimestamp:     time.Now().UTC(),
		RegionMetadata:    meta,
		RegionalBreakdown: make(map[string]types.RegionalSummary, len(results)),
	}

	for _, r := range results {
		if !r.Success {
			continue
		}

		gap, _ := cost.AttributionGap(r.Violations).Float64()
		out.RegionalBreakdown[r.Region] = types.RegionalSummary{
			TotalResources:     r.TotalResources(),
			CompliantResources: r.CompliantCount,
			ComplianceScore:    types.ComplianceScoreOf(r.CompliantCount, r.TotalResources()),
			ViolationCount:     len(r.Violations),
			CostAttributionGap: gap,
		}

		out.TotalResources += r.TotalResources()
		out.CompliantResources += r.CompliantCount
		out.Violations = append(out.Violations, r.Violations...)
		out.CostAttributionGap += gap
	}

	out.ComplianceScore = types.ComplianceScoreOf(out.CompliantResources, out.TotalResources)
	return out
}
