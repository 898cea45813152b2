package types

import "time"

// RegionalScanResult is the outcome of scanning one region.
// Produced by the region scanner, consumed by the aggregator, then discarded.
// A region that scans cleanly but finds nothing is a success with zero
// resources, not a failure.
type RegionalScanResult struct {
	Region         string      `json:"region"`
	Success        bool        `json:"success"`
	Resources      []Resource  `json:"resources,omitempty"`
	Violations     []Violation `json:"violations,omitempty"`
	CompliantCount int         `json:"compliant_count"`
	ErrorMessage   string      `json:"error_message,omitempty"`
	DurationMs     int64       `json:"duration_ms"`
}

// TotalResources returns the number of resources the region reported
func (r RegionalScanResult) TotalResources() int {
	return r.CompliantCount + len(r.Violations)
}

// RegionScanMetadata discloses which parts of a multi-region scan are
// trustworthy. successful + failed partition the attempted regions;
// skipped regions were filtered out before any attempt.
type RegionScanMetadata struct {
	TotalRegions      int      `json:"total_regions"`
	SuccessfulRegions []string `json:"successful_regions"`
	FailedRegions     []string `json:"failed_regions"`
	SkippedRegions    []string `json:"skipped_regions"`
	DiscoveryFailed   bool     `json:"discovery_failed"`
	DiscoveryError    string   `json:"discovery_error,omitempty"`
}

// Partial reports whether any attempted region is missing from the result
func (m RegionScanMetadata) Partial() bool {
	return m.DiscoveryFailed || len(m.FailedRegions) > 0
}

// RegionalSummary is the per-region rollup in the aggregated breakdown
type RegionalSummary struct {
	TotalResources     int     `json:"total_resources"`
	CompliantResources int     `json:"compliant_resources"`
	ComplianceScore    float64 `json:"compliance_score"`
	ViolationCount     int     `json:"violation_count"`
	CostAttributionGap float64 `json:"cost_attribution_gap"`
}

// MultiRegionComplianceResult is the orchestrator's aggregated output.
// ComplianceScore is compliant/total when total > 0, else 1.0 (no
// resources means nothing is out of compliance).
type MultiRegionComplianceResult struct {
	ComplianceScore    float64                    `json:"compliance_score"`
	TotalResources     int                        `json:"total_resources"`
	CompliantResources int                        `json:"compliant_resources"`
	Violations         []Violation                `json:"violations"`
	CostAttributionGap float64                    `json:"cost_attribution_gap"`
	ScanTimestamp      time.Time                  `json:"scan_timestamp"`
	RegionMetadata     RegionScanMetadata         `json:"region_metadata"`
	RegionalBreakdown  map[string]RegionalSummary `json:"regional_breakdown"`
}

// ComplianceScoreOf computes compliant/total with the vacuous-compliance rule
func ComplianceScoreOf(compliant, total int) float64 {
	if total == 0 {
		return 1.0
	}
	return float64(compliant) / float64(total)
}
