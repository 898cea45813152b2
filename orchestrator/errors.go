package orchestrator

import (
	"fmt"
	"strings"

	"github.com/tagwarden/tagwarden/types"
)

// TotalFailureError means every attempted region failed. Partial carries
// the aggregated (empty-data) result with full region metadata so callers
// can still report which regions failed and why.
type TotalFailureError struct {
	FailedRegions []string
	Partial       *types.MultiRegionComplianceResult
}

func (e *TotalFailureError) Error() string {
	return fmt.Sprintf("all %d regions failed to scan: %s",
		len(e.FailedRegions), strings.Join(e.FailedRegions, ", "))
}
