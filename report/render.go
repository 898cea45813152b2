package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/tagwarden/tagwarden/types"
)

// RenderJSON writes the report as indented JSON
func (r *Report) RenderJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// RenderMarkdown writes a human-readable summary
func (r *Report) RenderMarkdown(w io.Writer) error {
	res := r.Result

	fmt.Fprintf(w, "# Tag Compliance Report\n\n")
	fmt.Fprintf(w, "Scanned at %s\n\n", res.ScanTimestamp.Format("2006-01-02 15:04:05 UTC"))

	if r.DataQuality.Status == StatusPartial {
		fmt.Fprintf(w, "> **Warning:** partial results. %s\n\n", r.DataQuality.Warning)
	}

	fmt.Fprintf(w, "| | |\n|---|---|\n")
	fmt.Fprintf(w, "| Compliance score | %.1f%% |\n", res.ComplianceScore*100)
	fmt.Fprintf(w, "| Resources | %d |\n", res.TotalResources)
	fmt.Fprintf(w, "| Compliant | %d |\n", res.CompliantResources)
	fmt.Fprintf(w, "| Violations | %d |\n", len(res.Violations))
	fmt.Fprintf(w, "| Monthly cost attribution gap | $%.2f |\n", res.CostAttributionGap)
	fmt.Fprintf(w, "| Regions scanned | %d/%d |\n\n",
		len(res.RegionMetadata.SuccessfulRegions), res.RegionMetadata.TotalRegions)

	if len(res.RegionalBreakdown) > 0 {
		fmt.Fprintf(w, "## By region\n\n")
		fmt.Fprintf(w, "| Region | Resources | Compliant | Violations | Score |\n")
		fmt.Fprintf(w, "|---|---|---|---|---|\n")
		for _, region := range sortedRegions(res.RegionalBreakdown) {
			s := res.RegionalBreakdown[region]
			fmt.Fprintf(w, "| %s | %d | %d | %d | %.1f%% |\n",
				region, s.TotalResources, s.CompliantResources,
				s.ViolationCount, s.ComplianceScore*100)
		}
		fmt.Fprintln(w)
	}

	if len(res.Violations) > 0 {
		fmt.Fprintf(w, "## Violations\n\n")
		fmt.Fprintf(w, "| Resource | Region | Tag | Kind | Severity | Monthly cost |\n")
		fmt.Fprintf(w, "|---|---|---|---|---|---|\n")
		for _, v := range res.Violations {
			fmt.Fprintf(w, "| %s | %s | %s | %s | %s | $%.2f |\n",
				v.ResourceID, v.Region, v.TagKey, v.Kind, v.Severity, v.MonthlyCostImpact)
		}
	}

	return nil
}

// RenderCSV writes one row per violation
func (r *Report) RenderCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	header := []string{"resource_id", "resource_type", "resource_name", "region",
		"tag_key", "kind", "severity", "current_value", "message", "monthly_cost_impact"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, v := range r.Result.Violations {
		row := []string{
			v.ResourceID, v.ResourceType, v.ResourceName, v.Region,
			v.TagKey, string(v.Kind), string(v.Severity), v.CurrentValue,
			v.Message, strconv.FormatFloat(v.MonthlyCostImpact, 'f', 2, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func sortedRegions(breakdown map[string]types.RegionalSummary) []string {
	regions := make([]string, 0, len(breakdown))
	for r := range breakdown {
		regions = append(regions, r)
	}
	sort.Strings(regions)
	return regions
}
