// Package regions handles region discovery, filtering, and the
// global-vs-regional classification of resource kinds.
package regions

import (
	"fmt"
	"strings"
)

// Filter narrows which enabled regions a scan covers
type Filter struct {
	Regions []string `json:"regions,omitempty"`
}

// IsEmpty reports whether the filter narrows anything
func (f *Filter) IsEmpty() bool {
	return f == nil || len(f.Regions) == 0
}

// InvalidRegionFilterError reports every region the caller named that is
// not enabled for the account, so the caller can self-correct in one round.
type InvalidRegionFilterError struct {
	InvalidRegions []string
	EnabledRegions []string
}

func (e *InvalidRegionFilterError) Error() string {
	return fmt.Sprintf("invalid regions in filter: %s (enabled: %s)",
		strings.Join(e.InvalidRegions, ", "),
		strings.Join(e.EnabledRegions, ", "))
}

// ApplyFilter validates the filter against the enabled set and returns the
// regions to scan. No filter returns enabled unchanged in discovery order;
// a filter returns exactly its regions in filter order. Every unknown
// region is collected before failing, not just the first.
func ApplyFilter(enabled []string, filter *Filter) ([]string, error) {
	if filter.IsEmpty() {
		return enabled, nil
	}

	enabledSet := make(map[string]bool, len(enabled))
	for _, r := range enabled {
		enabledSet[r] = true
	}

	var invalid []string
	for _, r := range filter.Regions {
		if !enabledSet[r] {
			invalid = append(invalid, r)
		}
	}
	if len(invalid) > 0 {
		return nil, &InvalidRegionFilterError{
			InvalidRegions: invalid,
			EnabledRegions: enabled,
		}
	}

	return filter.Regions, nil
}

// ParseFilter builds a Filter from the loosely-typed arguments a tool
// caller supplies. Accepts "regions" or the "region" alias, holding either
// a single region string or a list.
func ParseFilter(args map[string]any) (*Filter, error) {
	if args == nil {
		return nil, nil
	}

	raw, ok := args["regions"]
	if !ok {
		raw, ok = args["region"]
	}
	if !ok || raw == nil {
		return nil, nil
	}

	switch v := raw.(type) {
	case string:
		if v == "" {
			return nil, nil
		}
		return &Filter{Regions: []string{v}}, nil
	case []string:
		if len(v) == 0 {
			return nil, nil
		}
		return &Filter{Regions: v}, nil
	case []any:
		if len(v) == 0 {
			return nil, nil
		}
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("region filter entries must be strings, got %T", item)
			}
			out = append(out, s)
		}
		return &Filter{Regions: out}, nil
	default:
		return nil, fmt.Errorf("region filter must be a string or list of strings, got %T", raw)
	}
}
