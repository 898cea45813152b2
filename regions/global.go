package regions

import (
	"sort"
	"strings"
)

// Resource kinds whose identity is account-wide, not region-scoped.
// Scanning these from every region would count each of them once per
// region, inflating totals by the region count.
var globalResourceTypes = map[string]bool{
	"s3":            true,
	"iam_role":      true,
	"iam_user":      true,
	"iam_policy":    true,
	"route53_zone":  true,
	"cloudfront":    true,
	"organizations": true,
}

// IsGlobalType reports whether a resource kind is account-global.
// Lookup is case-insensitive.
func IsGlobalType(resourceType string) bool {
	return globalResourceTypes[strings.ToLower(resourceType)]
}

// GlobalTypes returns all account-global resource kinds, sorted
func GlobalTypes() []string {
	out := make([]string, 0, len(globalResourceTypes))
	for t := range globalResourceTypes {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// SplitTypes partitions resource kinds into regional kinds, scanned from
// every region, and global kinds, scanned once from the home region.
func SplitTypes(resourceTypes []string) (regional, global []string) {
	for _, t := range resourceTypes {
		if IsGlobalType(t) {
			global = append(global, t)
		} else {
			regional = append(regional, t)
		}
	}
	return regional, global
}
