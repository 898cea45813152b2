package aws

// copyTags clones a tag map so listers never share mutable state
func copyTags(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// nameFrom returns the conventional Name tag, or fallback when absent
func nameFrom(tags map[string]string, fallback string) string {
	if name := tags["Name"]; name != "" {
		return name
	}
	return fallback
}
