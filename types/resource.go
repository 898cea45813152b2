package types

import "time"

// Resource represents a cloud resource (EC2, RDS, S3, etc)
type Resource struct {
	ID        string            `json:"id"`
	ARN       string            `json:"arn,omitempty"`
	Type      string            `json:"type"`
	Provider  string            `json:"provider"`
	Region    string            `json:"region"`
	Name      string            `json:"name"`
	Status    string            `json:"status,omitempty"`
	Tags      map[string]string `json:"tags"`
	CreatedAt time.Time         `json:"created_at,omitempty"`
}

// ResourceFilter narrows which resources a scan considers.
// ExcludeTypes wins over Types when both name the same kind.
type ResourceFilter struct {
	Types        []string          `json:"types,omitempty"`
	ExcludeTypes []string          `json:"exclude_types,omitempty"`
	Tags         map[string]string `json:"tags,omitempty"`
	IDs          []string          `json:"ids,omitempty"`
}

// HasTag reports whether the resource carries a non-empty value for key
func (r *Resource) HasTag(key string) bool {
	if r.Tags == nil {
		return false
	}
	return r.Tags[key] != ""
}

// Tag returns the tag value for key, or "" when absent
func (r *Resource) Tag(key string) string {
	if r.Tags == nil {
		return ""
	}
	return r.Tags[key]
}

// Matches checks if resource matches filter criteria
func (r *Resource) Matches(filter ResourceFilter) bool {
	return r.matchesTypes(filter) && r.matchesIDs(filter) && r.matchesTags(filter)
}

func (r *Resource) matchesTypes(filter ResourceFilter) bool {
	for _, t := range filter.ExcludeTypes {
		if r.Type == t {
			return false
		}
	}
	if len(filter.Types) == 0 {
		return true
	}
	for _, t := range filter.Types {
		if r.Type == t {
			return true
		}
	}
	return false
}

func (r *Resource) matchesIDs(filter ResourceFilter) bool {
	if len(filter.IDs) == 0 {
		return true
	}
	for _, id := range filter.IDs {
		if r.ID == id {
			return true
		}
	}
	return false
}

func (r *Resource) matchesTags(filter ResourceFilter) bool {
	for key, value := range filter.Tags {
		if r.Tags[key] != value {
			return false
		}
	}
	return true
}
