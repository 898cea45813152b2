package types

// ViolationKind classifies how a resource breaks the tag policy
type ViolationKind string

const (
	ViolationMissingTag    ViolationKind = "missing_required_tag"
	ViolationInvalidValue  ViolationKind = "invalid_value"
	ViolationInvalidFormat ViolationKind = "invalid_format"
)

// Severity of a violation
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Violation records one tag-policy failure on one resource.
// Immutable once produced; aggregated by reference into scan results.
type Violation struct {
	ResourceID        string        `json:"resource_id"`
	ResourceType      string        `json:"resource_type"`
	ResourceName      string        `json:"resource_name,omitempty"`
	Region            string        `json:"region"`
	Kind              ViolationKind `json:"kind"`
	TagKey            string        `json:"tag_key"`
	Severity          Severity      `json:"severity"`
	CurrentValue      string        `json:"current_value,omitempty"`
	AllowedValues     []string      `json:"allowed_values,omitempty"`
	Message           string        `json:"message,omitempty"`
	MonthlyCostImpact float64       `json:"monthly_cost_impact"`
}

// IsError reports whether the violation is error severity
func (v Violation) IsError() bool {
	return v.Severity == SeverityError
}

// FilterBySeverity returns only violations at or above the given severity.
// An empty severity keeps everything; "warning" keeps everything; "error"
// keeps errors only.
func FilterBySeverity(violations []Violation, severity Severity) []Violation {
	if severity == "" || severity == SeverityWarning {
		return violations
	}
	filtered := make([]Violation, 0, len(violations))
	for _, v := range violations {
		if v.Severity == SeverityError {
			filtered = append(filtered, v)
		}
	}
	return filtered
}
