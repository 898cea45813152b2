// Package policy validates resource tags against the organizational tag
// policy. Validation is a pure function over a resource's tags; nothing
// here touches the network.
package policy

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tagwarden/tagwarden/types"
)

// TagRule is one requirement on a tag key
type TagRule struct {
	Key           string   `yaml:"key"`
	Required      bool     `yaml:"required"`
	AllowedValues []string `yaml:"allowed_values,omitempty"`
	Pattern       string   `yaml:"pattern,omitempty"`
	Severity      string   `yaml:"severity,omitempty"`
	AppliesTo     []string `yaml:"applies_to,omitempty"` // resource types, empty = all

	compiled *regexp.Regexp
}

// TagPolicy is the full organizational policy
type TagPolicy struct {
	Version string    `yaml:"version"`
	Rules   []TagRule `yaml:"rules"`
}

// LoadPolicy reads and compiles a tag policy from a YAML file
func LoadPolicy(path string) (*TagPolicy, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is intentional user input
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}

	var p TagPolicy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse policy: %w", err)
	}

	if err := p.Compile(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Compile validates the policy and compiles rule patterns
func (p *TagPolicy) Compile() error {
	if len(p.Rules) == 0 {
		return fmt.Errorf("policy has no rules")
	}
	for i := range p.Rules {
		rule := &p.Rules[i]
		if rule.Key == "" {
			return fmt.Errorf("rule %d: key is required", i)
		}
		switch rule.Severity {
		case "", string(types.SeverityError), string(types.SeverityWarning):
		default:
			return fmt.Errorf("rule %q: unknown severity %q", rule.Key, rule.Severity)
		}
		if rule.Pattern != "" {
			re, err := regexp.Compile(rule.Pattern)
			if err != nil {
				return fmt.Errorf("rule %q: invalid pattern: %w", rule.Key, err)
			}
			rule.compiled = re
		}
	}
	return nil
}

// severity defaults to error when the rule does not say otherwise
func (r *TagRule) severity() types.Severity {
	if r.Severity == string(types.SeverityWarning) {
		return types.SeverityWarning
	}
	return types.SeverityError
}

func (r *TagRule) appliesTo(resourceType string) bool {
	if len(r.AppliesTo) == 0 {
		return true
	}
	for _, t := range r.AppliesTo {
		if strings.EqualFold(t, resourceType) {
			return true
		}
	}
	return false
}

// Validate checks one resource against every rule and returns all
// violations found, not just the first.
func (p *TagPolicy) Validate(resource types.Resource) []types.Violation {
	var violations []types.Violation

	for i := range p.Rules {
		rule := &p.Rules[i]
		if !rule.appliesTo(resource.Type) {
			continue
		}

		if v := rule.check(resource); v != nil {
			violations = append(violations, *v)
		}
	}
	return violations
}

func (r *TagRule) check(resource types.Resource) *types.Violation {
	value, present := "", false
	if resource.Tags != nil {
		value, present = resource.Tags[r.Key]
	}

	base := types.Violation{
		ResourceID:   resource.ID,
		ResourceType: resource.Type,
		ResourceName: resource.Name,
		Region:       resource.Region,
		TagKey:       r.Key,
		Severity:     r.severity(),
	}

	if !present || value == "" {
		if !r.Required {
			return nil
		}
		base.Kind = types.ViolationMissingTag
		base.Message = fmt.Sprintf("required tag %q is missing", r.Key)
		return &base
	}

	if len(r.AllowedValues) > 0 && !containsFold(r.AllowedValues, value) {
		base.Kind = types.ViolationInvalidValue
		base.CurrentValue = value
		base.AllowedValues = r.AllowedValues
		base.Message = fmt.Sprintf("tag %q has value %q, allowed: %s",
			r.Key, value, strings.Join(r.AllowedValues, ", "))
		return &base
	}

	if r.compiled != nil && !r.compiled.MatchString(value) {
		base.Kind = types.ViolationInvalidFormat
		base.CurrentValue = value
		base.Message = fmt.Sprintf("tag %q value %q does not match pattern %q",
			r.Key, value, r.Pattern)
		return &base
	}

	return nil
}

func containsFold(values []string, want string) bool {
	for _, v := range values {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}
