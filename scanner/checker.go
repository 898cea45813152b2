// Package scanner runs the tag-compliance check for a single region,
// with a per-attempt timeout and transparent retry of transient failures.
package scanner

import (
	"context"

	"github.com/tagwarden/tagwarden/cost"
	"github.com/tagwarden/tagwarden/policy"
	"github.com/tagwarden/tagwarden/providers"
	"github.com/tagwarden/tagwarden/types"
)

// Request describes one region's compliance check
type Request struct {
	Region        string
	ResourceTypes []string
	Filter        types.ResourceFilter
	Severity      types.Severity
}

// RegionalCompliance is the successful outcome of one region's check
type RegionalCompliance struct {
	Resources      []types.Resource
	Violations     []types.Violation
	CompliantCount int
}

// RegionalComplianceChecker runs the compliance check for one region.
// Implementations may fail with arbitrary errors; the region scanner
// owns retry and timeout policy around them.
type RegionalComplianceChecker interface {
	CheckCompliance(ctx context.Context, req Request) (*RegionalCompliance, error)
}

// CheckerFactory returns a checker bound to one region
type CheckerFactory func(ctx context.Context, region string) (RegionalComplianceChecker, error)

// ComplianceService is the concrete checker: inventory from the cloud
// provider, violations from the tag policy (plus optional rego rules),
// cost impact from the estimator.
type ComplianceService struct {
	provider  providers.CloudProvider
	policy    *policy.TagPolicy
	rego      *policy.RegoEngine
	estimator cost.Estimator
}

// NewComplianceService creates a checker for one region's provider
func NewComplianceService(provider providers.CloudProvider, tagPolicy *policy.TagPolicy, estimator cost.Estimator) *ComplianceService {
	return &ComplianceService{
		provider:  provider,
		policy:    tagPolicy,
		estimator: estimator,
	}
}

// WithRegoEngine adds custom rego rules on top of the tag policy
func (s *ComplianceService) WithRegoEngine(engine *policy.RegoEngine) *ComplianceService {
	s.rego = engine
	return s
}

// CheckCompliance lists the region's resources and validates every one
// against the policy. The severity filter is applied before counting so
// that compliant-vs-violating stays consistent with the reported list.
func (s *ComplianceService) CheckCompliance(ctx context.Context, req Request) (*RegionalCompliance, error) {
	filter := req.Filter
	filter.Types = req.ResourceTypes

	resources, err := s.provider.ListResources(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := &RegionalCompliance{Resources: resources}
	for _, resource := range resources {
		violations := s.policy.Validate(resource)
		if s.rego != nil {
			regoViolations, err := s.rego.Evaluate(ctx, resource)
			if err != nil {
				return nil, err
			}
			violations = append(violations, regoViolations...)
		}
		violations = types.FilterBySeverity(violations, req.Severity)

		if len(violations) == 0 {
			result.CompliantCount++
			continue
		}

		impact, _ := s.estimator.MonthlyCost(resource).Float64()
		for i := range violations {
			violations[i].MonthlyCostImpact = impact
		}
		result.Violations = append(result.Violations, violations...)
	}

	return result, nil
}
