package aws

import (
	"context"
	"errors"
	"fmt"

	"github.com/tagwarden/tagwarden/types"
)

// ResourceLister lists a specific type of AWS resource
type ResourceLister interface {
	List(ctx context.Context, p *Provider) ([]types.Resource, error)
	Name() string
	IsCritical() bool // Critical resources fail hard, optional resources log warnings
}

// ListerRegistry holds all resource listers
type ListerRegistry struct {
	listers []ResourceLister
}

// NewListerRegistry creates a registry with all listers
func NewListerRegistry() *ListerRegistry {
	return &ListerRegistry{
		listers: []ResourceLister{
			// Critical resources - must succeed
			&EC2Lister{},
			&RDSLister{},
			&ELBLister{},

			// Optional resources - log warnings on failure
			&EBSVolumeLister{},
			&S3Lister{},
			&LambdaLister{},
			&IAMRoleLister{},
			&Route53Lister{},
			&DynamoDBLister{},
			&SQSLister{},
			&ECSLister{},
			&EKSLister{},
			&ECRLister{},
			&KMSLister{},
			&AutoScalingGroupLister{},
		},
	}
}

// Names returns the resource-type names of all registered listers
func (r *ListerRegistry) Names() []string {
	names := make([]string, 0, len(r.listers))
	for _, l := range r.listers {
		names = append(names, l.Name())
	}
	return names
}

// ListResources runs the listers selected by the filter and applies the
// tag/ID filters to the union.
func (p *Provider) ListResources(ctx context.Context, filter types.ResourceFilter) ([]types.Resource, error) {
	wanted := make(map[string]bool, len(filter.Types))
	for _, t := range filter.Types {
		wanted[t] = true
	}
	excluded := make(map[string]bool, len(filter.ExcludeTypes))
	for _, t := range filter.ExcludeTypes {
		excluded[t] = true
	}

	var allResources []types.Resource
	var criticalErrors []error

	for _, lister := range p.registry.listers {
		if excluded[lister.Name()] {
			continue
		}
		if len(wanted) > 0 && !wanted[lister.Name()] {
			continue
		}

		resources, err := lister.List(ctx, p)
		if err != nil {
			if lister.IsCritical() {
				criticalErrors = append(criticalErrors, fmt.Errorf("%s: %w", lister.Name(), err))
			} else {
				p.logger.WithContext(ctx).Warn().
					Err(err).
					Str("resource_type", lister.Name()).
					Str("region", p.region).
					Msg("failed to list optional resource type")
			}
			continue
		}
		allResources = append(allResources, resources...)
	}

	if len(criticalErrors) > 0 {
		return nil, fmt.Errorf("failed to list critical resources: %w", errors.Join(criticalErrors...))
	}

	return applyResourceFilter(allResources, filter), nil
}

func applyResourceFilter(resources []types.Resource, filter types.ResourceFilter) []types.Resource {
	if len(filter.IDs) == 0 && len(filter.Tags) == 0 {
		return resources
	}
	filtered := make([]types.Resource, 0, len(resources))
	for _, r := range resources {
		if r.Matches(filter) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
