package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/autoscaling"

	"github.com/tagwarden/tagwarden/types"
)

// AutoScalingGroupLister discovers auto scaling groups
type AutoScalingGroupLister struct{}

func (l *AutoScalingGroupLister) Name() string     { return "autoscaling" }
func (l *AutoScalingGroupLister) IsCritical() bool { return false }

func (l *AutoScalingGroupLister) List(ctx context.Context, p *Provider) ([]types.Resource, error) {
	var resources []types.Resource

	paginator := autoscaling.NewDescribeAutoScalingGroupsPaginator(
		p.asgClient, &autoscaling.DescribeAutoScalingGroupsInput{})
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe auto scaling groups: %w", err)
		}

		for _, group := range output.AutoScalingGroups {
			tags := make(map[string]string, len(group.Tags))
			for _, t := range group.Tags {
				tags[aws.ToString(t.Key)] = aws.ToString(t.Value)
			}

			r := types.Resource{
				ID:       aws.ToString(group.AutoScalingGroupName),
				ARN:      aws.ToString(group.AutoScalingGroupARN),
				Type:     "autoscaling",
				Provider: "aws",
				Region:   p.region,
				Name:     aws.ToString(group.AutoScalingGroupName),
				Tags:     tags,
			}
			if group.CreatedTime != nil {
				r.CreatedAt = *group.CreatedTime
			}
			resources = append(resources, r)
		}
	}

	return resources, nil
}
