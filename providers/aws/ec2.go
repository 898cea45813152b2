package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/tagwarden/tagwarden/types"
)

// EC2Lister discovers EC2 instances
type EC2Lister struct{}

func (l *EC2Lister) Name() string     { return "ec2" }
func (l *EC2Lister) IsCritical() bool { return true }

func (l *EC2Lister) List(ctx context.Context, p *Provider) ([]types.Resource, error) {
	var resources []types.Resource

	paginator := ec2.NewDescribeInstancesPaginator(p.ec2Client, &ec2.DescribeInstancesInput{})
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe EC2 instances: %w", err)
		}

		for _, reservation := range output.Reservations {
			for _, instance := range reservation.Instances {
				resources = append(resources, convertEC2Instance(instance, p.region))
			}
		}
	}

	return resources, nil
}

func convertEC2Instance(instance ec2types.Instance, region string) types.Resource {
	tags := ec2TagsToMap(instance.Tags)

	r := types.Resource{
		ID:       aws.ToString(instance.InstanceId),
		Type:     "ec2",
		Provider: "aws",
		Region:   region,
		Name:     nameFrom(tags, aws.ToString(instance.InstanceId)),
		Tags:     tags,
	}
	if instance.State != nil {
		r.Status = string(instance.State.Name)
	}
	if instance.LaunchTime != nil {
		r.CreatedAt = *instance.LaunchTime
	}
	return r
}

func ec2TagsToMap(tags []ec2types.Tag) map[string]string {
	out := make(map[string]string, len(tags))
	for _, t := range tags {
		out[aws.ToString(t.Key)] = aws.ToString(t.Value)
	}
	return out
}
