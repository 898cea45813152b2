package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"

	"github.com/tagwarden/tagwarden/types"
)

// EBSVolumeLister discovers EBS volumes
type EBSVolumeLister struct{}

func (l *EBSVolumeLister) Name() string     { return "ebs_volume" }
func (l *EBSVolumeLister) IsCritical() bool { return false }

func (l *EBSVolumeLister) List(ctx context.Context, p *Provider) ([]types.Resource, error) {
	var resources []types.Resource

	paginator := ec2.NewDescribeVolumesPaginator(p.ec2Client, &ec2.DescribeVolumesInput{})
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe EBS volumes: %w", err)
		}

		for _, volume := range output.Volumes {
			tags := ec2TagsToMap(volume.Tags)
			r := types.Resource{
				ID:       aws.ToString(volume.VolumeId),
				Type:     "ebs_volume",
				Provider: "aws",
				Region:   p.region,
				Name:     nameFrom(tags, aws.ToString(volume.VolumeId)),
				Status:   string(volume.State),
				Tags:     tags,
			}
			if volume.CreateTime != nil {
				r.CreatedAt = *volume.CreateTime
			}
			resources = append(resources, r)
		}
	}

	return resources, nil
}
