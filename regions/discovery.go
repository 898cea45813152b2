package regions

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
)

// Discoverer enumerates the regions enabled for the account
type Discoverer interface {
	EnabledRegions(ctx context.Context) ([]string, error)
}

// DescribeRegionsAPI is the EC2 surface discovery needs
type DescribeRegionsAPI interface {
	DescribeRegions(ctx context.Context, params *ec2.DescribeRegionsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeRegionsOutput, error)
}

// EC2Discoverer discovers enabled regions via EC2 DescribeRegions
type EC2Discoverer struct {
	client DescribeRegionsAPI
}

// NewEC2Discoverer creates a discoverer backed by an EC2 client
func NewEC2Discoverer(client DescribeRegionsAPI) *EC2Discoverer {
	return &EC2Discoverer{client: client}
}

// EnabledRegions returns only regions enabled for the account, in the
// order the API reports them.
func (d *EC2Discoverer) EnabledRegions(ctx context.Context) ([]string, error) {
	out, err := d.client.DescribeRegions(ctx, &ec2.DescribeRegionsInput{
		AllRegions: aws.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe regions: %w", err)
	}

	regions := make([]string, 0, len(out.Regions))
	for _, r := range out.Regions {
		if r.RegionName != nil {
			regions = append(regions, *r.RegionName)
		}
	}
	return regions, nil
}
