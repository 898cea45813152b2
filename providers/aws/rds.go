package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"

	"github.com/tagwarden/tagwarden/types"
)

// RDSLister discovers RDS database instances
type RDSLister struct{}

func (l *RDSLister) Name() string     { return "rds" }
func (l *RDSLister) IsCritical() bool { return true }

func (l *RDSLister) List(ctx context.Context, p *Provider) ([]types.Resource, error) {
	var resources []types.Resource

	paginator := rds.NewDescribeDBInstancesPaginator(p.rdsClient, &rds.DescribeDBInstancesInput{})
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe RDS instances: %w", err)
		}

		for _, db := range output.DBInstances {
			resources = append(resources, convertRDSInstance(db, p.region))
		}
	}

	return resources, nil
}

func convertRDSInstance(db rdstypes.DBInstance, region string) types.Resource {
	tags := rdsTagsToMap(db.TagList)

	r := types.Resource{
		ID:       aws.ToString(db.DBInstanceIdentifier),
		ARN:      aws.ToString(db.DBInstanceArn),
		Type:     "rds",
		Provider: "aws",
		Region:   region,
		Name:     nameFrom(tags, aws.ToString(db.DBInstanceIdentifier)),
		Status:   aws.ToString(db.DBInstanceStatus),
		Tags:     tags,
	}
	if db.InstanceCreateTime != nil {
		r.CreatedAt = *db.InstanceCreateTime
	}
	return r
}

func rdsTagsToMap(tags []rdstypes.Tag) map[string]string {
	out := make(map[string]string, len(tags))
	for _, t := range tags {
		out[aws.ToString(t.Key)] = aws.ToString(t.Value)
	}
	return out
}
