package aws

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"
	"github.com/stretchr/testify/assert"

	"github.com/tagwarden/tagwarden/types"
)

func TestListerRegistry_Names(t *testing.T) {
	names := NewListerRegistry().Names()
	assert.Contains(t, names, "ec2")
	assert.Contains(t, names, "rds")
	assert.Contains(t, names, "s3")
	assert.Contains(t, names, "iam_role")
	assert.Contains(t, names, "route53_zone")
	assert.Len(t, names, 15)
}

func TestConvertEC2Instance(t *testing.T) {
	instance := ec2types.Instance{
		InstanceId: aws.String("i-abc123"),
		State:      &ec2types.InstanceState{Name: ec2types.InstanceStateNameRunning},
		Tags: []ec2types.Tag{
			{Key: aws.String("Name"), Value: aws.String("web-1")},
			{Key: aws.String("Team"), Value: aws.String("platform")},
		},
	}

	r := convertEC2Instance(instance, "us-east-1")
	assert.Equal(t, "i-abc123", r.ID)
	assert.Equal(t, "ec2", r.Type)
	assert.Equal(t, "us-east-1", r.Region)
	assert.Equal(t, "web-1", r.Name)
	assert.Equal(t, "running", r.Status)
	assert.Equal(t, "platform", r.Tags["Team"])
}

func TestConvertEC2Instance_NoNameTag(t *testing.T) {
	instance := ec2types.Instance{InstanceId: aws.String("i-abc123")}
	r := convertEC2Instance(instance, "us-east-1")
	assert.Equal(t, "i-abc123", r.Name)
}

func TestConvertRDSInstance(t *testing.T) {
	db := rdstypes.DBInstance{
		DBInstanceIdentifier: aws.String("orders-db"),
		DBInstanceArn:        aws.String("arn:aws:rds:us-east-1:123:db:orders-db"),
		DBInstanceStatus:     aws.String("available"),
		TagList: []rdstypes.Tag{
			{Key: aws.String("Environment"), Value: aws.String("prod")},
		},
	}

	r := convertRDSInstance(db, "us-east-1")
	assert.Equal(t, "orders-db", r.ID)
	assert.Equal(t, "rds", r.Type)
	assert.Equal(t, "available", r.Status)
	assert.Equal(t, "prod", r.Tags["Environment"])
}

func TestApplyResourceFilter(t *testing.T) {
	resources := []types.Resource{
		{ID: "i-1", Type: "ec2", Tags: map[string]string{"env": "prod"}},
		{ID: "i-2", Type: "ec2", Tags: map[string]string{"env": "dev"}},
	}

	filtered := applyResourceFilter(resources, types.ResourceFilter{
		Tags: map[string]string{"env": "prod"},
	})
	assert.Len(t, filtered, 1)
	assert.Equal(t, "i-1", filtered[0].ID)

	all := applyResourceFilter(resources, types.ResourceFilter{})
	assert.Len(t, all, 2)
}

func TestQueueNameFromURL(t *testing.T) {
	assert.Equal(t, "jobs", queueNameFromURL("https://sqs.us-east-1.amazonaws.com/123/jobs"))
}
