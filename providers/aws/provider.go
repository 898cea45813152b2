// Package aws implements the CloudProvider inventory against AWS.
package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/autoscaling"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/eks"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/tagwarden/tagwarden/providers"
	"github.com/tagwarden/tagwarden/telemetry"
)

func init() {
	providers.RegisterProvider("aws", func(ctx context.Context, cfg providers.ProviderConfig) (providers.CloudProvider, error) {
		return NewProvider(ctx, cfg.Region)
	})
}

// Provider implements CloudProvider using AWS SDK v2
type Provider struct {
	region   string
	registry *ListerRegistry
	logger   *telemetry.Logger

	ec2Client      *ec2.Client
	rdsClient      *rds.Client
	elbv2Client    *elasticloadbalancingv2.Client
	s3Client       *s3.Client
	lambdaClient   *lambda.Client
	iamClient      *iam.Client
	route53Client  *route53.Client
	dynamoClient   *dynamodb.Client
	sqsClient      *sqs.Client
	ecsClient      *ecs.Client
	eksClient      *eks.Client
	ecrClient      *ecr.Client
	kmsClient      *kms.Client
	asgClient      *autoscaling.Client
}

// NewProvider creates an AWS provider scoped to one region
func NewProvider(ctx context.Context, region string) (*Provider, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Provider{
		region:        region,
		registry:      NewListerRegistry(),
		logger:        telemetry.NewLogger("aws-provider"),
		ec2Client:     ec2.NewFromConfig(cfg),
		rdsClient:     rds.NewFromConfig(cfg),
		elbv2Client:   elasticloadbalancingv2.NewFromConfig(cfg),
		s3Client:      s3.NewFromConfig(cfg),
		lambdaClient:  lambda.NewFromConfig(cfg),
		iamClient:     iam.NewFromConfig(cfg),
		route53Client: route53.NewFromConfig(cfg),
		dynamoClient:  dynamodb.NewFromConfig(cfg),
		sqsClient:     sqs.NewFromConfig(cfg),
		ecsClient:     ecs.NewFromConfig(cfg),
		eksClient:     eks.NewFromConfig(cfg),
		ecrClient:     ecr.NewFromConfig(cfg),
		kmsClient:     kms.NewFromConfig(cfg),
		asgClient:     autoscaling.NewFromConfig(cfg),
	}, nil
}

// Name returns the provider name
func (p *Provider) Name() string {
	return "aws"
}

// Region returns the AWS region
func (p *Provider) Region() string {
	return p.region
}
