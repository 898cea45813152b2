package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"

	"github.com/tagwarden/tagwarden/types"
)

// LambdaLister discovers Lambda functions
type LambdaLister struct{}

func (l *LambdaLister) Name() string     { return "lambda" }
func (l *LambdaLister) IsCritical() bool { return false }

func (l *LambdaLister) List(ctx context.Context, p *Provider) ([]types.Resource, error) {
	var resources []types.Resource

	paginator := lambda.NewListFunctionsPaginator(p.lambdaClient, &lambda.ListFunctionsInput{})
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list Lambda functions: %w", err)
		}

		for _, fn := range output.Functions {
			arn := aws.ToString(fn.FunctionArn)
			tags, err := l.functionTags(ctx, p, arn)
			if err != nil {
				return nil, err
			}

			resources = append(resources, types.Resource{
				ID:       aws.ToString(fn.FunctionName),
				ARN:      arn,
				Type:     "lambda",
				Provider: "aws",
				Region:   p.region,
				Name:     aws.ToString(fn.FunctionName),
				Status:   string(fn.State),
				Tags:     tags,
			})
		}
	}

	return resources, nil
}

func (l *LambdaLister) functionTags(ctx context.Context, p *Provider, arn string) (map[string]string, error) {
	resp, err := p.lambdaClient.ListTags(ctx, &lambda.ListTagsInput{
		Resource: aws.String(arn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tags for %s: %w", arn, err)
	}
	return copyTags(resp.Tags), nil
}
