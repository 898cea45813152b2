package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/tagwarden/tagwarden/types"
)

// DynamoDBLister discovers DynamoDB tables
type DynamoDBLister struct{}

func (l *DynamoDBLister) Name() string     { return "dynamodb" }
func (l *DynamoDBLister) IsCritical() bool { return false }

func (l *DynamoDBLister) List(ctx context.Context, p *Provider) ([]types.Resource, error) {
	var resources []types.Resource

	paginator := dynamodb.NewListTablesPaginator(p.dynamoClient, &dynamodb.ListTablesInput{})
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list DynamoDB tables: %w", err)
		}

		for _, tableName := range output.TableNames {
			resource, err := l.convertTable(ctx, p, tableName)
			if err != nil {
				return nil, err
			}
			resources = append(resources, resource)
		}
	}

	return resources, nil
}

func (l *DynamoDBLister) convertTable(ctx context.Context, p *Provider, tableName string) (types.Resource, error) {
	desc, err := p.dynamoClient.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(tableName),
	})
	if err != nil {
		return types.Resource{}, fmt.Errorf("failed to describe table %s: %w", tableName, err)
	}

	r := types.Resource{
		ID:       tableName,
		Type:     "dynamodb",
		Provider: "aws",
		Region:   p.region,
		Name:     tableName,
		Tags:     map[string]string{},
	}
	if desc.Table != nil {
		r.ARN = aws.ToString(desc.Table.TableArn)
		r.Status = string(desc.Table.TableStatus)
		if desc.Table.CreationDateTime != nil {
			r.CreatedAt = *desc.Table.CreationDateTime
		}
	}

	if r.ARN != "" {
		tagsResp, err := p.dynamoClient.ListTagsOfResource(ctx, &dynamodb.ListTagsOfResourceInput{
			ResourceArn: aws.String(r.ARN),
		})
		if err != nil {
			return types.Resource{}, fmt.Errorf("failed to list tags for table %s: %w", tableName, err)
		}
		for _, t := range tagsResp.Tags {
			r.Tags[aws.ToString(t.Key)] = aws.ToString(t.Value)
		}
	}

	return r, nil
}
