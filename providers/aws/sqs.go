package aws

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/tagwarden/tagwarden/types"
)

// SQSLister discovers SQS queues
type SQSLister struct{}

func (l *SQSLister) Name() string     { return "sqs" }
func (l *SQSLister) IsCritical() bool { return false }

func (l *SQSLister) List(ctx context.Context, p *Provider) ([]types.Resource, error) {
	var resources []types.Resource

	paginator := sqs.NewListQueuesPaginator(p.sqsClient, &sqs.ListQueuesInput{})
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list SQS queues: %w", err)
		}

		for _, queueURL := range output.QueueUrls {
			tags, err := l.queueTags(ctx, p, queueURL)
			if err != nil {
				return nil, err
			}

			resources = append(resources, types.Resource{
				ID:       queueURL,
				Type:     "sqs",
				Provider: "aws",
				Region:   p.region,
				Name:     queueNameFromURL(queueURL),
				Status:   "available",
				Tags:     tags,
			})
		}
	}

	return resources, nil
}

func (l *SQSLister) queueTags(ctx context.Context, p *Provider, queueURL string) (map[string]string, error) {
	resp, err := p.sqsClient.ListQueueTags(ctx, &sqs.ListQueueTagsInput{
		QueueUrl: aws.String(queueURL),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tags for queue %s: %w", queueURL, err)
	}
	return copyTags(resp.Tags), nil
}

func queueNameFromURL(queueURL string) string {
	parts := strings.Split(queueURL, "/")
	return parts[len(parts)-1]
}
