package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kms"

	"github.com/tagwarden/tagwarden/types"
)

// KMSLister discovers customer-managed KMS keys
type KMSLister struct{}

func (l *KMSLister) Name() string     { return "kms" }
func (l *KMSLister) IsCritical() bool { return false }

func (l *KMSLister) List(ctx context.Context, p *Provider) ([]types.Resource, error) {
	var resources []types.Resource

	paginator := kms.NewListKeysPaginator(p.kmsClient, &kms.ListKeysInput{})
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list KMS keys: %w", err)
		}

		for _, key := range output.Keys {
			keyID := aws.ToString(key.KeyId)

			desc, err := p.kmsClient.DescribeKey(ctx, &kms.DescribeKeyInput{
				KeyId: aws.String(keyID),
			})
			if err != nil {
				return nil, fmt.Errorf("failed to describe key %s: %w", keyID, err)
			}
			// AWS-managed keys cannot be tagged by the account owner
			if desc.KeyMetadata == nil || desc.KeyMetadata.KeyManager != "CUSTOMER" {
				continue
			}

			tags, err := l.keyTags(ctx, p, keyID)
			if err != nil {
				return nil, err
			}

			r := types.Resource{
				ID:       keyID,
				ARN:      aws.ToString(key.KeyArn),
				Type:     "kms",
				Provider: "aws",
				Region:   p.region,
				Name:     nameFrom(tags, keyID),
				Status:   string(desc.KeyMetadata.KeyState),
				Tags:     tags,
			}
			if desc.KeyMetadata.CreationDate != nil {
				r.CreatedAt = *desc.KeyMetadata.CreationDate
			}
			resources = append(resources, r)
		}
	}

	return resources, nil
}

func (l *KMSLister) keyTags(ctx context.Context, p *Provider, keyID string) (map[string]string, error) {
	resp, err := p.kmsClient.ListResourceTags(ctx, &kms.ListResourceTagsInput{
		KeyId: aws.String(keyID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tags for key %s: %w", keyID, err)
	}

	out := make(map[string]string, len(resp.Tags))
	for _, t := range resp.Tags {
		out[aws.ToString(t.TagKey)] = aws.ToString(t.TagValue)
	}
	return out, nil
}
