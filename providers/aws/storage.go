package aws

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/tagwarden/tagwarden/types"
)

// S3Lister discovers S3 buckets. Buckets are account-global; the
// orchestrator scans this kind from the home region only.
type S3Lister struct{}

func (l *S3Lister) Name() string     { return "s3" }
func (l *S3Lister) IsCritical() bool { return false }

func (l *S3Lister) List(ctx context.Context, p *Provider) ([]types.Resource, error) {
	output, err := p.s3Client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to list S3 buckets: %w", err)
	}

	resources := make([]types.Resource, 0, len(output.Buckets))
	for _, bucket := range output.Buckets {
		name := aws.ToString(bucket.Name)
		tags, err := l.bucketTags(ctx, p, name)
		if err != nil {
			return nil, err
		}

		r := types.Resource{
			ID:       name,
			ARN:      "arn:aws:s3:::" + name,
			Type:     "s3",
			Provider: "aws",
			Region:   p.region,
			Name:     name,
			Tags:     tags,
		}
		if bucket.CreationDate != nil {
			r.CreatedAt = *bucket.CreationDate
		}
		resources = append(resources, r)
	}

	return resources, nil
}

func (l *S3Lister) bucketTags(ctx context.Context, p *Provider, bucket string) (map[string]string, error) {
	resp, err := p.s3Client.GetBucketTagging(ctx, &s3.GetBucketTaggingInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		// An untagged bucket is normal, not an error
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchTagSet" {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to get tags for bucket %s: %w", bucket, err)
	}
	return s3TagsToMap(resp.TagSet), nil
}

func s3TagsToMap(tags []s3types.Tag) map[string]string {
	out := make(map[string]string, len(tags))
	for _, t := range tags {
		out[aws.ToString(t.Key)] = aws.ToString(t.Value)
	}
	return out
}
