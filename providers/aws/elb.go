package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	elbv2types "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"

	"github.com/tagwarden/tagwarden/types"
)

// ELBLister discovers application and network load balancers
type ELBLister struct{}

func (l *ELBLister) Name() string     { return "elb" }
func (l *ELBLister) IsCritical() bool { return true }

func (l *ELBLister) List(ctx context.Context, p *Provider) ([]types.Resource, error) {
	var resources []types.Resource

	paginator := elasticloadbalancingv2.NewDescribeLoadBalancersPaginator(
		p.elbv2Client, &elasticloadbalancingv2.DescribeLoadBalancersInput{})
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe load balancers: %w", err)
		}

		arns := make([]string, 0, len(output.LoadBalancers))
		for _, lb := range output.LoadBalancers {
			arns = append(arns, aws.ToString(lb.LoadBalancerArn))
		}
		tagsByARN, err := l.describeTags(ctx, p, arns)
		if err != nil {
			return nil, err
		}

		for _, lb := range output.LoadBalancers {
			arn := aws.ToString(lb.LoadBalancerArn)
			tags := tagsByARN[arn]
			r := types.Resource{
				ID:       arn,
				ARN:      arn,
				Type:     "elb",
				Provider: "aws",
				Region:   p.region,
				Name:     nameFrom(tags, aws.ToString(lb.LoadBalancerName)),
				Tags:     tags,
			}
			if lb.State != nil {
				r.Status = string(lb.State.Code)
			}
			if lb.CreatedTime != nil {
				r.CreatedAt = *lb.CreatedTime
			}
			resources = append(resources, r)
		}
	}

	return resources, nil
}

// DescribeTags accepts at most 20 ARNs per call
func (l *ELBLister) describeTags(ctx context.Context, p *Provider, arns []string) (map[string]map[string]string, error) {
	out := make(map[string]map[string]string, len(arns))

	for start := 0; start < len(arns); start += 20 {
		end := start + 20
		if end > len(arns) {
			end = len(arns)
		}

		resp, err := p.elbv2Client.DescribeTags(ctx, &elasticloadbalancingv2.DescribeTagsInput{
			ResourceArns: arns[start:end],
		})
		if err != nil {
			return nil, fmt.Errorf("failed to describe load balancer tags: %w", err)
		}

		for _, desc := range resp.TagDescriptions {
			out[aws.ToString(desc.ResourceArn)] = elbTagsToMap(desc.Tags)
		}
	}

	return out, nil
}

func elbTagsToMap(tags []elbv2types.Tag) map[string]string {
	m := make(map[string]string, len(tags))
	for _, t := range tags {
		m[aws.ToString(t.Key)] = aws.ToString(t.Value)
	}
	return m
}
