package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	ecstypes "github.com/aws/aws-sdk-go-v2/service/ecs/types"
	"github.com/aws/aws-sdk-go-v2/service/eks"

	"github.com/tagwarden/tagwarden/types"
)

// ECSLister discovers ECS clusters
type ECSLister struct{}

func (l *ECSLister) Name() string     { return "ecs" }
func (l *ECSLister) IsCritical() bool { return false }

func (l *ECSLister) List(ctx context.Context, p *Provider) ([]types.Resource, error) {
	var resources []types.Resource

	paginator := ecs.NewListClustersPaginator(p.ecsClient, &ecs.ListClustersInput{})
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list ECS clusters: %w", err)
		}
		if len(output.ClusterArns) == 0 {
			continue
		}

		desc, err := p.ecsClient.DescribeClusters(ctx, &ecs.DescribeClustersInput{
			Clusters: output.ClusterArns,
			Include:  []ecstypes.ClusterField{ecstypes.ClusterFieldTags},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to describe ECS clusters: %w", err)
		}

		for _, cluster := range desc.Clusters {
			tags := make(map[string]string, len(cluster.Tags))
			for _, t := range cluster.Tags {
				tags[aws.ToString(t.Key)] = aws.ToString(t.Value)
			}
			resources = append(resources, types.Resource{
				ID:       aws.ToString(cluster.ClusterArn),
				ARN:      aws.ToString(cluster.ClusterArn),
				Type:     "ecs",
				Provider: "aws",
				Region:   p.region,
				Name:     aws.ToString(cluster.ClusterName),
				Status:   aws.ToString(cluster.Status),
				Tags:     tags,
			})
		}
	}

	return resources, nil
}

// EKSLister discovers EKS clusters
type EKSLister struct{}

func (l *EKSLister) Name() string     { return "eks" }
func (l *EKSLister) IsCritical() bool { return false }

func (l *EKSLister) List(ctx context.Context, p *Provider) ([]types.Resource, error) {
	var resources []types.Resource

	paginator := eks.NewListClustersPaginator(p.eksClient, &eks.ListClustersInput{})
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list EKS clusters: %w", err)
		}

		for _, name := range output.Clusters {
			desc, err := p.eksClient.DescribeCluster(ctx, &eks.DescribeClusterInput{
				Name: aws.String(name),
			})
			if err != nil {
				return nil, fmt.Errorf("failed to describe EKS cluster %s: %w", name, err)
			}

			cluster := desc.Cluster
			r := types.Resource{
				ID:       name,
				Type:     "eks",
				Provider: "aws",
				Region:   p.region,
				Name:     name,
				Tags:     map[string]string{},
			}
			if cluster != nil {
				r.ARN = aws.ToString(cluster.Arn)
				r.Status = string(cluster.Status)
				r.Tags = copyTags(cluster.Tags)
				if cluster.CreatedAt != nil {
					r.CreatedAt = *cluster.CreatedAt
				}
			}
			resources = append(resources, r)
		}
	}

	return resources, nil
}

// ECRLister discovers ECR repositories
type ECRLister struct{}

func (l *ECRLister) Name() string     { return "ecr" }
func (l *ECRLister) IsCritical() bool { return false }

func (l *ECRLister) List(ctx context.Context, p *Provider) ([]types.Resource, error) {
	var resources []types.Resource

	paginator := ecr.NewDescribeRepositoriesPaginator(p.ecrClient, &ecr.DescribeRepositoriesInput{})
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe ECR repositories: %w", err)
		}

		for _, repo := range output.Repositories {
			arn := aws.ToString(repo.RepositoryArn)
			tagsResp, err := p.ecrClient.ListTagsForResource(ctx, &ecr.ListTagsForResourceInput{
				ResourceArn: aws.String(arn),
			})
			if err != nil {
				return nil, fmt.Errorf("failed to list tags for repository %s: %w", arn, err)
			}
			tags := make(map[string]string, len(tagsResp.Tags))
			for _, t := range tagsResp.Tags {
				tags[aws.ToString(t.Key)] = aws.ToString(t.Value)
			}

			r := types.Resource{
				ID:       aws.ToString(repo.RepositoryName),
				ARN:      arn,
				Type:     "ecr",
				Provider: "aws",
				Region:   p.region,
				Name:     aws.ToString(repo.RepositoryName),
				Tags:     tags,
			}
			if repo.CreatedAt != nil {
				r.CreatedAt = *repo.CreatedAt
			}
			resources = append(resources, r)
		}
	}

	return resources, nil
}
