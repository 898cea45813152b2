package aws

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"

	"github.com/tagwarden/tagwarden/types"
)

// IAMRoleLister discovers IAM roles. Roles are account-global; the
// orchestrator scans this kind from the home region only.
type IAMRoleLister struct{}

func (l *IAMRoleLister) Name() string     { return "iam_role" }
func (l *IAMRoleLister) IsCritical() bool { return false }

func (l *IAMRoleLister) List(ctx context.Context, p *Provider) ([]types.Resource, error) {
	var resources []types.Resource

	paginator := iam.NewListRolesPaginator(p.iamClient, &iam.ListRolesInput{})
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list IAM roles: %w", err)
		}

		for _, role := range output.Roles {
			// Service-linked roles are AWS-owned; tag policy does not apply
			if strings.HasPrefix(aws.ToString(role.Path), "/aws-service-role/") {
				continue
			}

			tags, err := l.roleTags(ctx, p, aws.ToString(role.RoleName))
			if err != nil {
				return nil, err
			}

			r := types.Resource{
				ID:       aws.ToString(role.RoleName),
				ARN:      aws.ToString(role.Arn),
				Type:     "iam_role",
				Provider: "aws",
				Region:   p.region,
				Name:     aws.ToString(role.RoleName),
				Tags:     tags,
			}
			if role.CreateDate != nil {
				r.CreatedAt = *role.CreateDate
			}
			resources = append(resources, r)
		}
	}

	return resources, nil
}

func (l *IAMRoleLister) roleTags(ctx context.Context, p *Provider, roleName string) (map[string]string, error) {
	resp, err := p.iamClient.ListRoleTags(ctx, &iam.ListRoleTagsInput{
		RoleName: aws.String(roleName),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tags for role %s: %w", roleName, err)
	}
	return iamTagsToMap(resp.Tags), nil
}

func iamTagsToMap(tags []iamtypes.Tag) map[string]string {
	out := make(map[string]string, len(tags))
	for _, t := range tags {
		out[aws.ToString(t.Key)] = aws.ToString(t.Value)
	}
	return out
}
