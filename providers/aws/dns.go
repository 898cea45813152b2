package aws

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	r53types "github.com/aws/aws-sdk-go-v2/service/route53/types"

	"github.com/tagwarden/tagwarden/types"
)

// Route53Lister discovers hosted zones. Zones are account-global; the
// orchestrator scans this kind from the home region only.
type Route53Lister struct{}

func (l *Route53Lister) Name() string     { return "route53_zone" }
func (l *Route53Lister) IsCritical() bool { return false }

func (l *Route53Lister) List(ctx context.Context, p *Provider) ([]types.Resource, error) {
	var resources []types.Resource

	paginator := route53.NewListHostedZonesPaginator(p.route53Client, &route53.ListHostedZonesInput{})
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list hosted zones: %w", err)
		}

		for _, zone := range output.HostedZones {
			zoneID := strings.TrimPrefix(aws.ToString(zone.Id), "/hostedzone/")
			tags, err := l.zoneTags(ctx, p, zoneID)
			if err != nil {
				return nil, err
			}

			resources = append(resources, types.Resource{
				ID:       zoneID,
				Type:     "route53_zone",
				Provider: "aws",
				Region:   p.region,
				Name:     aws.ToString(zone.Name),
				Tags:     tags,
			})
		}
	}

	return resources, nil
}

func (l *Route53Lister) zoneTags(ctx context.Context, p *Provider, zoneID string) (map[string]string, error) {
	resp, err := p.route53Client.ListTagsForResource(ctx, &route53.ListTagsForResourceInput{
		ResourceType: r53types.TagResourceTypeHostedzone,
		ResourceId:   aws.String(zoneID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tags for zone %s: %w", zoneID, err)
	}

	out := make(map[string]string)
	if resp.ResourceTagSet != nil {
		for _, t := range resp.ResourceTagSet.Tags {
			out[aws.ToString(t.Key)] = aws.ToString(t.Value)
		}
	}
	return out, nil
}
