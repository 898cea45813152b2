// Package cost estimates the monthly spend attributable to resources so
// tag violations can carry a dollar impact.
package cost

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tagwarden/tagwarden/types"
)

// Estimator prices a resource's monthly spend
type Estimator interface {
	MonthlyCost(resource types.Resource) decimal.Decimal
}

// StaticEstimator prices by resource type from a fixed table. Good enough
// for attribution-gap math; exact billing belongs to the cost pipeline.
type StaticEstimator struct {
	prices map[string]decimal.Decimal
}

// Baseline monthly prices in USD per resource, by type.
var defaultPrices = map[string]string{
	"ec2":           "62.40",
	"rds":           "118.00",
	"elb":           "22.50",
	"s3":            "5.75",
	"lambda":        "3.20",
	"ebs_volume":    "8.00",
	"iam_role":      "0",
	"route53_zone":  "0.50",
	"dynamodb":      "14.30",
	"sqs":           "1.10",
	"ecs":           "0",
	"eks":           "73.00",
	"ecr":           "2.40",
	"kms":           "1.00",
	"autoscaling":   "0",
	"nat_gateway":   "32.85",
	"elastic_ip":    "3.65",
	"cloudfront":    "4.20",
	"iam_user":      "0",
	"iam_policy":    "0",
	"organizations": "0",
}

// NewStaticEstimator creates an estimator with the default price table
func NewStaticEstimator() *StaticEstimator {
	prices := make(map[string]decimal.Decimal, len(defaultPrices))
	for t, p := range defaultPrices {
		prices[t] = decimal.RequireFromString(p)
	}
	return &StaticEstimator{prices: prices}
}

// WithPrice overrides or adds a price for a resource type
func (e *StaticEstimator) WithPrice(resourceType string, monthly decimal.Decimal) *StaticEstimator {
	e.prices[strings.ToLower(resourceType)] = monthly
	return e
}

// MonthlyCost returns the monthly estimate for the resource, zero for
// unknown types rather than guessing.
func (e *StaticEstimator) MonthlyCost(resource types.Resource) decimal.Decimal {
	price, ok := e.prices[strings.ToLower(resource.Type)]
	if !ok {
		return decimal.Zero
	}
	return price
}

// AttributionGap sums the monthly cost impact across violations
func AttributionGap(violations []types.Violation) decimal.Decimal {
	gap := decimal.Zero
	for _, v := range violations {
		gap = gap.Add(decimal.NewFromFloat(v.MonthlyCostImpact))
	}
	return gap
}
