package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics - following OTEL naming conventions
var (
	RegionsScanned  metric.Int64Counter
	RegionScansFail metric.Int64Counter
	ScanRetries     metric.Int64Counter
	ScanDuration    metric.Float64Histogram
	ViolationsFound metric.Int64Counter
	ComplianceScore metric.Float64Gauge
)

func initMetrics() error {
	var err error

	RegionsScanned, err = Meter.Int64Counter("tagwarden.regions.scanned",
		metric.WithDescription("Regions scanned, by outcome"))
	if err != nil {
		return fmt.Errorf("regions counter: %w", err)
	}

	RegionScansFail, err = Meter.Int64Counter("tagwarden.regions.failed",
		metric.WithDescription("Region scans that exhausted their retry budget"))
	if err != nil {
		return fmt.Errorf("failures counter: %w", err)
	}

	ScanRetries, err = Meter.Int64Counter("tagwarden.scan.retries",
		metric.WithDescription("Transient-failure retries across all regions"))
	if err != nil {
		return fmt.Errorf("retries counter: %w", err)
	}

	ScanDuration, err = Meter.Float64Histogram("tagwarden.scan.duration_ms",
		metric.WithDescription("Per-region scan duration in milliseconds"))
	if err != nil {
		return fmt.Errorf("duration histogram: %w", err)
	}

	ViolationsFound, err = Meter.Int64Counter("tagwarden.violations.found",
		metric.WithDescription("Tag violations found, by severity"))
	if err != nil {
		return fmt.Errorf("violations counter: %w", err)
	}

	ComplianceScore, err = Meter.Float64Gauge("tagwarden.compliance.score",
		metric.WithDescription("Compliance score of the latest scan"))
	if err != nil {
		return fmt.Errorf("score gauge: %w", err)
	}

	return nil
}

// RecordRegionScan records one finished region scan
func RecordRegionScan(ctx context.Context, region string, success bool, durationMs float64) {
	if RegionsScanned == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("region", region),
		attribute.Bool("success", success),
	)
	RegionsScanned.Add(ctx, 1, attrs)
	ScanDuration.Record(ctx, durationMs, attrs)
	if !success {
		RegionScansFail.Add(ctx, 1, metric.WithAttributes(attribute.String("region", region)))
	}
}

// RecordRetry records one backoff-and-retry of a region scan
func RecordRetry(ctx context.Context, region string) {
	if ScanRetries == nil {
		return
	}
	ScanRetries.Add(ctx, 1, metric.WithAttributes(attribute.String("region", region)))
}

// RecordScanResult records aggregate-level facts about a finished scan
func RecordScanResult(ctx context.Context, score float64, violations int) {
	if ComplianceScore == nil {
		return
	}
	ComplianceScore.Record(ctx, score)
	ViolationsFound.Add(ctx, int64(violations))
}
