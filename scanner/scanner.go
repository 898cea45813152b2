package scanner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tagwarden/tagwarden/retrier"
	"github.com/tagwarden/tagwarden/telemetry"
	"github.com/tagwarden/tagwarden/types"
)

// RegionScanner scans one region at a time, never returning an error:
// every failure path ends up inside the RegionalScanResult so the
// orchestrator can aggregate failures alongside successes.
type RegionScanner struct {
	factory     CheckerFactory
	timeout     time.Duration
	maxAttempts int
	backoff     retrier.Backoff
	logger      *telemetry.Logger

	// sleep is swappable in tests
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRegionScanner creates a scanner with the given retry policy.
// maxAttempts counts total attempts, not retries after the first.
func NewRegionScanner(factory CheckerFactory, timeout time.Duration, maxAttempts int, backoff retrier.Backoff) *RegionScanner {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &RegionScanner{
		factory:     factory,
		timeout:     timeout,
		maxAttempts: maxAttempts,
		backoff:     backoff,
		logger:      telemetry.NewLogger("region-scanner"),
		sleep:       sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ScanRegion runs one region's compliance check. Each attempt gets its
// own wall-clock timeout; a timed-out attempt is a regional failure
// reported immediately, not retried. Transient failures are retried
// with backoff until the attempt budget runs out.
func (s *RegionScanner) ScanRegion(ctx context.Context, req Request) types.RegionalScanResult {
	start := time.Now()
	result := types.RegionalScanResult{Region: req.Region}

	s.logger.LogRegionScanStart(ctx, req.Region, req.ResourceTypes)

	checker, err := s.factory(ctx, req.Region)
	if err != nil {
		return s.fail(ctx, result, start, 0, fmt.Errorf("failed to create checker for %s: %w", req.Region, err))
	}

	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		compliance, err := s.runAttempt(ctx, checker, req)
		if err == nil {
			result.Success = true
			result.Resources = compliance.Resources
			result.Violations = compliance.Violations
			result.CompliantCount = compliance.CompliantCount
			result.DurationMs = time.Since(start).Milliseconds()

			s.logger.LogRegionScanComplete(ctx, req.Region,
				len(compliance.Resources), len(compliance.Violations), time.Since(start))
			telemetry.RecordRegionScan(ctx, req.Region, true, float64(result.DurationMs))
			return result
		}

		// An expired timeout is a regional failure, full stop. Retrying
		// the same budget against the same slow region only doubles the
		// damage.
		if errors.Is(err, context.DeadlineExceeded) {
			return s.fail(ctx, result, start, attempt+1,
				fmt.Errorf("scan of %s timed out after %s", req.Region, s.timeout))
		}
		if ctx.Err() != nil {
			return s.fail(ctx, result, start, attempt+1, ctx.Err())
		}

		if !retrier.IsTransient(err) || attempt == s.maxAttempts-1 {
			return s.fail(ctx, result, start, attempt+1, err)
		}

		delay := s.backoff.Delay(attempt)
		s.logger.LogRetry(ctx, req.Region, attempt+1, delay, err)
		telemetry.RecordRetry(ctx, req.Region)
		if sleepErr := s.sleep(ctx, delay); sleepErr != nil {
			return s.fail(ctx, result, start, attempt+1, sleepErr)
		}
	}

	// Unreachable: the loop always returns
	return s.fail(ctx, result, start, s.maxAttempts, errors.New("retry loop exhausted"))
}

func (s *RegionScanner) runAttempt(ctx context.Context, checker RegionalComplianceChecker, req Request) (*RegionalCompliance, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return checker.CheckCompliance(attemptCtx, req)
}

// fail records the failure on the result. Partial resources from the
// failed attempt are discarded: failure means no data, never half data.
func (s *RegionScanner) fail(ctx context.Context, result types.RegionalScanResult, start time.Time, attempts int, err error) types.RegionalScanResult {
	result.Success = false
	result.Resources = nil
	result.Violations = nil
	result.CompliantCount = 0
	result.ErrorMessage = err.Error()
	result.DurationMs = time.Since(start).Milliseconds()

	s.logger.LogRegionScanFailed(ctx, result.Region, err, attempts)
	telemetry.RecordRegionScan(ctx, result.Region, false, float64(result.DurationMs))
	return result
}
