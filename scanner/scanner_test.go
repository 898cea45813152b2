package scanner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagwarden/tagwarden/retrier"
	"github.com/tagwarden/tagwarden/types"
)

// scriptedChecker returns canned outcomes in order, counting calls
type scriptedChecker struct {
	outcomes []func(ctx context.Context) (*RegionalCompliance, error)
	calls    int
}

func (c *scriptedChecker) CheckCompliance(ctx context.Context, req Request) (*RegionalCompliance, error) {
	i := c.calls
	c.calls++
	if i >= len(c.outcomes) {
		i = len(c.outcomes) - 1
	}
	return c.outcomes[i](ctx)
}

func succeed(compliance *RegionalCompliance) func(context.Context) (*RegionalCompliance, error) {
	return func(context.Context) (*RegionalCompliance, error) { return compliance, nil }
}

func failWith(err error) func(context.Context) (*RegionalCompliance, error) {
	return func(context.Context) (*RegionalCompliance, error) { return nil, err }
}

func blockUntilDeadline(ctx context.Context) (*RegionalCompliance, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func newTestScanner(checker RegionalComplianceChecker, maxAttempts int) *RegionScanner {
	factory := func(ctx context.Context, region string) (RegionalComplianceChecker, error) {
		return checker, nil
	}
	s := NewRegionScanner(factory, 50*time.Millisecond, maxAttempts,
		retrier.Backoff{Base: time.Millisecond, Ceiling: 2 * time.Millisecond})
	s.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return s
}

func TestScanRegion_Success(t *testing.T) {
	checker := &scriptedChecker{outcomes: []func(context.Context) (*RegionalCompliance, error){
		succeed(&RegionalCompliance{
			Resources:      []types.Resource{{ID: "i-1"}, {ID: "i-2"}},
			Violations:     []types.Violation{{ResourceID: "i-2", TagKey: "Team"}},
			CompliantCount: 1,
		}),
	}}

	result := newTestScanner(checker, 3).ScanRegion(context.Background(), Request{Region: "us-east-1"})

	assert.True(t, result.Success)
	assert.Equal(t, "us-east-1", result.Region)
	assert.Len(t, result.Resources, 2)
	assert.Len(t, result.Violations, 1)
	assert.Equal(t, 1, result.CompliantCount)
	assert.Empty(t, result.ErrorMessage)
	assert.Equal(t, 1, checker.calls)
}

func TestScanRegion_EmptyRegionIsSuccess(t *testing.T) {
	checker := &scriptedChecker{outcomes: []func(context.Context) (*RegionalCompliance, error){
		succeed(&RegionalCompliance{}),
	}}

	result := newTestScanner(checker, 3).ScanRegion(context.Background(), Request{Region: "eu-north-1"})

	assert.True(t, result.Success, "an empty region is valid data, not a failure")
	assert.Empty(t, result.Resources)
	assert.Equal(t, 0, result.CompliantCount)
}

func TestScanRegion_RetriesTransientThenSucceeds(t *testing.T) {
	throttle := errors.New("ThrottlingException: Rate exceeded")
	checker := &scriptedChecker{outcomes: []func(context.Context) (*RegionalCompliance, error){
		failWith(throttle),
		failWith(throttle),
		succeed(&RegionalCompliance{CompliantCount: 4}),
	}}

	result := newTestScanner(checker, 3).ScanRegion(context.Background(), Request{Region: "us-west-2"})

	assert.True(t, result.Success)
	assert.Equal(t, 3, checker.calls, "two throttled attempts plus the success")
}

func TestScanRegion_TerminalFailureDoesNotRetry(t *testing.T) {
	checker := &scriptedChecker{outcomes: []func(context.Context) (*RegionalCompliance, error){
		failWith(errors.New("AccessDenied: not allowed")),
	}}

	result := newTestScanner(checker, 3).ScanRegion(context.Background(), Request{Region: "us-east-1"})

	assert.False(t, result.Success)
	assert.Contains(t, result.ErrorMessage, "AccessDenied")
	assert.Equal(t, 1, checker.calls)
}

func TestScanRegion_TransientExhaustsBudget(t *testing.T) {
	checker := &scriptedChecker{outcomes: []func(context.Context) (*RegionalCompliance, error){
		failWith(errors.New("ServiceUnavailable")),
	}}

	result := newTestScanner(checker, 3).ScanRegion(context.Background(), Request{Region: "us-east-1"})

	assert.False(t, result.Success)
	assert.Equal(t, 3, checker.calls)
}

func TestScanRegion_TimeoutFailsImmediately(t *testing.T) {
	checker := &scriptedChecker{outcomes: []func(context.Context) (*RegionalCompliance, error){
		blockUntilDeadline,
	}}

	result := newTestScanner(checker, 3).ScanRegion(context.Background(), Request{Region: "sa-east-1"})

	assert.False(t, result.Success)
	assert.Contains(t, result.ErrorMessage, "timed out")
	assert.Equal(t, 1, checker.calls, "a timeout must not be retried")
}

func TestScanRegion_FailureDiscardsPartialData(t *testing.T) {
	checker := &scriptedChecker{outcomes: []func(context.Context) (*RegionalCompliance, error){
		failWith(errors.New("InvalidParameterValue")),
	}}

	result := newTestScanner(checker, 3).ScanRegion(context.Background(), Request{Region: "us-east-1"})

	assert.False(t, result.Success)
	assert.Nil(t, result.Resources)
	assert.Nil(t, result.Violations)
	assert.Zero(t, result.CompliantCount)
}

func TestScanRegion_FactoryFailure(t *testing.T) {
	factory := func(ctx context.Context, region string) (RegionalComplianceChecker, error) {
		return nil, errors.New("no credentials")
	}
	s := NewRegionScanner(factory, time.Second, 3, retrier.DefaultBackoff())

	result := s.ScanRegion(context.Background(), Request{Region: "us-east-1"})

	assert.False(t, result.Success)
	assert.Contains(t, result.ErrorMessage, "no credentials")
}

func TestScanRegion_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	checker := &scriptedChecker{outcomes: []func(context.Context) (*RegionalCompliance, error){
		func(ctx context.Context) (*RegionalCompliance, error) { return nil, ctx.Err() },
	}}

	result := newTestScanner(checker, 3).ScanRegion(ctx, Request{Region: "us-east-1"})

	assert.False(t, result.Success)
	assert.Equal(t, 1, checker.calls)
}

func TestNewRegionScanner_MinimumOneAttempt(t *testing.T) {
	checker := &scriptedChecker{outcomes: []func(context.Context) (*RegionalCompliance, error){
		succeed(&RegionalCompliance{}),
	}}
	factory := func(ctx context.Context, region string) (RegionalComplianceChecker, error) {
		return checker, nil
	}

	s := NewRegionScanner(factory, time.Second, 0, retrier.DefaultBackoff())
	result := s.ScanRegion(context.Background(), Request{Region: "us-east-1"})

	require.True(t, result.Success)
	assert.Equal(t, 1, checker.calls)
}
