package retrier

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"throttling", errors.New("Throttling: Rate exceeded"), true},
		{"throttled exception", errors.New("ThrottlingException: rate limit hit"), true},
		{"too many requests", errors.New("429 Too Many Requests"), true},
		{"service unavailable", errors.New("ServiceUnavailable: try again"), true},
		{"internal error", errors.New("InternalError: something broke upstream"), true},
		{"slow down", errors.New("503 Slow Down"), true},
		{"access denied", errors.New("AccessDenied: not allowed"), false},
		{"unauthorized", errors.New("UnauthorizedOperation"), false},
		{"invalid parameter", errors.New("InvalidParameterValue: bad input"), false},
		{"unknown defaults terminal", errors.New("something completely novel"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestIsTransient_TerminalWinsOverTransient(t *testing.T) {
	// A terminal marker anywhere in the message disqualifies the retry
	err := errors.New("access denied while handling throttling state")
	assert.False(t, IsTransient(err))
}

func TestIsTransient_WrappedError(t *testing.T) {
	err := fmt.Errorf("scan us-east-1: %w", errors.New("Throttling: Rate exceeded"))
	assert.True(t, IsTransient(err))
}

func TestBackoff_Delay(t *testing.T) {
	b := Backoff{Base: time.Second, Ceiling: 30 * time.Second, Jitter: 0.25}

	for attempt := 0; attempt < 10; attempt++ {
		d := b.Delay(attempt)

		expected := time.Second << uint(attempt)
		if expected > 30*time.Second {
			expected = 30 * time.Second
		}
		assert.GreaterOrEqual(t, d, expected, "attempt %d below floor", attempt)
		assert.LessOrEqual(t, float64(d), float64(expected)*1.25, "attempt %d above jitter bound", attempt)
	}
}

func TestBackoff_DelayRespectsCeiling(t *testing.T) {
	b := Backoff{Base: time.Second, Ceiling: 5 * time.Second, Jitter: 0.25}
	d := b.Delay(20)
	assert.LessOrEqual(t, float64(d), float64(5*time.Second)*1.25)
}

func TestBackoff_NegativeAttempt(t *testing.T) {
	b := Backoff{Base: time.Second, Ceiling: 30 * time.Second}
	assert.Equal(t, time.Second, b.Delay(-1))
}

func TestBackoff_NoJitterIsDeterministic(t *testing.T) {
	b := Backoff{Base: 100 * time.Millisecond, Ceiling: time.Second}
	assert.Equal(t, 100*time.Millisecond, b.Delay(0))
	assert.Equal(t, 200*time.Millisecond, b.Delay(1))
	assert.Equal(t, 400*time.Millisecond, b.Delay(2))
	assert.Equal(t, time.Second, b.Delay(5))
}
