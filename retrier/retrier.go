// Package retrier classifies failures as transient or terminal and
// computes backoff delays between retry attempts.
package retrier

import (
	"math"
	"math/rand"
	"strings"
	"time"
)

// Substrings that mark a failure as worth retrying. Throttling and
// temporary unavailability clear up on their own; nothing else does.
var transientPatterns = []string{
	"throttl",
	"rate exceeded",
	"ratelimit",
	"rate limit",
	"too many requests",
	"service unavailable",
	"serviceunavailable",
	"internal error",
	"internalerror",
	"internal server error",
	"request timeout",
	"connection reset",
	"slow down",
}

// Substrings that mark a failure as terminal. Retrying a permission or
// parameter error burns the retry budget and hides the real problem.
var terminalPatterns = []string{
	"access denied",
	"accessdenied",
	"unauthorized",
	"not authorized",
	"authorization",
	"forbidden",
	"invalid parameter",
	"invalidparameter",
	"validation",
	"malformed",
}

// IsTransient reports whether the error is worth retrying. Terminal
// patterns win over transient ones, and unrecognized errors are terminal:
// failing fast beats retrying indefinitely on conditions we cannot name.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())

	for _, p := range terminalPatterns {
		if strings.Contains(msg, p) {
			return false
		}
	}
	for _, p := range transientPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// Backoff computes exponential delays with bounded jitter
type Backoff struct {
	Base    time.Duration // delay for attempt 0
	Ceiling time.Duration // hard cap before jitter
	Jitter  float64       // max jitter as a fraction of the computed delay
}

// DefaultBackoff matches the scan retry defaults: 1s base, 30s ceiling,
// up to 25% jitter so concurrently-retrying regions spread out.
func DefaultBackoff() Backoff {
	return Backoff{Base: time.Second, Ceiling: 30 * time.Second, Jitter: 0.25}
}

// Delay returns the wait before retry number attempt (0-based):
// base * 2^attempt capped at Ceiling, plus random jitter in
// [0, Jitter * delay]. Never exceeds Ceiling * (1 + Jitter).
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	delay := float64(b.Base) * math.Pow(2, float64(attempt))
	if ceiling := float64(b.Ceiling); delay > ceiling {
		delay = ceiling
	}

	if b.Jitter > 0 {
		delay += rand.Float64() * b.Jitter * delay // #nosec G404 -- jitter, not crypto
	}
	return time.Duration(delay)
}
