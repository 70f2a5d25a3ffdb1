package query

import (
	"time"

	"github.com/shelfsense/pidash/internal/api"
)

// MaxAttempts caps automatic retries per fetch (initial try included).
const MaxAttempts = 3

// ShouldRetry decides whether attempt+1 is worth making. A 4xx means the
// request itself is wrong and retry cannot help; validation failures and
// feature-unavailable are equally hopeless. Network failures and 5xx are
// retried up to the cap.
func ShouldRetry(attempt int, err error) bool {
	if err == nil {
		return false
	}
	if attempt >= MaxAttempts {
		return false
	}
	return api.IsRetryable(err)
}

// Backoff returns the wait before the given (1-based) retry attempt.
func Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := 250 * time.Millisecond << (attempt - 1)
	if d > 2*time.Second {
		return 2 * time.Second
	}
	return d
}
