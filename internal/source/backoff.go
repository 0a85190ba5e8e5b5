package source

import (
	"math/rand"
	"time"
)

// backoffTime returns a random delay in [0, 2^retries) slots, capped at maximum.
func backoffTime(retries int, slot, maximum time.Duration) time.Duration {
	if slot <= 0 || retries <= 0 {
		return 0
	}
	if retries >= 62 {
		return maximum
	}
	n := rand.Int63n(int64(1) << retries)
	if n > 0 && slot > maximum/time.Duration(n) {
		return maximum
	}
	backoff := time.Duration(n) * slot
	if backoff > maximum {
		backoff = maximum
	}
	return backoff
}
