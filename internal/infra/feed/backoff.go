package feed

import (
	"math"
	"time"
)

const (
	baseDelay  = 1 * time.Second
	maxDelay   = 60 * time.Second
	maxRetries = 10
)

// CalculateBackoff returns the delay before reconnect attempt retry (0-based):
// doubling from one second, capped at one minute.
func CalculateBackoff(retry int) time.Duration {
	if retry < 0 {
		retry = 0
	}
	if retry >= 6 {
		return maxDelay
	}
	delay := baseDelay * time.Duration(math.Pow(2, float64(retry)))
	if delay > maxDelay {
		delay = maxDelay
	}
	return delay
}
