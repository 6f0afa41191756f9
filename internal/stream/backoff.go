package stream

import (
	"math/rand"
	"time"
)

// backoffDelay returns the delay before reconnect attempt n (1-based):
// min(base * 2^(n-1), max), with ±jitter fractional randomization so a herd
// of clients does not reconnect in lockstep.
func backoffDelay(attempt int, base, max time.Duration, jitter float64) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	d := max
	if attempt <= 32 {
		d = base << (attempt - 1)
		if d <= 0 || d > max {
			d = max
		}
	}

	if jitter > 0 {
		spread := (rand.Float64()*2 - 1) * jitter
		d = time.Duration(float64(d) * (1 + spread))
	}
	if d < 0 {
		d = 0
	}
	return d
}
