package supervise

import "time"

const (
	// respawnBase and maxFailures fix the exponential backoff policy:
	// delays of 3s, 9s, 27s, ... capped at 3^7 = 2187s.
	respawnBase = 3
	maxFailures = 7
)

// Delay returns the respawn delay after n consecutive transport faults.
func Delay(n int) time.Duration {
	return delayIn(n, time.Second)
}

func delayIn(n int, unit time.Duration) time.Duration {
	if n > maxFailures {
		n = maxFailures
	}
	d := unit
	for i := 0; i < n; i++ {
		d *= respawnBase
	}
	return d
}
