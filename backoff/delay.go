package backoff

import (
	"math"
	"time"
)

// saturationCount is the restart count from which the delay is always the max backoff,
// 2^30 times any sensible min backoff no longer fits a time.Duration
const saturationCount = 30

// Random is the jitter source, *rand.Rand satisfies it
type Random interface {
	Float64() float64
}

// Delay returns the backoff before the next restart:
// min(maxBackoff, minBackoff * 2^restartCount) scaled by a jitter in [1, 1+randomFactor).
func Delay(restartCount int, minBackoff, maxBackoff time.Duration, randomFactor float64, rnd Random) time.Duration {
	if restartCount >= saturationCount {
		return maxBackoff
	}
	if restartCount < 0 {
		restartCount = 0
	}

	jitter := 1.0
	if randomFactor > 0 && rnd != nil {
		jitter += rnd.Float64() * randomFactor
	}

	base := math.Min(float64(maxBackoff), float64(minBackoff)*math.Pow(2, float64(restartCount)))
	d := base * jitter
	if math.IsNaN(d) || d >= math.MaxInt64 {
		return maxBackoff
	}
	return time.Duration(d)
}
