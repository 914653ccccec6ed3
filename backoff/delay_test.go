package backoff

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDelayWithoutJitter(t *testing.T) {
	min, max := 100*time.Millisecond, 10*time.Second

	tests := []struct {
		restartCount int
		want         time.Duration
	}{
		{0, 100 * time.Millisecond},
		{1, 200 * time.Millisecond},
		{3, 800 * time.Millisecond},
		{6, 6400 * time.Millisecond},
		{7, max},
		{29, max},
		{30, max},
		{1000, max},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Delay(tt.restartCount, min, max, 0, nil), "restart count %d", tt.restartCount)
	}
}

func TestDelayJitterBounds(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	min, max := 10*time.Millisecond, time.Minute

	for _, rf := range []float64{0.1, 0.5, 1} {
		for n := 0; n < 40; n++ {
			base := Delay(n, min, max, 0, nil)
			got := Delay(n, min, max, rf, rnd)
			assert.GreaterOrEqual(t, got, base)
			if n >= saturationCount {
				assert.Equal(t, max, got)
				continue
			}
			assert.LessOrEqual(t, float64(got), float64(base)*(1+rf))
		}
	}
}

func TestDelayDeterministicWithSeed(t *testing.T) {
	a := Delay(4, time.Second, time.Hour, 0.3, rand.New(rand.NewSource(7)))
	b := Delay(4, time.Second, time.Hour, 0.3, rand.New(rand.NewSource(7)))
	assert.Equal(t, a, b)
}

func TestDelayOverflow(t *testing.T) {
	max := time.Duration(math.MaxInt64)
	assert.Equal(t, max, Delay(29, time.Hour, max, 0.5, rand.New(rand.NewSource(1))))
	assert.Equal(t, max, Delay(29, time.Hour, max, 0, nil))
}

func TestDelayNegativeCount(t *testing.T) {
	assert.Equal(t, time.Second, Delay(-3, time.Second, time.Minute, 0, nil))
}
