package httpx

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// Backoff computes exponential retry delays with optional jitter.
type Backoff struct {
	Base   time.Duration
	Max    time.Duration
	Jitter float64

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewBackoff(base, max time.Duration, jitter float64) *Backoff {
	if base <= 0 {
		base = 50 * time.Millisecond
	}
	if max < base {
		max = base
	}
	return &Backoff{
		Base:   base,
		Max:    max,
		Jitter: math.Max(0, math.Min(jitter, 1)),
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Delay returns the wait before retry number attempt (0-indexed).
func (b *Backoff) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	delay := b.Max
	if attempt < 31 {
		if d := b.Base << uint(attempt); d > 0 && d < b.Max {
			delay = d
		}
	}
	if b.Jitter == 0 {
		return delay
	}

	b.mu.Lock()
	factor := 1 + (b.rnd.Float64()*2-1)*b.Jitter
	b.mu.Unlock()
	return time.Duration(float64(delay) * factor)
}
