package service

import (
	"sync"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Throttle bounds how often the extraction collaborator may be invoked per
// user. In-process only: a multi-instance deployment needs an external
// keyed counter instead.
type Throttle struct {
	mu       sync.Mutex
	limiters map[uuid.UUID]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewThrottle allows ratePerMinute extraction calls per user with the
// given burst.
func NewThrottle(ratePerMinute float64, burst int) *Throttle {
	return &Throttle{
		limiters: make(map[uuid.UUID]*rate.Limiter),
		limit:    rate.Limit(ratePerMinute / 60),
		burst:    burst,
	}
}

// Allow reports whether the user may make another extraction call now.
func (t *Throttle) Allow(userID uuid.UUID) bool {
	t.mu.Lock()
	limiter, ok := t.limiters[userID]
	if !ok {
		limiter = rate.NewLimiter(t.limit, t.burst)
		t.limiters[userID] = limiter
	}
	t.mu.Unlock()
	return limiter.Allow()
}
