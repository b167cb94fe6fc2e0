package engage

import (
	"sync"
	"time"
)

// ReplyLimiter tracks reply timestamps in a bounded rolling buffer and
// enforces a minimum inter-reply interval plus a rolling hourly cap.
// Safe for concurrent use.
type ReplyLimiter struct {
	mu sync.Mutex

	minInterval time.Duration
	hourlyCap   int
	times       []time.Time
}

// NewReplyLimiter creates a limiter with the given interval and hourly cap.
func NewReplyLimiter(minInterval time.Duration, hourlyCap int) *ReplyLimiter {
	return &ReplyLimiter{
		minInterval: minInterval,
		hourlyCap:   hourlyCap,
		times:       make([]time.Time, 0, min(hourlyCap, 64)),
	}
}

// Allow reports whether a reply may be sent at now, with a reason when not.
func (l *ReplyLimiter) Allow(now time.Time) (bool, string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.evict(now)

	if len(l.times) >= l.hourlyCap {
		return false, "cooldown"
	}
	if len(l.times) > 0 {
		last := l.times[len(l.times)-1]
		if now.Sub(last) < l.minInterval {
			return false, "cooldown"
		}
	}
	return true, ""
}

// Record registers a reply sent at now.
func (l *ReplyLimiter) Record(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.evict(now)
	l.times = append(l.times, now)
}

// Count returns the number of replies in the current rolling hour.
func (l *ReplyLimiter) Count(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.evict(now)
	return len(l.times)
}

// evict drops timestamps older than one hour. Caller holds the lock.
func (l *ReplyLimiter) evict(now time.Time) {
	cutoff := now.Add(-time.Hour)
	i := 0
	for i < len(l.times) && l.times[i].Before(cutoff) {
		i++
	}
	if i > 0 {
		l.times = l.times[i:]
	}
}
