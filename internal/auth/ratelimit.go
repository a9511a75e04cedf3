package auth

import (
	"context"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

type window struct {
	start time.Time
	count int
}

// RateLimiter allows limit requests per user in each fixed window.
// A limit of zero disables limiting.
type RateLimiter struct {
	limit   int
	window  time.Duration
	windows *xsync.MapOf[int64, window]
	now     func() time.Time
}

func NewRateLimiter(limit int, every time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  every,
		windows: xsync.NewMapOf[int64, window](),
		now:     time.Now,
	}
}

// Allow counts a request for userID. When the window is used up it returns
// false and the time left until the window resets.
func (rl *RateLimiter) Allow(userID int64) (bool, time.Duration) {
	if rl == nil || rl.limit <= 0 {
		return true, 0
	}

	now := rl.now()
	current, _ := rl.windows.Compute(userID, func(w window, loaded bool) (window, bool) {
		if !loaded || now.Sub(w.start) >= rl.window {
			return window{start: now, count: 1}, false
		}
		w.count++
		return w, false
	})

	if current.count > rl.limit {
		return false, current.start.Add(rl.window).Sub(now)
	}
	return true, 0
}

// Sweep drops windows that have expired.
func (rl *RateLimiter) Sweep() {
	now := rl.now()
	rl.windows.Range(func(userID int64, w window) bool {
		if now.Sub(w.start) >= rl.window {
			rl.windows.Delete(userID)
		}
		return true
	})
}

// Run sweeps expired windows every interval until ctx is done.
func (rl *RateLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.Sweep()
		}
	}
}
