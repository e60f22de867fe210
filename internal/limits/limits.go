package limits

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Decision explains whether a run may start.
type Decision struct {
	// Allowed indicates the run may start.
	Allowed bool
	// Reason explains a refusal.
	Reason string
}

// Guard limits LAStools runs by lifetime count and per-minute rate.
// A nil Guard allows everything.
type Guard struct {
	mu       sync.Mutex
	maxTotal int
	count    int
	limiter  *rate.Limiter
}

// New creates a Guard. Zero disables the corresponding limit.
func New(maxTotal, ratePerMinute int) *Guard {
	g := &Guard{maxTotal: maxTotal}
	if ratePerMinute > 0 {
		g.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(ratePerMinute)), ratePerMinute)
	}
	return g
}

// Allow reserves one run if the limits permit it.
func (g *Guard) Allow() Decision {
	if g == nil {
		return Decision{Allowed: true}
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.maxTotal > 0 && g.count >= g.maxTotal {
		return Decision{Allowed: false, Reason: "maximum number of runs exceeded"}
	}
	if g.limiter != nil && !g.limiter.Allow() {
		return Decision{Allowed: false, Reason: "rate limit exceeded"}
	}
	g.count++
	return Decision{Allowed: true}
}

// Count returns the number of runs allowed so far.
func (g *Guard) Count() int {
	if g == nil {
		return 0
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.count
}
