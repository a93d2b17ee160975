package backup

import "sync"

// Guard is a single-slot lock ensuring at most one backup-or-restore job runs
// at a time. The Go runtime schedules handlers preemptively, so the
// check-and-set must be a real critical section, not just a synchronous code
// region.
type Guard struct {
	mu    sync.Mutex
	label string
}

// NewGuard returns an idle Guard. Each service owns exactly one; tests may
// instantiate as many independent guards as they need.
func NewGuard() *Guard {
	return &Guard{}
}

// TryAcquire attempts to occupy the slot with label. On success it returns
// (label, true). If another job holds the slot it returns the occupying label
// and false, leaving the slot untouched.
func (g *Guard) TryAcquire(label string) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.label != "" {
		return g.label, false
	}
	g.label = label
	return label, true
}

// Release resets the slot to idle. It must run on every exit path of a guarded
// job, success or failure, to prevent permanent lock-out.
func (g *Guard) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.label = ""
}

// Current returns the occupying label, or "" when idle.
func (g *Guard) Current() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.label
}
