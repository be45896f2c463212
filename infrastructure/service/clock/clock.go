package clock

import (
	"sync"
	"time"
)

// UTC reads the wall clock in UTC. It is the only clock production code uses.
type UTC struct{}

func NewUTC() UTC {
	return UTC{}
}

func (UTC) Now() time.Time {
	return time.Now().UTC()
}

// Fixed is a manually driven clock for tests and tooling.
type Fixed struct {
	mu  sync.RWMutex
	now time.Time
}

func NewFixed(now time.Time) *Fixed {
	return &Fixed{now: now.UTC()}
}

func (f *Fixed) Now() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.now
}

func (f *Fixed) Set(now time.Time) {
	f.mu.Lock()
	f.now = now.UTC()
	f.mu.Unlock()
}

func (f *Fixed) Advance(d time.Duration) time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
	return f.now
}
