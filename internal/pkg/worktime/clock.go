package worktime

import (
	"sync"
	"time"
)

// Clock is the only source of "now" for the engine.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// StaticClock returns a fixed instant until it is moved with Set or Advance.
type StaticClock struct {
	mu  sync.RWMutex
	now time.Time
}

func NewStaticClock(now time.Time) *StaticClock {
	return &StaticClock{now: now.UTC()}
}

func (c *StaticClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

func (c *StaticClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now.UTC()
}

func (c *StaticClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
