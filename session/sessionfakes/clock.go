package sessionfakes

import (
	"sort"
	"sync"
	"time"

	"github.com/jrsteele09/go-auth-console/session"
)

var _ session.Clock = (*Clock)(nil)

// Clock is a manually advanced session.Clock.
type Clock struct {
	lock   sync.Mutex
	now    time.Time
	timers []*timer
}

type timer struct {
	clock    *Clock
	deadline time.Time
	fn       func()
	stopped  bool
	fired    bool
}

func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

func (c *Clock) Now() time.Time {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.now
}

func (c *Clock) AfterFunc(d time.Duration, f func()) session.Timer {
	c.lock.Lock()
	defer c.lock.Unlock()
	t := &timer{clock: c, deadline: c.now.Add(d), fn: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward and runs every timer that falls due, in
// deadline order. Timer funcs run on the calling goroutine.
func (c *Clock) Advance(d time.Duration) {
	c.lock.Lock()
	c.now = c.now.Add(d)
	var due []*timer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.deadline.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.lock.Unlock()

	sort.Slice(due, func(i, j int) bool { return due[i].deadline.Before(due[j].deadline) })
	for _, t := range due {
		t.fn()
	}
}

// Pending returns the deadlines of timers that are neither stopped nor fired.
func (c *Clock) Pending() []time.Time {
	c.lock.Lock()
	defer c.lock.Unlock()
	var deadlines []time.Time
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			deadlines = append(deadlines, t.deadline)
		}
	}
	return deadlines
}

func (t *timer) Stop() bool {
	t.clock.lock.Lock()
	defer t.clock.lock.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}
