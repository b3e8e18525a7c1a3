// Package notify is a process wide queue of transient user messages. Each
// message removes itself after its duration unless dismissed first.
package notify

import (
	"sync"
	"time"

	"github.com/idilsaglam/todoapp/internal/model"
)

// DefaultDuration is how long a notification stays visible.
const DefaultDuration = 3000 * time.Millisecond

// ID identifies a notification within a Channel.
type ID uint64

type Notification struct {
	ID        ID
	Kind      model.NotificationKind
	Message   string
	Duration  time.Duration
	CreatedAt time.Time
}

// Timer is a pending scheduled call.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// RealScheduler schedules on wall clock time.
var RealScheduler Scheduler = realScheduler{}

// Channel owns the visible notifications and their dismissal timers.
// It is safe for concurrent use.
type Channel struct {
	mu       sync.Mutex
	next     ID
	visible  []Notification
	timers   map[ID]Timer
	closed   bool
	duration time.Duration
	sched    Scheduler
	now      func() time.Time
	onChange func()
}

type Option func(*Channel)

// WithDuration sets the default lifetime. Zero or negative means sticky.
func WithDuration(d time.Duration) Option { return func(c *Channel) { c.duration = d } }

func WithScheduler(s Scheduler) Option { return func(c *Channel) { c.sched = s } }

func WithClock(now func() time.Time) Option { return func(c *Channel) { c.now = now } }

func NewChannel(opts ...Option) *Channel {
	c := &Channel{
		timers:   map[ID]Timer{},
		duration: DefaultDuration,
		sched:    RealScheduler,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnChange registers f to run after every change of the visible set.
// f is called without the channel lock held.
func (c *Channel) OnChange(f func()) {
	c.mu.Lock()
	c.onChange = f
	c.mu.Unlock()
}

// Show queues a notification with the default duration.
func (c *Channel) Show(kind model.NotificationKind, msg string) ID {
	return c.ShowFor(kind, msg, c.defaultDuration())
}

func (c *Channel) Success(msg string) ID { return c.Show(model.NotifySuccess, msg) }
func (c *Channel) Error(msg string) ID   { return c.Show(model.NotifyError, msg) }
func (c *Channel) Info(msg string) ID    { return c.Show(model.NotifyInfo, msg) }

// ShowFor queues a notification that expires after d. A closed channel
// drops the message and returns 0. Unknown kinds are shown as info.
func (c *Channel) ShowFor(kind model.NotificationKind, msg string, d time.Duration) ID {
	if !kind.Valid() {
		kind = model.NotifyInfo
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return 0
	}
	c.next++
	id := c.next
	c.visible = append(c.visible, Notification{
		ID:        id,
		Kind:      kind,
		Message:   msg,
		Duration:  d,
		CreatedAt: c.now(),
	})
	if d > 0 {
		c.timers[id] = c.sched.AfterFunc(d, func() { c.expire(id) })
	}
	cb := c.onChange
	c.mu.Unlock()

	if cb != nil {
		cb()
	}
	return id
}

func (c *Channel) expire(id ID) {
	c.mu.Lock()
	// A timer that lost the race with Dismiss or Close finds nothing.
	if _, ok := c.timers[id]; !ok {
		c.mu.Unlock()
		return
	}
	delete(c.timers, id)
	removed := c.remove(id)
	cb := c.onChange
	c.mu.Unlock()

	if removed && cb != nil {
		cb()
	}
}

// Dismiss removes a notification before it expires. It reports whether
// anything was removed; dismissing twice is a no-op.
func (c *Channel) Dismiss(id ID) bool {
	c.mu.Lock()
	if t, ok := c.timers[id]; ok {
		t.Stop()
		delete(c.timers, id)
	}
	removed := c.remove(id)
	cb := c.onChange
	c.mu.Unlock()

	if removed && cb != nil {
		cb()
	}
	return removed
}

// DismissLatest removes the most recent notification, if any.
func (c *Channel) DismissLatest() bool {
	c.mu.Lock()
	if len(c.visible) == 0 {
		c.mu.Unlock()
		return false
	}
	id := c.visible[len(c.visible)-1].ID
	c.mu.Unlock()
	return c.Dismiss(id)
}

// Visible returns the current notifications, oldest first.
func (c *Channel) Visible() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notification, len(c.visible))
	copy(out, c.visible)
	return out
}

// Pending is the number of dismissal timers still scheduled.
func (c *Channel) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// Close cancels every pending dismissal and drops all notifications.
func (c *Channel) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	for id, t := range c.timers {
		t.Stop()
		delete(c.timers, id)
	}
	hadAny := len(c.visible) > 0
	c.visible = nil
	cb := c.onChange
	c.mu.Unlock()

	if hadAny && cb != nil {
		cb()
	}
}

func (c *Channel) defaultDuration() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.duration
}

// remove must be called with c.mu held.
func (c *Channel) remove(id ID) bool {
	for i, n := range c.visible {
		if n.ID == id {
			c.visible = append(c.visible[:i], c.visible[i+1:]...)
			return true
		}
	}
	return false
}
