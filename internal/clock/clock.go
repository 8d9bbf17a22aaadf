// Package clock abstracts the wall clock and the calendar day used for
// daily recommendation batches.
package clock

import (
	"sync"
	"time"
)

// DayLayout is the format of day keys (YYYY-MM-DD).
const DayLayout = "2006-01-02"

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// System is the real wall clock.
type System struct{}

// Now implements Clock.
func (System) Now() time.Time { return time.Now() }

// Day returns the calendar day of t in loc as a YYYY-MM-DD key.
func Day(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DayLayout)
}

// Today is Day(c.Now(), loc).
func Today(c Clock, loc *time.Location) string {
	return Day(c.Now(), loc)
}

// DaysAgo returns the day key n days before c's current day in loc.
func DaysAgo(c Clock, loc *time.Location, n int) string {
	if loc == nil {
		loc = time.UTC
	}
	return c.Now().In(loc).AddDate(0, 0, -n).Format(DayLayout)
}

// ParseDay parses a YYYY-MM-DD key as midnight in loc.
func ParseDay(day string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(DayLayout, day, loc)
}

// Fake is a manually driven Clock for tests.
type Fake struct {
	mu  sync.Mutex
	now time.Time
}

// NewFake returns a Fake set to t.
func NewFake(t time.Time) *Fake {
	return &Fake{now: t}
}

// Now implements Clock.
func (c *Fake) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *Fake) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set moves the clock to t.
func (c *Fake) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
