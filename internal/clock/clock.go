// Package clock holds the device's notion of wall time. The time is set by an
// external sync call and advanced from a monotonic source between syncs; it is
// never persisted, so every boot starts unsynced.
package clock

import (
	"sync"
	"time"
)

// Source returns a reading from a monotonic time source.
type Source func() time.Time

// Clock is owned by the engine loop and is not safe for concurrent use.
type Clock struct {
	now    Source
	loc    *time.Location
	synced bool
	base   int64     // epoch seconds at the last sync
	anchor time.Time // monotonic reading taken at the last sync
}

// New creates an unsynced clock reading elapsed time from now.
// Wall-clock values are reported in loc (UTC when nil).
func New(now Source, loc *time.Location) *Clock {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Clock{now: now, loc: loc}
}

// Sync sets the authoritative time. The jump is applied immediately.
func (c *Clock) Sync(epochSeconds int64) {
	c.base = epochSeconds
	c.anchor = c.now()
	c.synced = true
}

// Synced reports whether Sync has been called since boot.
func (c *Clock) Synced() bool {
	return c.synced
}

// Now returns the current epoch estimate and whether the clock is synced.
// An unsynced clock reports 0.
func (c *Clock) Now() (int64, bool) {
	if !c.synced {
		return 0, false
	}
	return c.base + int64(c.now().Sub(c.anchor)/time.Second), true
}

// Time is Now as a time.Time in the clock's location.
func (c *Clock) Time() (time.Time, bool) {
	epoch, ok := c.Now()
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(epoch, 0).In(c.loc), true
}

// Monotonic returns the raw reading from the underlying source. Animations are
// timed against it so a resync never stretches or cuts a ramp.
func (c *Clock) Monotonic() time.Time {
	return c.now()
}

// Location returns the zone time-of-day triggers are evaluated in.
func (c *Clock) Location() *time.Location {
	return c.loc
}

// Manual is a hand-advanced Source for tests and simulations.
type Manual struct {
	mu sync.Mutex
	t  time.Time
}

// NewManual starts a manual source at start.
func NewManual(start time.Time) *Manual {
	return &Manual{t: start}
}

// Now returns the current manual reading.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.t
}

// Advance moves the reading forward by d.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.t = m.t.Add(d)
	m.mu.Unlock()
}

// LoadLocation resolves a zone name, falling back to UTC.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC, err
	}
	return loc, nil
}
