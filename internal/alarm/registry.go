// Package alarm keeps the pending sunrise/sunset alarms. The registry holds at
// most one alarm per action; it is volatile and owned by the engine loop.
package alarm

import (
	"sort"
	"time"

	"github.com/jmylchreest/sunrised/internal/config"
	"github.com/jmylchreest/sunrised/pkg/light"
)

type entry struct {
	alarm light.Alarm
	due   time.Time // zero until armed against a synced clock
}

func (e *entry) armed() bool {
	return !e.due.IsZero()
}

// Registry is not safe for concurrent use.
type Registry struct {
	entries     map[light.Action]*entry
	maxDuration int
}

// NewRegistry creates an empty registry. maxDuration caps alarm durations in seconds.
func NewRegistry(maxDuration int) *Registry {
	return &Registry{
		entries:     make(map[light.Action]*entry),
		maxDuration: config.ValidateMaxAlarmDuration(maxDuration),
	}
}

// Schedule validates and stores an alarm, replacing any pending alarm of the same action.
// The new alarm is unarmed until the next Arm call.
func (r *Registry) Schedule(action light.Action, trigger light.TimeOfDay, durationSeconds int) (light.Alarm, error) {
	a, err := light.NewAlarm(action, trigger, durationSeconds, r.maxDuration)
	if err != nil {
		return light.Alarm{}, err
	}
	r.entries[action] = &entry{alarm: a}
	return a, nil
}

// CancelAll removes every pending alarm and returns how many were dropped.
func (r *Registry) CancelAll() int {
	n := len(r.entries)
	clear(r.entries)
	return n
}

// Len returns the number of pending alarms.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Pending returns a copy of the pending alarms ordered by action.
func (r *Registry) Pending() []light.Alarm {
	out := make([]light.Alarm, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.alarm)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Action < out[j].Action })
	return out
}

// Arm computes the due instant of every unarmed alarm relative to now.
// A trigger equal to now's minute is due immediately.
func (r *Registry) Arm(now time.Time) {
	for _, e := range r.entries {
		if !e.armed() {
			e.due = e.alarm.Trigger.Next(now)
		}
	}
}

// Rebase handles a clock jump from prev to now. Alarms already due at prev
// fire on the next evaluation. On a forward jump the remaining due instants
// are kept, so alarms skipped over also fire once on the next evaluation. On a
// backward jump they are re-armed against the new time.
func (r *Registry) Rebase(prev, now time.Time) {
	for _, e := range r.entries {
		if !e.armed() {
			continue
		}
		switch {
		case !e.due.After(prev):
			e.due = now
		case now.Before(prev):
			e.due = e.alarm.Trigger.Next(now)
		}
	}
}

// Due removes and returns every armed alarm whose due instant is at or before now,
// earliest first. Alarms skipped over by a forward jump are returned once.
func (r *Registry) Due(now time.Time) []light.Alarm {
	type fired struct {
		at    time.Time
		alarm light.Alarm
	}
	var due []fired
	for action, e := range r.entries {
		if e.armed() && !e.due.After(now) {
			due = append(due, fired{at: e.due, alarm: e.alarm})
			delete(r.entries, action)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].at.Equal(due[j].at) {
			return due[i].alarm.Action < due[j].alarm.Action
		}
		return due[i].at.Before(due[j].at)
	})

	out := make([]light.Alarm, len(due))
	for i, f := range due {
		out[i] = f.alarm
	}
	return out
}
