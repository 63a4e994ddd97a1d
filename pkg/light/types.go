// Package light holds the device model shared by the daemon and its clients:
// power states, actuation modes, alarms and the status snapshot.
package light

import (
	"fmt"
	"time"

	"github.com/jmylchreest/sunrised/internal/config"
	"github.com/jmylchreest/sunrised/internal/errors"
)

// Power is the observable power state of the light. The numeric values are part of
// the wire format (status JSON and push messages).
type Power int

const (
	PowerOff        Power = 0
	PowerOn         Power = 1
	PowerTurningOff Power = 2
	PowerTurningOn  Power = 3
)

func (p Power) String() string {
	switch p {
	case PowerOff:
		return "off"
	case PowerOn:
		return "on"
	case PowerTurningOff:
		return "turning_off"
	case PowerTurningOn:
		return "turning_on"
	default:
		return fmt.Sprintf("power(%d)", int(p))
	}
}

// Mode is an actuation request accepted by updateLightState.
type Mode int

const (
	ModeOff        Mode = 0
	ModeOn         Mode = 1
	ModeAnimateOff Mode = 2
	ModeAnimateOn  Mode = 3
)

// ParseMode converts the wire integer into a Mode.
func ParseMode(v int) (Mode, error) {
	m := Mode(v)
	switch m {
	case ModeOff, ModeOn, ModeAnimateOff, ModeAnimateOn:
		return m, nil
	default:
		return 0, errors.InvalidParameterf("mode must be 0-3, got %d", v)
	}
}

func (m Mode) String() string {
	switch m {
	case ModeOff:
		return "off"
	case ModeOn:
		return "on"
	case ModeAnimateOff:
		return "animate_off"
	case ModeAnimateOn:
		return "animate_on"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Animated reports whether the mode ramps over a duration.
func (m Mode) Animated() bool {
	return m == ModeAnimateOff || m == ModeAnimateOn
}

// Action is what an alarm does when it fires.
type Action int

const (
	ActionPowerOff Action = 0
	ActionPowerOn  Action = 1
)

// ParseAction converts the wire `power` parameter into an Action.
func ParseAction(v int) (Action, error) {
	switch Action(v) {
	case ActionPowerOff, ActionPowerOn:
		return Action(v), nil
	default:
		return 0, errors.InvalidParameterf("power must be 0 or 1, got %d", v)
	}
}

// Mode returns the animated mode an alarm of this kind applies.
func (a Action) Mode() Mode {
	if a == ActionPowerOn {
		return ModeAnimateOn
	}
	return ModeAnimateOff
}

func (a Action) String() string {
	if a == ActionPowerOn {
		return "sunrise"
	}
	return "sunset"
}

// TimeOfDay is a wall-clock minute with no date component.
type TimeOfDay struct {
	Hour   int `json:"hh" yaml:"hh"`
	Minute int `json:"mm" yaml:"mm"`
}

// NewTimeOfDay range-checks hour and minute.
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 {
		return TimeOfDay{}, errors.InvalidParameterf("hour must be 0-23, got %d", hour)
	}
	if minute < 0 || minute > 59 {
		return TimeOfDay{}, errors.InvalidParameterf("minute must be 0-59, got %d", minute)
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// ParseTimeOfDay parses "HH:MM".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, errors.InvalidParameterf("time %q is not HH:MM", s)
	}
	return NewTimeOfDay(t.Hour(), t.Minute())
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Next returns the first instant at or after the start of from's minute whose
// wall clock (in from's location) matches t.
func (t TimeOfDay) Next(from time.Time) time.Time {
	minute := from.Truncate(time.Minute)
	candidate := time.Date(minute.Year(), minute.Month(), minute.Day(), t.Hour, t.Minute, 0, 0, from.Location())
	if candidate.Before(minute) {
		candidate = time.Date(minute.Year(), minute.Month(), minute.Day()+1, t.Hour, t.Minute, 0, 0, from.Location())
	}
	return candidate
}

// Alarm is a one-shot, time-of-day triggered power change.
type Alarm struct {
	Trigger  TimeOfDay `json:"trigger" yaml:"trigger"`
	Action   Action    `json:"power" yaml:"power"`
	Duration int       `json:"duration" yaml:"duration"` // seconds
}

// NewAlarm validates the alarm against maxDuration seconds.
func NewAlarm(action Action, trigger TimeOfDay, duration, maxDuration int) (Alarm, error) {
	if _, err := ParseAction(int(action)); err != nil {
		return Alarm{}, err
	}
	if _, err := NewTimeOfDay(trigger.Hour, trigger.Minute); err != nil {
		return Alarm{}, err
	}
	if err := ValidateDuration(duration, maxDuration); err != nil {
		return Alarm{}, err
	}
	return Alarm{Trigger: trigger, Action: action, Duration: duration}, nil
}

// ValidateDuration checks an animation duration in seconds.
func ValidateDuration(duration, maxDuration int) error {
	if maxDuration <= 0 {
		maxDuration = config.MaxAlarmDuration
	}
	if duration < config.MinAlarmDuration || duration > maxDuration {
		return errors.InvalidParameterf("duration must be %d-%d seconds, got %d",
			config.MinAlarmDuration, maxDuration, duration)
	}
	return nil
}

// Status is the device snapshot served to polling clients.
type Status struct {
	Version    string `json:"version" yaml:"version"`
	Brightness int    `json:"brightness" yaml:"brightness"`
	Timestamp  int64  `json:"timestamp" yaml:"timestamp"`
	Power      Power  `json:"power" yaml:"power"`
}
