package engine

import (
	"fmt"

	"github.com/jmylchreest/sunrised/internal/config"
	"github.com/jmylchreest/sunrised/internal/errors"
	"github.com/jmylchreest/sunrised/pkg/light"
)

// Command is a queued mutation applied by the engine loop between ticks.
// Commands are built with the New* constructors, which reject malformed input
// before anything is queued.
type Command interface {
	apply(e *Engine) error
	fmt.Stringer
}

type syncTime struct {
	epoch int64
}

// NewSyncTime sets the device clock to epochSeconds.
func NewSyncTime(epochSeconds int64) (Command, error) {
	if epochSeconds < 0 {
		return nil, errors.InvalidParameterf("timestamp must not be negative, got %d", epochSeconds)
	}
	if epochSeconds > config.MaxTimestamp {
		return nil, errors.InvalidParameterf("timestamp must be at most %d, got %d", int64(config.MaxTimestamp), epochSeconds)
	}
	return syncTime{epoch: epochSeconds}, nil
}

func (c syncTime) String() string { return fmt.Sprintf("sync(%d)", c.epoch) }

func (c syncTime) apply(e *Engine) error {
	prev, wasSynced := e.clock.Time()
	e.clock.Sync(c.epoch)
	now, _ := e.clock.Time()

	if wasSynced {
		e.registry.Rebase(prev, now)
		if d := now.Sub(prev); d > e.tickInterval || d < -e.tickInterval {
			e.logger.Info("engine: clock jumped", "from", prev.Unix(), "to", now.Unix())
		}
	} else {
		e.logger.Info("engine: clock synchronized", "time", now.Format("2006-01-02T15:04:05Z07:00"))
	}
	e.unsyncedLogged = false
	e.publishTimestamp(c.epoch)
	return nil
}

type setLight struct {
	mode     light.Mode
	duration int
}

// NewSetLight applies mode to the light. duration (seconds) only matters for
// the animated modes; 0 selects the default animation length.
func NewSetLight(mode, durationSeconds int) (Command, error) {
	m, err := light.ParseMode(mode)
	if err != nil {
		return nil, err
	}
	if m.Animated() && durationSeconds < 0 {
		return nil, errors.InvalidParameterf("duration must not be negative, got %d", durationSeconds)
	}
	return setLight{mode: m, duration: durationSeconds}, nil
}

func (c setLight) String() string { return fmt.Sprintf("light(%s, %ds)", c.mode, c.duration) }

func (c setLight) apply(e *Engine) error {
	return e.actuator.Apply(c.mode, c.duration, e.clock.Monotonic())
}

type scheduleAlarm struct {
	action   light.Action
	trigger  light.TimeOfDay
	duration int
}

// NewScheduleAlarm schedules a one-shot sunrise (power=1) or sunset (power=0)
// at hh:mm. It replaces any pending alarm with the same power value.
func NewScheduleAlarm(power, hh, mm, durationSeconds int) (Command, error) {
	action, err := light.ParseAction(power)
	if err != nil {
		return nil, err
	}
	trigger, err := light.NewTimeOfDay(hh, mm)
	if err != nil {
		return nil, err
	}
	return scheduleAlarm{action: action, trigger: trigger, duration: durationSeconds}, nil
}

func (c scheduleAlarm) String() string {
	return fmt.Sprintf("schedule(%s at %s, %ds)", c.action, c.trigger, c.duration)
}

func (c scheduleAlarm) apply(e *Engine) error {
	a, err := e.registry.Schedule(c.action, c.trigger, c.duration)
	if err != nil {
		return err
	}
	e.logger.Info("engine: alarm scheduled", "action", a.Action.String(), "trigger", a.Trigger.String(), "duration", a.Duration)
	e.publishAlarms()
	return nil
}

type cancelAlarms struct{}

// CancelAlarms removes every pending alarm. In-flight animations are untouched.
func CancelAlarms() Command {
	return cancelAlarms{}
}

func (cancelAlarms) String() string { return "cancel" }

func (cancelAlarms) apply(e *Engine) error {
	n := e.registry.CancelAll()
	e.logger.Info("engine: alarms cancelled", "count", n)
	e.publishAlarms()
	return nil
}
