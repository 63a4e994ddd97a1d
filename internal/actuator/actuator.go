// Package actuator applies power modes to the light output and runs the
// linear fade animations behind sunrise and sunset.
package actuator

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jmylchreest/sunrised/internal/config"
	"github.com/jmylchreest/sunrised/internal/errors"
	"github.com/jmylchreest/sunrised/pkg/light"
)

// NotifyFunc receives every status field that changed.
type NotifyFunc func(light.PropertyValue)

type animation struct {
	mode     light.Mode
	start    time.Time
	duration time.Duration
	from, to int
}

// Actuator is owned by the engine loop and is not safe for concurrent use.
type Actuator struct {
	out         Output
	notify      NotifyFunc
	logger      *slog.Logger
	maxDuration int

	power      light.Power
	brightness int
	anim       *animation
}

// New creates an actuator in the boot state: power off, brightness 0.
// maxDuration caps animated durations in seconds.
func New(out Output, notify NotifyFunc, maxDuration int, logger *slog.Logger) *Actuator {
	if logger == nil {
		logger = slog.Default()
	}
	if notify == nil {
		notify = func(light.PropertyValue) {}
	}
	return &Actuator{
		out:         out,
		notify:      notify,
		logger:      logger,
		maxDuration: config.ValidateMaxAlarmDuration(maxDuration),
		power:       light.PowerOff,
	}
}

// Power returns the current power state.
func (a *Actuator) Power() light.Power { return a.power }

// Brightness returns the current output level.
func (a *Actuator) Brightness() int { return a.brightness }

// Animating reports whether a fade is in flight.
func (a *Actuator) Animating() bool { return a.anim != nil }

// Validate checks a mode/duration pair without applying it.
func (a *Actuator) Validate(mode light.Mode, durationSeconds int) error {
	if _, err := light.ParseMode(int(mode)); err != nil {
		return err
	}
	if !mode.Animated() {
		return nil
	}
	if durationSeconds == 0 {
		return nil
	}
	if durationSeconds < 0 {
		return errors.InvalidParameterf("duration must not be negative, got %d", durationSeconds)
	}
	return light.ValidateDuration(durationSeconds, a.maxDuration)
}

// Apply switches to mode at monotonic instant now. Immediate modes set the
// output at once and cancel any fade; animated modes start a linear ramp from
// the current level. A zero duration on an animated mode uses the default
// animation length; duration is ignored for immediate modes.
func (a *Actuator) Apply(mode light.Mode, durationSeconds int, now time.Time) error {
	if err := a.Validate(mode, durationSeconds); err != nil {
		return err
	}
	if mode.Animated() && durationSeconds == 0 {
		durationSeconds = config.DefaultAnimationDuration
	}

	switch mode {
	case light.ModeOff:
		a.anim = nil
		a.setBrightness(config.MinBrightness)
		a.setPower(light.PowerOff)
	case light.ModeOn:
		a.anim = nil
		a.setBrightness(config.MaxBrightness)
		a.setPower(light.PowerOn)
	case light.ModeAnimateOn:
		a.startAnimation(mode, config.MaxBrightness, durationSeconds, now)
		a.setPower(light.PowerTurningOn)
	case light.ModeAnimateOff:
		a.startAnimation(mode, config.MinBrightness, durationSeconds, now)
		a.setPower(light.PowerTurningOff)
	default:
		return errors.Internalf("unhandled mode %s", mode)
	}

	a.logger.Debug("actuator: applied", "mode", mode.String(), "duration", durationSeconds,
		"power", a.power.String(), "brightness", a.brightness)
	return nil
}

func (a *Actuator) startAnimation(mode light.Mode, to, durationSeconds int, now time.Time) {
	a.anim = &animation{
		mode:     mode,
		start:    now,
		duration: time.Duration(durationSeconds) * time.Second,
		from:     a.brightness,
		to:       to,
	}
}

// Step advances an in-flight fade to monotonic instant now. When the elapsed
// time reaches the duration the light settles to On or Off. Returns true
// when the fade finished on this step.
func (a *Actuator) Step(now time.Time) bool {
	if a.anim == nil {
		return false
	}
	elapsed := now.Sub(a.anim.start)
	if elapsed < 0 {
		elapsed = 0
	}

	if elapsed >= a.anim.duration {
		mode := a.anim.mode
		a.setBrightness(a.anim.to)
		a.anim = nil
		switch mode {
		case light.ModeAnimateOn:
			a.setPower(light.PowerOn)
		case light.ModeAnimateOff:
			a.setPower(light.PowerOff)
		}
		a.logger.Debug("actuator: animation settled", "mode", mode.String(), "power", a.power.String())
		return true
	}

	span := a.anim.to - a.anim.from
	level := a.anim.from + int(int64(span)*int64(elapsed)/int64(a.anim.duration))
	a.setBrightness(level)
	return false
}

func (a *Actuator) setBrightness(level int) {
	if level == a.brightness {
		return
	}
	a.brightness = level
	if a.out != nil {
		if err := a.out.Write(level); err != nil {
			a.logger.Warn("actuator: output write failed", "brightness", level, "error", err)
		}
	}
	a.notify(light.BrightnessValue(level))
}

func (a *Actuator) setPower(p light.Power) {
	if p == a.power {
		return
	}
	a.power = p
	a.notify(light.PowerValue(p))
}

func (a *Actuator) String() string {
	return fmt.Sprintf("power=%s brightness=%d animating=%t", a.power, a.brightness, a.anim != nil)
}
