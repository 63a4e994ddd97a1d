// Package engine runs the scheduler loop that owns the device: the clock, the
// alarm registry and the actuator are only touched from the loop goroutine.
// Everything else talks to the engine by submitting commands.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/jmylchreest/sunrised/internal/actuator"
	"github.com/jmylchreest/sunrised/internal/alarm"
	"github.com/jmylchreest/sunrised/internal/clock"
	"github.com/jmylchreest/sunrised/internal/config"
	"github.com/jmylchreest/sunrised/internal/errors"
	"github.com/jmylchreest/sunrised/internal/state"
	"github.com/jmylchreest/sunrised/pkg/light"
)

// Options configures an Engine. Zero values take the config defaults.
type Options struct {
	Now              clock.Source
	Location         *time.Location
	Output           actuator.Output
	Publisher        *state.Publisher
	TickInterval     time.Duration
	MaxAlarmDuration int
	QueueSize        int
	Logger           *slog.Logger
}

type request struct {
	cmd  Command
	done chan error
}

// Engine is the single writer of device state.
type Engine struct {
	logger       *slog.Logger
	clock        *clock.Clock
	registry     *alarm.Registry
	actuator     *actuator.Actuator
	publisher    *state.Publisher
	tickInterval time.Duration

	queue   chan request
	stopped chan struct{}

	lastTimestamp  int64
	unsyncedLogged bool
}

// New creates an engine in the boot state: clock unsynced, no alarms, light off.
func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Output == nil {
		opts.Output = actuator.NewLogOutput(logger)
	}
	if opts.Publisher == nil {
		opts.Publisher = state.New("", nil, logger)
	}
	if opts.TickInterval == 0 {
		opts.TickInterval = config.DefaultTickInterval
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = config.DefaultCommandQueueSize
	}
	maxDuration := config.ValidateMaxAlarmDuration(opts.MaxAlarmDuration)

	e := &Engine{
		logger:       logger,
		clock:        clock.New(opts.Now, opts.Location),
		registry:     alarm.NewRegistry(maxDuration),
		publisher:    opts.Publisher,
		tickInterval: config.ValidateTickInterval(opts.TickInterval),
		queue:        make(chan request, opts.QueueSize),
		stopped:      make(chan struct{}),
	}
	e.actuator = actuator.New(opts.Output, e.publisher.OnChange, maxDuration, logger)
	return e
}

// Publisher returns the state snapshot the engine writes to.
func (e *Engine) Publisher() *state.Publisher {
	return e.publisher
}

// Submit queues cmd and waits until the loop has applied it. The returned
// error is the command's own result, the context error, or ErrUnavailable if
// the loop has stopped. A command whose caller gave up after queueing is
// still applied.
func (e *Engine) Submit(ctx context.Context, cmd Command) error {
	req := request{cmd: cmd, done: make(chan error, 1)}

	select {
	case <-e.stopped:
		return errors.Unavailablef("engine stopped")
	default:
	}

	select {
	case e.queue <- req:
	case <-ctx.Done():
		return ctx.Err()
	case <-e.stopped:
		return errors.Unavailablef("engine stopped")
	}

	select {
	case err := <-req.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-e.stopped:
		// The loop may have applied it just before stopping.
		select {
		case err := <-req.done:
			return err
		default:
			return errors.Unavailablef("engine stopped")
		}
	}
}

// Run ticks the loop until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(e.tickInterval)
	defer ticker.Stop()

	e.logger.Info("engine: started", "tick_interval", e.tickInterval, "timezone", e.clock.Location().String())
	for {
		select {
		case <-ctx.Done():
			close(e.stopped)
			e.rejectQueued()
			e.logger.Info("engine: stopped")
			return
		case <-ticker.C:
			e.Tick()
		}
	}
}

// Tick runs one loop iteration: apply the commands queued so far, fire due
// alarms, then advance any animation. Run calls it on every tick; tests call
// it directly.
func (e *Engine) Tick() {
	e.drain()

	mono := e.clock.Monotonic()
	now, synced := e.clock.Time()
	if synced {
		e.publishTimestamp(now.Unix())
		e.registry.Arm(now)
		fired := e.registry.Due(now)
		for _, a := range fired {
			e.logger.Info("engine: alarm fired", "action", a.Action.String(), "trigger", a.Trigger.String(), "duration", a.Duration)
			if err := e.actuator.Apply(a.Action.Mode(), a.Duration, mono); err != nil {
				e.logger.Error("engine: alarm actuation failed", "action", a.Action.String(), "error", err)
			}
		}
		if len(fired) > 0 {
			e.publishAlarms()
		}
	} else if e.registry.Len() > 0 && !e.unsyncedLogged {
		e.logger.Debug("engine: holding alarms", "pending", e.registry.Len(), "reason", errors.ErrUnsynchronized)
		e.unsyncedLogged = true
	}

	e.actuator.Step(mono)
}

func (e *Engine) drain() {
	for n := len(e.queue); n > 0; n-- {
		req := <-e.queue
		err := req.cmd.apply(e)
		if err != nil {
			e.logger.Debug("engine: command rejected", "command", req.cmd.String(), "error", err)
		}
		req.done <- err
	}
}

func (e *Engine) rejectQueued() {
	for {
		select {
		case req := <-e.queue:
			req.done <- errors.Unavailablef("engine stopped")
		default:
			return
		}
	}
}

func (e *Engine) publishTimestamp(epoch int64) {
	if epoch == e.lastTimestamp {
		return
	}
	e.lastTimestamp = epoch
	e.publisher.OnChange(light.TimestampValue(epoch))
}

func (e *Engine) publishAlarms() {
	e.publisher.SetAlarms(e.registry.Pending())
}
