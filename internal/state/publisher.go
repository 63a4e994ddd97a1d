// Package state holds the published copy of device status. The engine loop is
// the only writer; HTTP handlers and push channels read copies.
package state

import (
	"log/slog"
	"sync"

	"github.com/jmylchreest/sunrised/internal/events"
	"github.com/jmylchreest/sunrised/pkg/light"
)

// Publisher is the single funnel for state changes: every delta updates the
// pull snapshot first and is then fanned out on the bus.
type Publisher struct {
	mu     sync.RWMutex
	status light.Status
	alarms []light.Alarm
	bus    *events.Bus
	logger *slog.Logger
}

// New creates a publisher holding the boot status: power off, brightness 0.
func New(version string, bus *events.Bus, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		status: light.Status{Version: version, Power: light.PowerOff},
		alarms: []light.Alarm{},
		bus:    bus,
		logger: logger,
	}
}

// Status returns a copy of the current status.
func (p *Publisher) Status() light.Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}

// Alarms returns a copy of the pending alarms as last published.
func (p *Publisher) Alarms() []light.Alarm {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]light.Alarm{}, p.alarms...)
}

// OnChange records a status delta and pushes it to subscribers.
func (p *Publisher) OnChange(pv light.PropertyValue) {
	if err := pv.Validate(); err != nil {
		p.logger.Error("state: dropping invalid change", "property", pv.PropertyName(), "error", err)
		return
	}

	p.mu.Lock()
	light.Apply(&p.status, pv)
	p.mu.Unlock()

	if p.bus != nil {
		p.bus.Publish(events.NewStatusEvent(pv))
	}
}

// SetAlarms records the pending alarm list and pushes it to subscribers.
func (p *Publisher) SetAlarms(alarms []light.Alarm) {
	cp := append([]light.Alarm{}, alarms...)

	p.mu.Lock()
	p.alarms = cp
	p.mu.Unlock()

	if p.bus != nil {
		p.bus.Publish(events.NewAlarmsEvent(append([]light.Alarm{}, cp...)))
	}
}

// Snapshot returns the current status as the deltas a new subscriber needs to
// catch up: power, brightness and timestamp.
func (p *Publisher) Snapshot() []events.Event {
	s := p.Status()
	return []events.Event{
		events.NewStatusEvent(light.PowerValue(s.Power)),
		events.NewStatusEvent(light.BrightnessValue(s.Brightness)),
		events.NewStatusEvent(light.TimestampValue(s.Timestamp)),
	}
}
