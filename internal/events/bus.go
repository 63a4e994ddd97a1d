// Package events provides the in-process fan-out that carries device state
// changes from the engine to push subscribers (WebSocket hub, MQTT mirror).
package events

import (
	"sync"

	"github.com/jmylchreest/sunrised/pkg/light"
)

// EventType identifies the kind of event.
type EventType string

const (
	// StatusChanged carries a single status field delta.
	StatusChanged EventType = "status.changed"

	// AlarmsChanged carries the full pending alarm list after a schedule, cancel or firing.
	AlarmsChanged EventType = "alarms.changed"
)

// AlarmsName is the Name used for AlarmsChanged events.
const AlarmsName light.PropertyName = "alarms"

// Event is a single event emitted by the engine. Name and Value are the
// push wire format: {"name": "...", "value": ...}.
type Event struct {
	Type  EventType          `json:"-"`
	Name  light.PropertyName `json:"name"`
	Value any                `json:"value"`
}

// NewStatusEvent builds a StatusChanged event from a typed delta.
func NewStatusEvent(pv light.PropertyValue) Event {
	return Event{
		Type:  StatusChanged,
		Name:  pv.PropertyName(),
		Value: pv.Value(),
	}
}

// NewAlarmsEvent builds an AlarmsChanged event. The slice is not copied.
func NewAlarmsEvent(alarms []light.Alarm) Event {
	if alarms == nil {
		alarms = []light.Alarm{}
	}
	return Event{
		Type:  AlarmsChanged,
		Name:  AlarmsName,
		Value: alarms,
	}
}

// SubscriberFunc is a callback invoked for each event.
// Implementations must not block; slow subscribers should buffer internally.
type SubscriberFunc func(Event)

// Bus is a simple synchronous fan-out event bus.
// Publishing blocks until all subscribers have been called, so subscribers
// should be fast (e.g., write to a channel). With a single publisher every
// subscriber sees events in publish order.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[int]SubscriberFunc
	order       []int
	nextID      int
}

// NewBus creates a new event bus.
func NewBus() *Bus {
	return &Bus{
		subscribers: make(map[int]SubscriberFunc),
	}
}

// Subscribe registers a callback and returns an unsubscribe function.
func (b *Bus) Subscribe(fn SubscriberFunc) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subscribers[id] = fn
	b.order = append(b.order, id)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subscribers, id)
			for i, v := range b.order {
				if v == id {
					b.order = append(b.order[:i], b.order[i+1:]...)
					break
				}
			}
			b.mu.Unlock()
		})
	}
}

// Len returns the number of current subscribers.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Publish sends an event to all current subscribers in subscription order.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	// Snapshot subscriber list under read lock so we don't hold it during callbacks.
	subs := make([]SubscriberFunc, 0, len(b.order))
	for _, id := range b.order {
		subs = append(subs, b.subscribers[id])
	}
	b.mu.RUnlock()

	for _, fn := range subs {
		fn(e)
	}
}
