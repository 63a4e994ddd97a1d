package mqtt

import (
	"encoding/json"

	"github.com/jmylchreest/sunrised/internal/events"
)

// StateTopic returns the retained topic a status field is mirrored to.
func (c *Client) StateTopic(name string) string {
	return c.Topic("state/" + name)
}

// Mirror publishes every status delta retained to <prefix>/state/<name> and
// the pending alarm list to <prefix>/alarms. Seed events (e.g. a publisher
// snapshot) are published first. The returned func stops mirroring.
func (c *Client) Mirror(bus *events.Bus, seed ...events.Event) func() {
	for _, e := range seed {
		c.mirror(e)
	}
	return bus.Subscribe(c.mirror)
}

func (c *Client) mirror(e events.Event) {
	payload, err := json.Marshal(e.Value)
	if err != nil {
		c.logger.Error("mqtt: encode event", "name", e.Name, "error", err)
		return
	}

	var topic string
	switch e.Type {
	case events.StatusChanged:
		topic = c.StateTopic(string(e.Name))
	case events.AlarmsChanged:
		topic = c.Topic("alarms")
	default:
		return
	}
	c.publishRetained(topic, payload)
}
