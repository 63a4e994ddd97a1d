package mqtt

import "strconv"

// Output drives a remote dimmer by publishing the brightness level, retained,
// to <prefix>/output/brightness.
type Output struct {
	c     *Client
	topic string
}

// Output returns an actuator output backed by this client.
func (c *Client) Output() *Output {
	return &Output{c: c, topic: c.Topic("output/brightness")}
}

// Topic is where levels are published.
func (o *Output) Topic() string { return o.topic }

// Write publishes the level without waiting for the broker. An error is only
// returned when the publish has already failed by the time it returns.
func (o *Output) Write(brightness int) error {
	t := o.c.publishRetained(o.topic, []byte(strconv.Itoa(brightness)))
	select {
	case <-t.Done():
		return t.Error()
	default:
		return nil
	}
}
