package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/jmylchreest/sunrised/internal/config"
	"github.com/jmylchreest/sunrised/internal/engine"
	kerrors "github.com/jmylchreest/sunrised/internal/errors"
)

const (
	commandQoS           = 1
	defaultSubmitTimeout = 5 * time.Second
	subscribeTimeout     = 5 * time.Second
)

// Submitter queues a command on the engine.
type Submitter interface {
	Submit(ctx context.Context, cmd engine.Command) error
}

// LightCommand is the payload of <prefix>/cmd/light.
type LightCommand struct {
	Mode     int `json:"mode"`
	Duration int `json:"duration"`
}

// ScheduleCommand is the payload of <prefix>/cmd/schedule.
type ScheduleCommand struct {
	Power    int `json:"power"`
	Hour     int `json:"hh"`
	Minute   int `json:"mm"`
	Duration int `json:"duration"`
}

// TimeCommand is the payload of <prefix>/cmd/time.
type TimeCommand struct {
	Timestamp int64 `json:"timestamp"`
}

type decodeFunc func(payload []byte) (engine.Command, error)

func (c *Client) commandRoutes() map[string]decodeFunc {
	return map[string]decodeFunc{
		c.Topic("cmd/light"): func(p []byte) (engine.Command, error) {
			var in LightCommand
			if err := decode(p, &in); err != nil {
				return nil, err
			}
			return engine.NewSetLight(in.Mode, in.Duration)
		},
		c.Topic("cmd/schedule"): func(p []byte) (engine.Command, error) {
			var in ScheduleCommand
			if err := decode(p, &in); err != nil {
				return nil, err
			}
			return engine.NewScheduleAlarm(in.Power, in.Hour, in.Minute, in.Duration)
		},
		c.Topic("cmd/cancel"): func([]byte) (engine.Command, error) {
			return engine.CancelAlarms(), nil
		},
		c.Topic("cmd/time"): func(p []byte) (engine.Command, error) {
			var in TimeCommand
			if err := decode(p, &in); err != nil {
				return nil, err
			}
			return engine.NewSyncTime(in.Timestamp)
		},
	}
}

func decode(payload []byte, v any) error {
	if err := json.Unmarshal(payload, v); err != nil {
		return kerrors.InvalidParameterf("malformed payload: %v", err)
	}
	return nil
}

type inbound struct {
	topic   string
	payload []byte
	dec     decodeFunc
}

// ServeCommands subscribes to the command topics and routes every message
// through sub. A single worker submits messages in arrival order; paho
// delivers in order, so a cancel followed by a schedule stays in that order.
// Commands share the HTTP command queue, so ordering against HTTP requests is
// decided by arrival at the engine. The worker stops when ctx is done.
func (c *Client) ServeCommands(ctx context.Context, sub Submitter) error {
	queue := make(chan inbound, config.DefaultCommandQueueSize)
	go c.drain(ctx, sub, queue)

	for topic, dec := range c.commandRoutes() {
		t := c.conn.Subscribe(topic, commandQoS, c.handler(ctx, queue, dec))
		if !t.WaitTimeout(subscribeTimeout) {
			return kerrors.Unavailablef("mqtt subscribe %s: timed out", topic)
		}
		if err := t.Error(); err != nil {
			return fmt.Errorf("mqtt subscribe %s: %w", topic, err)
		}
		c.logger.Debug("mqtt: subscribed", "topic", topic)
	}
	return nil
}

// handler queues the message without blocking paho's delivery goroutine.
func (c *Client) handler(ctx context.Context, queue chan<- inbound, dec decodeFunc) paho.MessageHandler {
	return func(_ paho.Client, msg paho.Message) {
		in := inbound{topic: msg.Topic(), payload: msg.Payload(), dec: dec}
		select {
		case queue <- in:
		case <-ctx.Done():
		default:
			c.logger.Warn("mqtt: command queue full, dropping", "topic", in.topic)
		}
	}
}

func (c *Client) drain(ctx context.Context, sub Submitter, queue <-chan inbound) {
	for {
		select {
		case <-ctx.Done():
			return
		case in := <-queue:
			c.handleSafe(ctx, sub, in)
		}
	}
}

func (c *Client) handleSafe(ctx context.Context, sub Submitter, in inbound) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("mqtt: handler panic", "topic", in.topic, "panic", r)
		}
	}()
	c.handle(ctx, sub, in.dec, in.topic, in.payload)
}

func (c *Client) handle(ctx context.Context, sub Submitter, dec decodeFunc, topic string, payload []byte) {
	cmd, err := dec(payload)
	if err != nil {
		c.logger.Warn("mqtt: rejected command", "topic", topic, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, defaultSubmitTimeout)
	defer cancel()
	if err := sub.Submit(ctx, cmd); err != nil {
		c.logger.Warn("mqtt: command failed", "topic", topic, "command", cmd, "error", err)
		return
	}
	c.logger.Debug("mqtt: command applied", "topic", topic, "command", cmd)
}
