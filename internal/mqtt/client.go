// Package mqtt mirrors device state to an MQTT broker and accepts remote
// commands from it.
package mqtt

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	kerrors "github.com/jmylchreest/sunrised/internal/errors"
)

const (
	defaultConnectTimeout = 10 * time.Second
	defaultPublishTimeout = 5 * time.Second
	disconnectQuiesce     = 250 // ms
)

// Config describes the broker connection.
type Config struct {
	Broker         string
	ClientID       string
	TopicPrefix    string
	ConnectTimeout time.Duration
	PublishTimeout time.Duration
}

// Conn is the subset of paho.Client the bridge uses.
type Conn interface {
	Publish(topic string, qos byte, retained bool, payload any) paho.Token
	Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token
}

// Client publishes retained state and serves command topics.
type Client struct {
	cfg        Config
	conn       Conn
	logger     *slog.Logger
	disconnect func()

	mu       sync.RWMutex
	retained map[string][]byte
}

// Connect dials the broker and waits for the connection or ctx.
// The client reconnects on its own afterwards and republishes retained state
// on every (re)connect.
func Connect(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = defaultConnectTimeout
	}
	c := newClient(nil, cfg, logger)

	opts := paho.NewClientOptions().AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(cfg.ConnectTimeout)
	opts.SetOnConnectHandler(func(paho.Client) {
		c.logger.Info("mqtt: connected", "broker", cfg.Broker)
		c.republish()
	})
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		c.logger.Warn("mqtt: connection lost", "broker", cfg.Broker, "error", err)
	})

	pc := paho.NewClient(opts)
	c.conn = pc
	c.disconnect = func() { pc.Disconnect(disconnectQuiesce) }

	t := pc.Connect()
	select {
	case <-t.Done():
		if err := t.Error(); err != nil {
			return nil, kerrors.Unavailablef("mqtt connect %s: %v", cfg.Broker, err)
		}
	case <-ctx.Done():
		pc.Disconnect(disconnectQuiesce)
		return nil, ctx.Err()
	}
	return c, nil
}

func newClient(conn Conn, cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = defaultPublishTimeout
	}
	return &Client{
		cfg:      cfg,
		conn:     conn,
		logger:   logger,
		retained: make(map[string][]byte),
	}
}

// Topic joins the configured prefix and suffix.
func (c *Client) Topic(suffix string) string {
	if c.cfg.TopicPrefix == "" {
		return suffix
	}
	return c.cfg.TopicPrefix + "/" + suffix
}

// publishRetained remembers payload for republish on reconnect and sends it
// without waiting for the broker. Failures are logged from a watcher goroutine.
func (c *Client) publishRetained(topic string, payload []byte) paho.Token {
	c.mu.Lock()
	c.retained[topic] = payload
	c.mu.Unlock()
	return c.publish(topic, 1, true, payload)
}

func (c *Client) publish(topic string, qos byte, retain bool, payload []byte) paho.Token {
	t := c.conn.Publish(topic, qos, retain, payload)
	go func() {
		if !t.WaitTimeout(c.cfg.PublishTimeout) {
			c.logger.Warn("mqtt: publish timed out", "topic", topic, "timeout", c.cfg.PublishTimeout)
			return
		}
		if err := t.Error(); err != nil {
			c.logger.Warn("mqtt: publish failed", "topic", topic, "error", err)
		}
	}()
	return t
}

func (c *Client) republish() {
	c.mu.RLock()
	pending := make(map[string][]byte, len(c.retained))
	for k, v := range c.retained {
		pending[k] = v
	}
	c.mu.RUnlock()

	for topic, payload := range pending {
		c.publish(topic, 1, true, payload)
	}
}

// Retained returns the last payload published to topic.
func (c *Client) Retained(topic string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.retained[topic]
	return p, ok
}

// Close disconnects from the broker, giving up when ctx ends.
func (c *Client) Close(ctx context.Context) error {
	if c.disconnect == nil {
		return nil
	}
	done := make(chan struct{})
	go func() {
		c.disconnect()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("mqtt disconnect: %w", ctx.Err())
	}
}
