// Package client talks to a sunrised device over its HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jmylchreest/sunrised/pkg/light"
)

// ClientInterface defines the methods for interacting with sunrised.
// Used for testability and mocking in the CLI.
type ClientInterface interface {
	Status(ctx context.Context) (light.Status, error)
	Alarms(ctx context.Context) ([]Alarm, error)
	Version(ctx context.Context) (Version, error)
	SyncTime(ctx context.Context, t time.Time) error
	SetLight(ctx context.Context, mode light.Mode, duration int) error
	ScheduleAlarm(ctx context.Context, action light.Action, at light.TimeOfDay, duration int) error
	CancelAlarms(ctx context.Context) error
	LogLevel(ctx context.Context) (string, error)
	SetLogLevel(ctx context.Context, level string) (string, error)
}

// Alarm is a pending alarm as reported by /api/v1/alarms.
type Alarm struct {
	Power    int    `json:"power" yaml:"power"`
	Kind     string `json:"kind" yaml:"kind"`
	Hour     int    `json:"hh" yaml:"hh"`
	Minute   int    `json:"mm" yaml:"mm"`
	Duration int    `json:"duration" yaml:"duration"`
}

// Trigger formats the alarm time as HH:MM.
func (a Alarm) Trigger() string {
	return fmt.Sprintf("%02d:%02d", a.Hour, a.Minute)
}

// Version is the daemon build information.
type Version struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	BuildDate string `json:"build_date" yaml:"build_date"`
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error %d: %s", e.Code, e.Body)
}

// HTTPClient represents an HTTP connection to sunrised.
type HTTPClient struct {
	logger  *slog.Logger
	baseURL string
	client  *http.Client
}

var _ ClientInterface = (*HTTPClient)(nil)

// NewHTTP creates a new HTTP client.
func NewHTTP(logger *slog.Logger, baseURL string) *HTTPClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPClient{
		logger:  logger,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// request performs an HTTP request and decodes the JSON response into resp.
func (c *HTTPClient) request(ctx context.Context, method, path string, query url.Values, body, resp any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	c.logger.Debug("HTTP request", "method", method, "url", u)

	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	httpResp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if httpResp.StatusCode >= 400 {
		c.logger.Debug("HTTP error response", "status", httpResp.StatusCode, "body", string(respBody))
		return &StatusError{Code: httpResp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	if resp != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, resp); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func (c *HTTPClient) get(ctx context.Context, path string, query url.Values, resp any) error {
	return c.request(ctx, http.MethodGet, path, query, nil, resp)
}

// Status returns the device status snapshot.
func (c *HTTPClient) Status(ctx context.Context) (light.Status, error) {
	var st light.Status
	err := c.get(ctx, "/status", nil, &st)
	return st, err
}

// Alarms returns the pending alarms.
func (c *HTTPClient) Alarms(ctx context.Context) ([]Alarm, error) {
	var alarms []Alarm
	if err := c.get(ctx, "/api/v1/alarms", nil, &alarms); err != nil {
		return nil, err
	}
	return alarms, nil
}

// Version returns the daemon's build information.
func (c *HTTPClient) Version(ctx context.Context) (Version, error) {
	var v Version
	err := c.get(ctx, "/api/v1/version", nil, &v)
	return v, err
}

// SyncTime sets the device clock to t.
func (c *HTTPClient) SyncTime(ctx context.Context, t time.Time) error {
	return c.get(ctx, "/systemTime", url.Values{"timestamp": {strconv.FormatInt(t.Unix(), 10)}}, nil)
}

// SetLight applies mode immediately. duration only matters for animated modes.
func (c *HTTPClient) SetLight(ctx context.Context, mode light.Mode, duration int) error {
	return c.get(ctx, "/updateLightState", url.Values{
		"mode":     {strconv.Itoa(int(mode))},
		"duration": {strconv.Itoa(duration)},
	}, nil)
}

// ScheduleAlarm schedules a one-shot sunrise or sunset at the given time.
func (c *HTTPClient) ScheduleAlarm(ctx context.Context, action light.Action, at light.TimeOfDay, duration int) error {
	return c.get(ctx, "/scheduleAlarm", url.Values{
		"power":    {strconv.Itoa(int(action))},
		"duration": {strconv.Itoa(duration)},
		"hh":       {strconv.Itoa(at.Hour)},
		"mm":       {strconv.Itoa(at.Minute)},
	}, nil)
}

// CancelAlarms removes every pending alarm.
func (c *HTTPClient) CancelAlarms(ctx context.Context) error {
	return c.get(ctx, "/cancelScheduledAlarms", nil, nil)
}

type levelBody struct {
	Level string `json:"level"`
}

// LogLevel returns the daemon's current log level.
func (c *HTTPClient) LogLevel(ctx context.Context) (string, error) {
	var resp levelBody
	err := c.get(ctx, "/api/v1/logging/level", nil, &resp)
	return resp.Level, err
}

// SetLogLevel changes the daemon's log level and returns the level now in effect.
func (c *HTTPClient) SetLogLevel(ctx context.Context, level string) (string, error) {
	var resp levelBody
	err := c.request(ctx, http.MethodPut, "/api/v1/logging/level", nil, levelBody{Level: level}, &resp)
	return resp.Level, err
}
