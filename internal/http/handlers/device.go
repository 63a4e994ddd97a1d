package handlers

import (
	"context"
	"log/slog"

	"github.com/jmylchreest/sunrised/internal/engine"
	"github.com/jmylchreest/sunrised/pkg/light"
)

// CommandSubmitter queues a command on the engine and waits for its result.
type CommandSubmitter interface {
	Submit(ctx context.Context, cmd engine.Command) error
}

// StateReader exposes the published device snapshot.
type StateReader interface {
	Status() light.Status
	Alarms() []light.Alarm
}

// --- System Time ---

// SystemTimeInput is the input for setting the device clock.
type SystemTimeInput struct {
	Timestamp int64 `query:"timestamp" required:"true" minimum:"0" maximum:"253402300799" doc:"Current time in epoch seconds"`
}

// --- Update Light State ---

// UpdateLightStateInput is the input for an immediate actuation.
type UpdateLightStateInput struct {
	Mode     int `query:"mode" required:"true" minimum:"0" maximum:"3" doc:"0=off, 1=on, 2=animate off (sunset), 3=animate on (sunrise)"`
	Duration int `query:"duration" minimum:"0" doc:"Animation duration in seconds; 0 uses the default. Ignored for modes 0 and 1"`
}

// --- Schedule Alarm ---

// ScheduleAlarmInput is the input for scheduling a sunrise or sunset.
type ScheduleAlarmInput struct {
	Power    int `query:"power" required:"true" minimum:"0" maximum:"1" doc:"1 schedules a sunrise, 0 a sunset"`
	Duration int `query:"duration" required:"true" minimum:"1" doc:"Animation duration in seconds"`
	Hour     int `query:"hh" required:"true" minimum:"0" maximum:"23" doc:"Trigger hour"`
	Minute   int `query:"mm" required:"true" minimum:"0" maximum:"59" doc:"Trigger minute"`
}

// --- Cancel Alarms ---

// CancelAlarmsInput is the input for cancelling all alarms.
type CancelAlarmsInput struct{}

// --- Status ---

// StatusInput is the input for the status query.
type StatusInput struct{}

// StatusOutput is the device status snapshot.
type StatusOutput struct {
	Body light.Status
}

// --- List Alarms ---

// ListAlarmsInput is the input for listing pending alarms.
type ListAlarmsInput struct{}

// ListAlarmsOutput is the list of pending alarms.
type ListAlarmsOutput struct {
	Body []AlarmResponse
}

// DeviceHandler implements the device wire endpoints used by the web front end.
type DeviceHandler struct {
	Engine CommandSubmitter
	State  StateReader
	Logger *slog.Logger
}

func (h *DeviceHandler) submit(ctx context.Context, cmd engine.Command, err error) (*EmptyOutput, error) {
	if err != nil {
		return nil, toHTTPError(err)
	}
	if err := h.Engine.Submit(ctx, cmd); err != nil {
		h.Logger.Debug("http: command failed", "command", cmd.String(), "error", err)
		return nil, toHTTPError(err)
	}
	return &EmptyOutput{}, nil
}

// SystemTime sets the device clock.
func (h *DeviceHandler) SystemTime(ctx context.Context, input *SystemTimeInput) (*EmptyOutput, error) {
	cmd, err := engine.NewSyncTime(input.Timestamp)
	return h.submit(ctx, cmd, err)
}

// UpdateLightState applies a power mode immediately.
func (h *DeviceHandler) UpdateLightState(ctx context.Context, input *UpdateLightStateInput) (*EmptyOutput, error) {
	cmd, err := engine.NewSetLight(input.Mode, input.Duration)
	return h.submit(ctx, cmd, err)
}

// ScheduleAlarm schedules a one-shot sunrise or sunset.
func (h *DeviceHandler) ScheduleAlarm(ctx context.Context, input *ScheduleAlarmInput) (*EmptyOutput, error) {
	cmd, err := engine.NewScheduleAlarm(input.Power, input.Hour, input.Minute, input.Duration)
	return h.submit(ctx, cmd, err)
}

// CancelScheduledAlarms removes every pending alarm.
func (h *DeviceHandler) CancelScheduledAlarms(ctx context.Context, _ *CancelAlarmsInput) (*EmptyOutput, error) {
	return h.submit(ctx, engine.CancelAlarms(), nil)
}

// Status returns the current device snapshot.
func (h *DeviceHandler) Status(_ context.Context, _ *StatusInput) (*StatusOutput, error) {
	return &StatusOutput{Body: h.State.Status()}, nil
}

// ListAlarms returns the pending alarms.
func (h *DeviceHandler) ListAlarms(_ context.Context, _ *ListAlarmsInput) (*ListAlarmsOutput, error) {
	return &ListAlarmsOutput{Body: AlarmsFromLight(h.State.Alarms())}, nil
}

// Ensure DeviceHandler implements the interface at compile time.
var _ DeviceHandlers = (*DeviceHandler)(nil)

// DeviceHandlers defines the interface for device operations.
type DeviceHandlers interface {
	SystemTime(ctx context.Context, input *SystemTimeInput) (*EmptyOutput, error)
	UpdateLightState(ctx context.Context, input *UpdateLightStateInput) (*EmptyOutput, error)
	ScheduleAlarm(ctx context.Context, input *ScheduleAlarmInput) (*EmptyOutput, error)
	CancelScheduledAlarms(ctx context.Context, input *CancelAlarmsInput) (*EmptyOutput, error)
	Status(ctx context.Context, input *StatusInput) (*StatusOutput, error)
	ListAlarms(ctx context.Context, input *ListAlarmsInput) (*ListAlarmsOutput, error)
}
