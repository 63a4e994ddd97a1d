package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/sunrised/internal/engine"
	kerrors "github.com/jmylchreest/sunrised/internal/errors"
	"github.com/jmylchreest/sunrised/internal/logging"
	"github.com/jmylchreest/sunrised/pkg/light"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// --- Mocks ---

type mockEngine struct {
	submitted []string
	err       error
}

func (m *mockEngine) Submit(_ context.Context, cmd engine.Command) error {
	m.submitted = append(m.submitted, cmd.String())
	return m.err
}

type mockState struct {
	status light.Status
	alarms []light.Alarm
}

func (m *mockState) Status() light.Status  { return m.status }
func (m *mockState) Alarms() []light.Alarm { return m.alarms }

func newDeviceHandler() (*DeviceHandler, *mockEngine, *mockState) {
	eng := &mockEngine{}
	st := &mockState{status: light.Status{Version: "1.0.0"}}
	return &DeviceHandler{Engine: eng, State: st, Logger: testLogger()}, eng, st
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var se huma.StatusError
	require.ErrorAs(t, err, &se)
	return se.GetStatus()
}

// === Health Handler Tests ===

func TestHealthCheck(t *testing.T) {
	out, err := HealthCheck(context.Background(), &HealthInput{})
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Body.Status)
}

func TestVersionCheck(t *testing.T) {
	h := VersionCheck(VersionInfo{Version: "1.2.3", Commit: "abc", BuildDate: "2024-05-01"})
	out, err := h(context.Background(), &VersionInput{})
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", out.Body.Version)
	assert.Equal(t, "abc", out.Body.Commit)
	assert.Equal(t, "2024-05-01", out.Body.BuildDate)
}

// === Device Handler Tests ===

func TestDeviceHandler_SystemTime(t *testing.T) {
	h, eng, _ := newDeviceHandler()
	out, err := h.SystemTime(context.Background(), &SystemTimeInput{Timestamp: 1714543200})
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Equal(t, []string{"sync(1714543200)"}, eng.submitted)
}

func TestDeviceHandler_SystemTime_Negative(t *testing.T) {
	h, eng, _ := newDeviceHandler()
	_, err := h.SystemTime(context.Background(), &SystemTimeInput{Timestamp: -5})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	assert.Empty(t, eng.submitted)
}

func TestDeviceHandler_UpdateLightState(t *testing.T) {
	h, eng, _ := newDeviceHandler()
	_, err := h.UpdateLightState(context.Background(), &UpdateLightStateInput{Mode: 3, Duration: 0})
	require.NoError(t, err)
	assert.Equal(t, []string{"light(animate_on, 0s)"}, eng.submitted)
}

func TestDeviceHandler_UpdateLightState_InvalidMode(t *testing.T) {
	h, eng, _ := newDeviceHandler()
	_, err := h.UpdateLightState(context.Background(), &UpdateLightStateInput{Mode: 7})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	assert.Empty(t, eng.submitted)
}

func TestDeviceHandler_ScheduleAlarm(t *testing.T) {
	h, eng, _ := newDeviceHandler()
	_, err := h.ScheduleAlarm(context.Background(), &ScheduleAlarmInput{Power: 1, Duration: 3, Hour: 6, Minute: 0})
	require.NoError(t, err)
	assert.Equal(t, []string{"schedule(sunrise at 06:00, 3s)"}, eng.submitted)
}

func TestDeviceHandler_ScheduleAlarm_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input ScheduleAlarmInput
	}{
		{"bad power", ScheduleAlarmInput{Power: 2, Duration: 3, Hour: 6}},
		{"bad hour", ScheduleAlarmInput{Power: 1, Duration: 3, Hour: 24}},
		{"bad minute", ScheduleAlarmInput{Power: 1, Duration: 3, Hour: 6, Minute: 60}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, eng, _ := newDeviceHandler()
			_, err := h.ScheduleAlarm(context.Background(), &tt.input)
			assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
			assert.Empty(t, eng.submitted)
		})
	}
}

func TestDeviceHandler_EngineErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid parameter", kerrors.InvalidParameterf("duration must be 1-3600 seconds, got 0"), http.StatusBadRequest},
		{"engine stopped", kerrors.Unavailablef("engine stopped"), http.StatusServiceUnavailable},
		{"deadline", context.DeadlineExceeded, http.StatusServiceUnavailable},
		{"other", kerrors.Internalf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, eng, _ := newDeviceHandler()
			eng.err = tt.err
			_, err := h.CancelScheduledAlarms(context.Background(), &CancelAlarmsInput{})
			assert.Equal(t, tt.status, statusOf(t, err))
			assert.Equal(t, []string{"cancel"}, eng.submitted)
		})
	}
}

func TestDeviceHandler_Status(t *testing.T) {
	h, _, st := newDeviceHandler()
	st.status = light.Status{Version: "1.0.0", Brightness: 128, Timestamp: 42, Power: light.PowerTurningOn}

	out, err := h.Status(context.Background(), &StatusInput{})
	require.NoError(t, err)
	assert.Equal(t, st.status, out.Body)
}

func TestDeviceHandler_ListAlarms(t *testing.T) {
	h, _, st := newDeviceHandler()

	out, err := h.ListAlarms(context.Background(), &ListAlarmsInput{})
	require.NoError(t, err)
	assert.NotNil(t, out.Body)
	assert.Empty(t, out.Body)

	st.alarms = []light.Alarm{
		{Trigger: light.TimeOfDay{Hour: 22, Minute: 15}, Action: light.ActionPowerOff, Duration: 60},
		{Trigger: light.TimeOfDay{Hour: 6, Minute: 30}, Action: light.ActionPowerOn, Duration: 600},
	}
	out, err = h.ListAlarms(context.Background(), &ListAlarmsInput{})
	require.NoError(t, err)
	require.Len(t, out.Body, 2)
	assert.Equal(t, AlarmResponse{Power: 0, Kind: "sunset", Hour: 22, Minute: 15, Duration: 60}, out.Body[0])
	assert.Equal(t, AlarmResponse{Power: 1, Kind: "sunrise", Hour: 6, Minute: 30, Duration: 600}, out.Body[1])
}

// === Logging Handler Tests ===

func TestLoggingHandler_GetAndSetLevel(t *testing.T) {
	var lvl logging.Level
	h := &LoggingHandler{Logger: testLogger(), Level: &lvl}

	got, err := h.GetLevel(context.Background(), &GetLevelInput{})
	require.NoError(t, err)
	assert.Equal(t, "info", got.Body.Level)

	in := &SetLevelInput{}
	in.Body.Level = "debug"
	out, err := h.SetLevel(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "debug", out.Body.Level)
	assert.Equal(t, "debug", lvl.Get())
}

func TestLoggingHandler_SetLevel_Invalid(t *testing.T) {
	var lvl logging.Level
	h := &LoggingHandler{Logger: testLogger(), Level: &lvl}

	in := &SetLevelInput{}
	in.Body.Level = "shouty"
	_, err := h.SetLevel(context.Background(), in)
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	assert.Equal(t, "info", lvl.Get())
}
