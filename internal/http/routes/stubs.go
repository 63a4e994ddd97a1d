package routes

import (
	"context"

	"github.com/jmylchreest/sunrised/internal/http/handlers"
)

// StubHandlers returns a Handlers instance with stub implementations.
// All handlers return nil responses; these are only used for OpenAPI generation
// where Huma extracts type information from function signatures.
func StubHandlers() *Handlers {
	return &Handlers{
		HealthCheck: func(_ context.Context, _ *handlers.HealthInput) (*handlers.HealthOutput, error) {
			return nil, nil
		},
		VersionCheck: func(_ context.Context, _ *handlers.VersionInput) (*handlers.VersionOutput, error) {
			return nil, nil
		},
		Device:  &stubDeviceHandlers{},
		Logging: &stubLoggingHandlers{},
	}
}

// --- Device stubs ---

type stubDeviceHandlers struct{}

func (s *stubDeviceHandlers) SystemTime(_ context.Context, _ *handlers.SystemTimeInput) (*handlers.EmptyOutput, error) {
	return nil, nil
}

func (s *stubDeviceHandlers) UpdateLightState(_ context.Context, _ *handlers.UpdateLightStateInput) (*handlers.EmptyOutput, error) {
	return nil, nil
}

func (s *stubDeviceHandlers) ScheduleAlarm(_ context.Context, _ *handlers.ScheduleAlarmInput) (*handlers.EmptyOutput, error) {
	return nil, nil
}

func (s *stubDeviceHandlers) CancelScheduledAlarms(_ context.Context, _ *handlers.CancelAlarmsInput) (*handlers.EmptyOutput, error) {
	return nil, nil
}

func (s *stubDeviceHandlers) Status(_ context.Context, _ *handlers.StatusInput) (*handlers.StatusOutput, error) {
	return nil, nil
}

func (s *stubDeviceHandlers) ListAlarms(_ context.Context, _ *handlers.ListAlarmsInput) (*handlers.ListAlarmsOutput, error) {
	return nil, nil
}

// --- Logging stubs ---

type stubLoggingHandlers struct{}

func (s *stubLoggingHandlers) GetLevel(_ context.Context, _ *handlers.GetLevelInput) (*handlers.GetLevelOutput, error) {
	return nil, nil
}

func (s *stubLoggingHandlers) SetLevel(_ context.Context, _ *handlers.SetLevelInput) (*handlers.SetLevelOutput, error) {
	return nil, nil
}
