package routes

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/jmylchreest/sunrised/internal/http/mw"
)

// Register registers all API routes with the given Huma API instance.
// Pass real handler implementations for the main server, or stub implementations
// for OpenAPI generation.
func Register(api huma.API, h *Handlers) {
	mw.ValidationAsBadRequest(api)

	// --- Health ---
	mw.PublicGet(api, "/api/v1/health", h.HealthCheck,
		mw.WithTags("Health"),
		mw.WithSummary("Health check"),
		mw.WithDescription("Returns service health status."),
		mw.WithOperationID("healthCheck"))

	mw.HiddenGet(api, "/healthz", h.HealthCheck)

	// --- Version ---
	mw.PublicGet(api, "/api/v1/version", h.VersionCheck,
		mw.WithTags("Version"),
		mw.WithSummary("Daemon version"),
		mw.WithDescription("Returns the running daemon's version, commit, and build date."),
		mw.WithOperationID("getVersion"))

	// --- Device wire endpoints ---
	// Paths and parameter names are fixed by the device front end.
	mw.PublicGet(api, "/systemTime", h.Device.SystemTime,
		mw.WithTags("Device"),
		mw.WithSummary("Set the device clock"),
		mw.WithDescription("Sets device time to the given epoch seconds. The jump is applied immediately; alarms already due fire once."),
		mw.WithOperationID("systemTime"),
		mw.WithDefaultStatus(200))

	mw.PublicGet(api, "/updateLightState", h.Device.UpdateLightState,
		mw.WithTags("Device"),
		mw.WithSummary("Apply a power mode"),
		mw.WithDescription("0=off, 1=on, 2=sunset animation, 3=sunrise animation. Immediate modes cancel any running animation."),
		mw.WithOperationID("updateLightState"),
		mw.WithDefaultStatus(200))

	mw.PublicGet(api, "/scheduleAlarm", h.Device.ScheduleAlarm,
		mw.WithTags("Device"),
		mw.WithSummary("Schedule a sunrise or sunset"),
		mw.WithDescription("Schedules a one-shot alarm at hh:mm. A new alarm replaces any pending alarm with the same power value."),
		mw.WithOperationID("scheduleAlarm"),
		mw.WithDefaultStatus(200))

	mw.PublicGet(api, "/cancelScheduledAlarms", h.Device.CancelScheduledAlarms,
		mw.WithTags("Device"),
		mw.WithSummary("Cancel all alarms"),
		mw.WithDescription("Removes every pending alarm. A running animation is not affected."),
		mw.WithOperationID("cancelScheduledAlarms"),
		mw.WithDefaultStatus(200))

	mw.PublicGet(api, "/status", h.Device.Status,
		mw.WithTags("Device"),
		mw.WithSummary("Device status"),
		mw.WithOperationID("getStatus"))

	// --- Alarms ---
	mw.PublicGet(api, "/api/v1/alarms", h.Device.ListAlarms,
		mw.WithTags("Alarms"),
		mw.WithSummary("List pending alarms"),
		mw.WithOperationID("listAlarms"))

	// --- Logging ---
	mw.PublicGet(api, "/api/v1/logging/level", h.Logging.GetLevel,
		mw.WithTags("Logging"),
		mw.WithSummary("Get global log level"),
		mw.WithOperationID("getLogLevel"))

	mw.PublicPut(api, "/api/v1/logging/level", h.Logging.SetLevel,
		mw.WithTags("Logging"),
		mw.WithSummary("Set global log level"),
		mw.WithDescription("Changes the global log level at runtime. Valid values: debug, info, warn, error."),
		mw.WithOperationID("setLogLevel"))
}
