package config

import "time"

// Common constants shared between daemon and client
const (
	// ConfigDirName is the name of the config directory within XDG_CONFIG_HOME
	ConfigDirName = "sunrised"

	// DaemonConfigFilename is the base filename for daemon config
	DaemonConfigFilename = "sunrised.yaml"

	// ClientConfigFilename is the base filename for client config
	ClientConfigFilename = "sunrisectl.yaml"

	// EnvPrefix is the prefix for environment variable overrides (SUNRISE_SERVER_LISTEN_ADDRESS, ...)
	EnvPrefix = "SUNRISE"

	// DefaultListenAddress is the default HTTP listen address
	DefaultListenAddress = ":80"

	// DefaultWSListenAddress is the dedicated WebSocket listener the stock front end dials
	DefaultWSListenAddress = ":81"

	// DefaultDeviceURL is the default base URL sunrisectl talks to
	DefaultDeviceURL = "http://127.0.0.1:80"

	// DefaultTimezone is the zone alarm triggers are compared in
	DefaultTimezone = "UTC"

	// DefaultMQTTTopicPrefix is the root topic for the MQTT state mirror
	DefaultMQTTTopicPrefix = "sunrised"

	// DefaultDiscoveryInstance is the mDNS instance name
	DefaultDiscoveryInstance = "sunrised"

	// DefaultRequestsPerMinute is the per-IP API rate limit
	DefaultRequestsPerMinute = 120
)

// Engine timing
const (
	// DefaultTickInterval is the default scheduler loop cadence
	DefaultTickInterval = 250 * time.Millisecond

	// MinTickInterval is the minimum allowed tick interval
	MinTickInterval = 10 * time.Millisecond

	// DefaultCommandQueueSize is the capacity of the engine's inbound command queue
	DefaultCommandQueueSize = 32
)

// Light and alarm constraints
const (
	// MinBrightness is the minimum output level
	MinBrightness = 0

	// MaxBrightness is the maximum output level
	MaxBrightness = 255

	// MinAlarmDuration is the shortest animation an alarm may request, in seconds
	MinAlarmDuration = 1

	// MaxAlarmDuration mirrors the front end's duration input cap, in seconds
	MaxAlarmDuration = 3600

	// MaxTimestamp is the latest epoch /systemTime accepts (9999-12-31T23:59:59Z)
	MaxTimestamp = 253402300799

	// DefaultAnimationDuration is used when an animated mode arrives with duration 0, in seconds
	DefaultAnimationDuration = 3
)

// Logging constants
const (
	// LogLevelDebug represents debug log level
	LogLevelDebug = "debug"

	// LogLevelInfo represents info log level
	LogLevelInfo = "info"

	// LogLevelWarn represents warning log level
	LogLevelWarn = "warn"

	// LogLevelError represents error log level
	LogLevelError = "error"

	// LogFormatText represents text log format
	LogFormatText = "text"

	// LogFormatJSON represents JSON log format
	LogFormatJSON = "json"
)

// Output drivers
const (
	// OutputLog writes brightness changes to the log only
	OutputLog = "log"

	// OutputMQTT publishes brightness changes to an MQTT topic for a remote driver
	OutputMQTT = "mqtt"
)
