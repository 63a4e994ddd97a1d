package config

import (
	"os"
	"path/filepath"
	"time"
)

// GetConfigBaseDir returns the base directory for configuration files
func GetConfigBaseDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		// For system service, XDG_CONFIG_HOME is set to /etc/sunrised
		// so we return it directly without appending ConfigDirName
		if dir == "/etc/sunrised" {
			return dir
		}
		return filepath.Join(dir, ConfigDirName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", ConfigDirName)
}

// GetConfigPath returns the full path to a configuration file
func GetConfigPath(filename string) string {
	return filepath.Join(GetConfigBaseDir(), filename)
}

// GetDaemonConfigPath returns the full path to the daemon configuration file
func GetDaemonConfigPath() string {
	return GetConfigPath(DaemonConfigFilename)
}

// GetClientConfigPath returns the full path to the client configuration file
func GetClientConfigPath() string {
	return GetConfigPath(ClientConfigFilename)
}

// ValidateTickInterval clamps the tick interval to the minimum allowed value
func ValidateTickInterval(interval time.Duration) time.Duration {
	if interval < MinTickInterval {
		return MinTickInterval
	}
	return interval
}

// ValidateMaxAlarmDuration keeps the configured ceiling within [MinAlarmDuration, MaxAlarmDuration]
func ValidateMaxAlarmDuration(seconds int) int {
	switch {
	case seconds < MinAlarmDuration:
		return MaxAlarmDuration
	case seconds > MaxAlarmDuration:
		return MaxAlarmDuration
	default:
		return seconds
	}
}
