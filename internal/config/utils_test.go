package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetConfigBaseDir(t *testing.T) {
	tests := []struct {
		name           string
		xdgConfigHome  string
		expectedSuffix string
	}{
		{"system_service", "/etc/sunrised", "/etc/sunrised"},
		{"user_default", "", "/.config/sunrised"},
		{"user_custom_xdg", "/home/user/myconfigs", "/home/user/myconfigs/sunrised"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CONFIG_HOME", tt.xdgConfigHome)

			result := GetConfigBaseDir()
			if tt.xdgConfigHome == "" {
				assert.True(t, filepath.IsAbs(result))
				assert.True(t, strings.HasSuffix(result, tt.expectedSuffix), result)
				return
			}
			assert.Equal(t, tt.expectedSuffix, result)
		})
	}
}

func TestGetDaemonConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/etc/sunrised")
	assert.Equal(t, "/etc/sunrised/sunrised.yaml", GetDaemonConfigPath())
	assert.Equal(t, "/etc/sunrised/sunrisectl.yaml", GetClientConfigPath())
}

func TestValidateTickInterval(t *testing.T) {
	assert.Equal(t, MinTickInterval, ValidateTickInterval(0))
	assert.Equal(t, time.Second, ValidateTickInterval(time.Second))
}

func TestValidateMaxAlarmDuration(t *testing.T) {
	assert.Equal(t, MaxAlarmDuration, ValidateMaxAlarmDuration(0))
	assert.Equal(t, 60, ValidateMaxAlarmDuration(60))
	assert.Equal(t, MaxAlarmDuration, ValidateMaxAlarmDuration(MaxAlarmDuration+1))
}
