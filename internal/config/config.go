package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Engine    EngineConfig    `mapstructure:"engine"`
	Device    DeviceConfig    `mapstructure:"device"`
	MQTT      MQTTConfig      `mapstructure:"mqtt"`
	Discovery DiscoveryConfig `mapstructure:"discovery"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`

	// Internal viper instance
	v *viper.Viper
}

// ServerConfig represents the HTTP and WebSocket listeners
type ServerConfig struct {
	ListenAddress   string `mapstructure:"listen_address"`
	WSListenAddress string `mapstructure:"ws_listen_address"`
}

// EngineConfig controls the scheduler loop
type EngineConfig struct {
	TickInterval     time.Duration `mapstructure:"tick_interval"`
	MaxAlarmDuration int           `mapstructure:"max_alarm_duration"` // seconds
	Timezone         string        `mapstructure:"timezone"`
}

// DeviceConfig describes the light this daemon drives
type DeviceConfig struct {
	Version string `mapstructure:"version"`
	Output  string `mapstructure:"output"`
}

// MQTTConfig configures the optional MQTT state mirror
type MQTTConfig struct {
	Broker      string `mapstructure:"broker"`
	ClientID    string `mapstructure:"client_id"`
	TopicPrefix string `mapstructure:"topic_prefix"`
}

// Enabled reports whether a broker has been configured
func (m MQTTConfig) Enabled() bool {
	return m.Broker != ""
}

// DiscoveryConfig configures mDNS advertisement
type DiscoveryConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Instance string `mapstructure:"instance"`
}

// LoggingConfig represents the logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RateLimitConfig limits requests per client IP
type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.listen_address", DefaultListenAddress)
	v.SetDefault("server.ws_listen_address", DefaultWSListenAddress)
	v.SetDefault("engine.tick_interval", DefaultTickInterval)
	v.SetDefault("engine.max_alarm_duration", MaxAlarmDuration)
	v.SetDefault("engine.timezone", DefaultTimezone)
	v.SetDefault("device.version", "dev")
	v.SetDefault("device.output", OutputLog)
	v.SetDefault("mqtt.broker", "")
	v.SetDefault("mqtt.client_id", "sunrised")
	v.SetDefault("mqtt.topic_prefix", DefaultMQTTTopicPrefix)
	v.SetDefault("discovery.enabled", false)
	v.SetDefault("discovery.instance", DefaultDiscoveryInstance)
	v.SetDefault("logging.level", LogLevelInfo)
	v.SetDefault("logging.format", LogFormatText)
	v.SetDefault("ratelimit.requests_per_minute", DefaultRequestsPerMinute)
}

// New creates a Config holding defaults, backed by the given viper instance.
// A nil viper gets a fresh one.
func New(v *viper.Viper) *Config {
	if v == nil {
		v = viper.New()
	}
	setDefaults(v)
	cfg := &Config{v: v}
	_ = v.Unmarshal(cfg)
	cfg.normalize()
	return cfg
}

// Load loads configuration from a file and environment variables.
// A missing file is not an error; a malformed one is.
func Load(configName, configFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		slog.Debug("Using config file from command line", "path", configFile)
	} else {
		configPath := GetConfigPath(configName)
		v.SetConfigFile(configPath)
		if _, err := os.Stat(configPath); err == nil {
			slog.Info("Using default config file", "path", configPath)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{v: v}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	c.Engine.TickInterval = ValidateTickInterval(c.Engine.TickInterval)
	c.Engine.MaxAlarmDuration = ValidateMaxAlarmDuration(c.Engine.MaxAlarmDuration)
	if c.Engine.Timezone == "" {
		c.Engine.Timezone = DefaultTimezone
	}
	if c.Device.Output == "" {
		c.Device.Output = OutputLog
	}
}

// Refresh re-reads the configuration from the backing viper instance, picking up
// values bound after Load (command line flags).
func (c *Config) Refresh() error {
	if err := c.v.Unmarshal(c); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}
	c.normalize()
	return nil
}

// Watch calls onChange with a freshly unmarshaled copy of the configuration
// whenever the loaded file changes on disk. Explicitly set flags keep
// precedence over the file. It returns false when no config file exists to
// watch. The receiver is never modified; only the copy sees new values.
func (c *Config) Watch(logger *slog.Logger, onChange func(*Config)) bool {
	path := c.v.ConfigFileUsed()
	if path == "" {
		return false
	}
	if _, err := os.Stat(path); err != nil {
		return false
	}

	c.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		next := &Config{v: c.v}
		if err := c.v.Unmarshal(next); err != nil {
			logger.Warn("Ignoring invalid config change", "path", e.Name, "error", err)
			return
		}
		next.normalize()
		logger.Info("Config file changed", "path", e.Name)
		onChange(next)
	})
	c.v.WatchConfig()
	logger.Debug("Watching config file", "path", path)
	return true
}

// Viper exposes the backing viper instance so flags can be bound on top of the file values.
func (c *Config) Viper() *viper.Viper {
	return c.v
}

// Save writes the configuration to the given path, creating the directory if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	c.v.Set("server.listen_address", c.Server.ListenAddress)
	c.v.Set("server.ws_listen_address", c.Server.WSListenAddress)
	c.v.Set("engine.tick_interval", c.Engine.TickInterval.String())
	c.v.Set("engine.max_alarm_duration", c.Engine.MaxAlarmDuration)
	c.v.Set("engine.timezone", c.Engine.Timezone)
	c.v.Set("device.version", c.Device.Version)
	c.v.Set("device.output", c.Device.Output)
	c.v.Set("mqtt.broker", c.MQTT.Broker)
	c.v.Set("mqtt.client_id", c.MQTT.ClientID)
	c.v.Set("mqtt.topic_prefix", c.MQTT.TopicPrefix)
	c.v.Set("discovery.enabled", c.Discovery.Enabled)
	c.v.Set("discovery.instance", c.Discovery.Instance)
	c.v.Set("logging.level", c.Logging.Level)
	c.v.Set("logging.format", c.Logging.Format)
	c.v.Set("ratelimit.requests_per_minute", c.RateLimit.RequestsPerMinute)

	if err := c.v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}
