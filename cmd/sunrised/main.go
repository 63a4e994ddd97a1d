package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/jmylchreest/sunrised/internal/config"
	"github.com/jmylchreest/sunrised/internal/http/handlers"
	"github.com/jmylchreest/sunrised/internal/logging"
	"github.com/jmylchreest/sunrised/internal/server"
	"github.com/jmylchreest/sunrised/internal/utils"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

const mqttConnectTimeout = 15 * time.Second

// flagBindings maps command line flags onto config keys.
var flagBindings = map[string]string{
	"log-level":   "logging.level",
	"log-format":  "logging.format",
	"listen":      "server.listen_address",
	"ws-listen":   "server.ws_listen_address",
	"timezone":    "engine.timezone",
	"mqtt-broker": "mqtt.broker",
	"discovery":   "discovery.enabled",
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("sunrised", pflag.ContinueOnError)
	fs.String("log-level", config.LogLevelInfo, "Log level (debug, info, warn, error)")
	fs.String("log-format", config.LogFormatText, "Log format (text, json)")
	fs.String("config", "", "Path to config file")
	fs.String("listen", config.DefaultListenAddress, "HTTP listen address")
	fs.String("ws-listen", config.DefaultWSListenAddress, "Dedicated WebSocket listen address (empty disables)")
	fs.String("timezone", config.DefaultTimezone, "Zone alarm times are compared in")
	fs.String("mqtt-broker", "", "MQTT broker URL, e.g. tcp://localhost:1883")
	fs.Bool("discovery", false, "Advertise over mDNS")
	fs.Bool("version", false, "Print version and exit")
	return fs
}

// loadConfig parses args, loads the config file and environment, and lets
// explicitly set flags take precedence.
func loadConfig(fs *pflag.FlagSet, args []string) (*config.Config, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	configFile, _ := fs.GetString("config")

	cfg, err := config.Load(config.DaemonConfigFilename, configFile)
	if err != nil {
		return nil, err
	}

	v := cfg.Viper()
	for flag, key := range flagBindings {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return nil, fmt.Errorf("binding flag %s: %w", flag, err)
		}
	}
	if err := cfg.Refresh(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// reloadLogLevel applies logging.level from a changed config file to lvl.
func reloadLogLevel(lvl *logging.Level, logger *slog.Logger) func(*config.Config) {
	return func(next *config.Config) {
		prev := lvl.Get()
		if err := lvl.Set(next.Logging.Level); err != nil {
			logger.Warn("Ignoring log level from config file", "level", next.Logging.Level, "error", err)
			return
		}
		if cur := lvl.Get(); cur != prev {
			logger.Info("Log level changed", "from", prev, "to", cur)
		}
	}
}

func main() {
	fs := newFlagSet()
	cfg, err := loadConfig(fs, os.Args[1:])
	if err != nil {
		logger := utils.SetupErrorLogger()
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if showVersion, _ := fs.GetBool("version"); showVersion {
		fmt.Printf("sunrised %s (commit %s, built %s)\n", version, commit, buildDate)
		return
	}

	logger := utils.SetupLogger(cfg.Logging.Level, cfg.Logging.Format)
	utils.SetAsDefaultLogger(logger)

	logger.Info("Starting sunrised",
		"version", version,
		"commit", commit,
		"buildDate", buildDate,
	)

	cfg.Watch(logger, reloadLogLevel(logging.Global(), logger))

	ctx, cancel := context.WithTimeout(context.Background(), mqttConnectTimeout)
	srv, err := server.New(ctx, logger, cfg, server.Options{
		Build: handlers.VersionInfo{Version: version, Commit: commit, BuildDate: buildDate},
	})
	cancel()
	if err != nil {
		logger.Error("Failed to create server", "error", err)
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("Failed to start server", "error", err)
		srv.Stop()
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	logger.Info("Shutting down...")
	srv.Stop()
}
