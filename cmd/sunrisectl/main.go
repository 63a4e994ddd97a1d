package main

import (
	"os"

	"github.com/spf13/viper"

	"github.com/jmylchreest/sunrised/cmd/sunrisectl/commands"
	"github.com/jmylchreest/sunrised/internal/config"
	"github.com/jmylchreest/sunrised/internal/utils"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	cfg, err := config.Load(config.ClientConfigFilename, "")
	if err != nil {
		logger := utils.SetupErrorLogger()
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := utils.SetupLogger(cfg.Logging.Level, cfg.Logging.Format)
	utils.SetAsDefaultLogger(logger)

	rootCmd := commands.NewRootCommand(logger, version, commit, buildDate)

	// SUNRISE_URL sets the device unless --url is given.
	v := viper.New()
	v.SetEnvPrefix(config.EnvPrefix)
	v.AutomaticEnv()
	if url := v.GetString("url"); url != "" {
		_ = rootCmd.PersistentFlags().Set("url", url)
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
