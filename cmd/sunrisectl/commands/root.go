package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/sunrised/internal/config"
	"github.com/jmylchreest/sunrised/internal/utils"
	"github.com/jmylchreest/sunrised/pkg/client"
)

// loggerContextKey is the context key for the CLI logger.
type loggerContextKey struct{}

// NewRootCommand creates the root command
func NewRootCommand(logger *slog.Logger, version, commit, buildDate string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "sunrisectl",
		Short:         "Control a sunrised lighting alarm",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if cmd.Flags().Changed("log-level") || cmd.Flags().Changed("log-format") {
				level, _ := cmd.Flags().GetString("log-level")
				format, _ := cmd.Flags().GetString("log-format")
				ctx = context.WithValue(ctx, loggerContextKey{}, utils.SetupLogger(level, format))
			}
			if _, ok := ctx.Value(ClientContextKey).(client.ClientInterface); !ok {
				url, _ := cmd.Flags().GetString("url")
				logger, _ := ctx.Value(loggerContextKey{}).(*slog.Logger)
				ctx = context.WithValue(ctx, ClientContextKey, client.ClientInterface(client.NewHTTP(logger, url)))
			}
			cmd.SetContext(ctx)
			return nil
		},
	}

	// Add global flags
	cmd.PersistentFlags().String("url", config.DefaultDeviceURL, "Base URL of the sunrised device")
	cmd.PersistentFlags().StringP("output", "o", OutputTable, "Output format (table, json, yaml, parseable)")
	cmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")

	// Add commands
	cmd.AddCommand(newVersionCommand(version, commit, buildDate))
	cmd.AddCommand(NewLightCommands()...)
	cmd.AddCommand(NewAlarmCommands()...)
	cmd.AddCommand(NewLogLevelCommand())

	parent := context.Background()
	if logger != nil {
		parent = context.WithValue(parent, loggerContextKey{}, logger)
	}
	cmd.SetContext(parent)

	return cmd
}

// newVersionCommand creates the version command
func newVersionCommand(version, commit, buildDate string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Client:\n")
			fmt.Fprintf(out, "  Version:    %s\n", version)
			fmt.Fprintf(out, "  Commit:     %s\n", commit)
			fmt.Fprintf(out, "  Build Date: %s\n", buildDate)

			c, err := clientFrom(cmd)
			if err != nil {
				return
			}
			v, err := c.Version(cmd.Context())
			if err != nil {
				fmt.Fprintf(out, "\nDaemon: not reachable\n")
				return
			}
			fmt.Fprintf(out, "\nDaemon:\n")
			fmt.Fprintf(out, "  Version:    %s\n", v.Version)
			fmt.Fprintf(out, "  Commit:     %s\n", v.Commit)
			fmt.Fprintf(out, "  Build Date: %s\n", v.BuildDate)
		},
	}
}
