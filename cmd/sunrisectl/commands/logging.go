package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLogLevelCommand creates the log-level command
func NewLogLevelCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "log-level [level]",
		Short: "Show or change the daemon's log level",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := clientFrom(cmd)
			if err != nil {
				return err
			}
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}

			var level string
			if len(args) == 0 {
				level, err = c.LogLevel(cmd.Context())
			} else {
				level, err = c.SetLogLevel(cmd.Context(), args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to access log level: %w", err)
			}

			if ok, err := writeStructured(cmd.OutOrStdout(), format, map[string]string{"level": level}); ok {
				return err
			}
			if format == OutputParseable {
				fmt.Fprintf(cmd.OutOrStdout(), "level=%s\n", level)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), level)
			return nil
		},
	}
}
