package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/sunrised/pkg/light"
)

// newStatusCommand creates the status command
func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show power, brightness and device time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := clientFrom(cmd)
			if err != nil {
				return err
			}
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}

			st, err := c.Status(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get status: %w", err)
			}

			if ok, err := writeStructured(cmd.OutOrStdout(), format, st); ok {
				return err
			}
			if format == OutputParseable {
				fmt.Fprintln(cmd.OutOrStdout(), StatusParseable(st))
				return nil
			}
			return renderTable(cmd.OutOrStdout(), StatusTableData(st))
		},
	}
}

// newModeCommand creates a command that applies a fixed light mode.
// Animated modes take an optional duration argument in seconds.
func newModeCommand(use, short string, mode light.Mode) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := clientFrom(cmd)
			if err != nil {
				return err
			}
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}

			duration := 0
			if len(args) > 0 {
				duration, err = strconv.Atoi(args[0])
				if err != nil || duration < 0 {
					return fmt.Errorf("invalid duration %q: must be a whole number of seconds", args[0])
				}
			}

			if err := c.SetLight(cmd.Context(), mode, duration); err != nil {
				return fmt.Errorf("failed to set light: %w", err)
			}
			if mode.Animated() && duration > 0 {
				success(cmd, format, "Light set to %s over %ds", mode, duration)
			} else {
				success(cmd, format, "Light set to %s", mode)
			}
			return nil
		},
	}
	if mode.Animated() {
		cmd.Use = use + " [seconds]"
		cmd.Args = cobra.MaximumNArgs(1)
	}
	return cmd
}

// NewLightCommands creates the status and light control commands
func NewLightCommands() []*cobra.Command {
	return []*cobra.Command{
		newStatusCommand(),
		newModeCommand("on", "Switch the light on at full brightness", light.ModeOn),
		newModeCommand("off", "Switch the light off", light.ModeOff),
		newModeCommand("sunrise", "Fade the light in (device default duration when omitted)", light.ModeAnimateOn),
		newModeCommand("sunset", "Fade the light out (device default duration when omitted)", light.ModeAnimateOff),
	}
}
