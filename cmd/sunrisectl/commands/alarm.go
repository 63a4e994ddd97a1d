package commands

import (
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/sunrised/pkg/client"
	"github.com/jmylchreest/sunrised/pkg/light"
)

// NewAlarmCommands creates the clock and alarm commands
func NewAlarmCommands() []*cobra.Command {
	return []*cobra.Command{
		newSyncCommand(),
		newScheduleCommand(),
		newCancelCommand(),
		newAlarmsCommand(),
	}
}

// newSyncCommand creates the sync command
func newSyncCommand() *cobra.Command {
	var epoch int64
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Set the device clock to this machine's time",
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

			t := time.Now()
			if epoch > 0 {
				t = time.Unix(epoch, 0)
			}
			if err := c.SyncTime(cmd.Context(), t); err != nil {
				return fmt.Errorf("failed to sync time: %w", err)
			}
			success(cmd, format, "Device clock set to %s", t.UTC().Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().Int64Var(&epoch, "time", 0, "Epoch seconds to set instead of the current time")
	return cmd
}

func parseAction(s string) (light.Action, error) {
	switch s {
	case "on", "sunrise", "1":
		return light.ActionPowerOn, nil
	case "off", "sunset", "0":
		return light.ActionPowerOff, nil
	default:
		return 0, fmt.Errorf("invalid alarm kind %q: use on|sunrise or off|sunset", s)
	}
}

// newScheduleCommand creates the schedule command
func newScheduleCommand() *cobra.Command {
	var duration int
	cmd := &cobra.Command{
		Use:   "schedule on|off HH:MM",
		Short: "Schedule a one-shot sunrise (on) or sunset (off)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := clientFrom(cmd)
			if err != nil {
				return err
			}
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}

			action, err := parseAction(args[0])
			if err != nil {
				return err
			}
			at, err := light.ParseTimeOfDay(args[1])
			if err != nil {
				return fmt.Errorf("invalid time %q: %w", args[1], err)
			}

			if err := c.ScheduleAlarm(cmd.Context(), action, at, duration); err != nil {
				return fmt.Errorf("failed to schedule alarm: %w", err)
			}
			success(cmd, format, "Scheduled %s at %s over %ds", action, at, duration)
			return nil
		},
	}
	cmd.Flags().IntVarP(&duration, "duration", "d", 3, "Animation duration in seconds")
	return cmd
}

// newCancelCommand creates the cancel command
func newCancelCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel",
		Short: "Cancel every scheduled alarm",
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
			if err := c.CancelAlarms(cmd.Context()); err != nil {
				return fmt.Errorf("failed to cancel alarms: %w", err)
			}
			success(cmd, format, "Scheduled alarms cancelled")
			return nil
		},
	}
}

// newAlarmsCommand creates the alarms command
func newAlarmsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "alarms",
		Short: "List pending alarms",
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

			alarms, err := c.Alarms(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get alarms: %w", err)
			}
			if alarms == nil {
				alarms = []client.Alarm{}
			}

			if ok, err := writeStructured(cmd.OutOrStdout(), format, alarms); ok {
				return err
			}
			if format == OutputParseable {
				for _, a := range alarms {
					fmt.Fprintln(cmd.OutOrStdout(), AlarmParseable(a))
				}
				return nil
			}
			if len(alarms) == 0 {
				pterm.Info.WithWriter(cmd.OutOrStdout()).Println("No alarms scheduled")
				return nil
			}
			return renderTable(cmd.OutOrStdout(), AlarmsTableData(alarms))
		},
	}
}
