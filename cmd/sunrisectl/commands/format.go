package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/sunrised/pkg/client"
	"github.com/jmylchreest/sunrised/pkg/light"
)

// Output formats accepted by --output.
const (
	OutputTable     = "table"
	OutputJSON      = "json"
	OutputYAML      = "yaml"
	OutputParseable = "parseable"
)

func outputFormat(cmd *cobra.Command) (string, error) {
	format, _ := cmd.Flags().GetString("output")
	switch format {
	case "", OutputTable:
		return OutputTable, nil
	case OutputJSON, OutputYAML, OutputParseable:
		return format, nil
	default:
		return "", fmt.Errorf("unknown output format %q (table, json, yaml, parseable)", format)
	}
}

// writeStructured prints v as JSON or YAML. It reports false for the other formats.
func writeStructured(w io.Writer, format string, v any) (bool, error) {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case OutputYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return true, enc.Encode(v)
	default:
		return false, nil
	}
}

func renderTable(w io.Writer, data pterm.TableData) error {
	return pterm.DefaultTable.WithHasHeader().WithWriter(w).WithData(data).Render()
}

// formatDeviceTime renders a device timestamp; 0 means the clock was never synced.
func formatDeviceTime(ts int64) string {
	if ts <= 0 {
		return "unsynchronized"
	}
	return time.Unix(ts, 0).UTC().Format(time.RFC3339)
}

// StatusTableData returns the table data for a status snapshot.
func StatusTableData(st light.Status) pterm.TableData {
	return pterm.TableData{
		[]string{"Property", "Value"},
		[]string{"Version", st.Version},
		[]string{"Power", st.Power.String()},
		[]string{"Brightness", fmt.Sprintf("%d", st.Brightness)},
		[]string{"Device Time", formatDeviceTime(st.Timestamp)},
	}
}

// StatusParseable returns the key=value line for a status snapshot.
func StatusParseable(st light.Status) string {
	return fmt.Sprintf("version=%q power=%d brightness=%d timestamp=%d", st.Version, int(st.Power), st.Brightness, st.Timestamp)
}

// AlarmsTableData returns the table data for pending alarms.
func AlarmsTableData(alarms []client.Alarm) pterm.TableData {
	data := pterm.TableData{[]string{"Kind", "Time", "Duration"}}
	for _, a := range alarms {
		data = append(data, []string{a.Kind, a.Trigger(), (time.Duration(a.Duration) * time.Second).String()})
	}
	return data
}

// AlarmParseable returns the key=value line for an alarm.
func AlarmParseable(a client.Alarm) string {
	return fmt.Sprintf("kind=%q power=%d time=%q duration=%d", a.Kind, a.Power, a.Trigger(), a.Duration)
}

// success prints a confirmation unless a machine format was requested.
func success(cmd *cobra.Command, format string, msg string, args ...any) {
	if format != OutputTable {
		return
	}
	pterm.Success.WithWriter(cmd.OutOrStdout()).Println(strings.TrimSpace(fmt.Sprintf(msg, args...)))
}
