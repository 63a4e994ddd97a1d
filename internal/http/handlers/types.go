// Package handlers provides typed Huma request/response structs and handler
// implementations for the sunrised HTTP API.
package handlers

import (
	"github.com/jmylchreest/sunrised/pkg/light"
)

// --- Alarm types ---

// AlarmResponse is the API representation of a pending alarm. Field names
// match the scheduleAlarm query parameters.
type AlarmResponse struct {
	Power    int    `json:"power" doc:"1 for a sunrise (power on), 0 for a sunset (power off)"`
	Kind     string `json:"kind" doc:"sunrise or sunset"`
	Hour     int    `json:"hh" doc:"Trigger hour (0-23)"`
	Minute   int    `json:"mm" doc:"Trigger minute (0-59)"`
	Duration int    `json:"duration" doc:"Animation duration in seconds"`
}

// AlarmFromLight converts a light.Alarm to an AlarmResponse.
func AlarmFromLight(a light.Alarm) AlarmResponse {
	return AlarmResponse{
		Power:    int(a.Action),
		Kind:     a.Action.String(),
		Hour:     a.Trigger.Hour,
		Minute:   a.Trigger.Minute,
		Duration: a.Duration,
	}
}

// AlarmsFromLight converts a slice of alarms, never returning nil.
func AlarmsFromLight(alarms []light.Alarm) []AlarmResponse {
	result := make([]AlarmResponse, len(alarms))
	for i, a := range alarms {
		result[i] = AlarmFromLight(a)
	}
	return result
}

// --- Generic types ---

// EmptyOutput is returned by the device endpoints that answer with an empty 200.
type EmptyOutput struct{}
