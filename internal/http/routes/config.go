// Package routes provides shared route registration for the sunrised HTTP API.
// Both the main server and the OpenAPI generator use the same route definitions,
// ensuring the spec is always in sync with the implementation.
package routes

import (
	"github.com/danielgtaylor/huma/v2"
)

// NewHumaConfig creates the shared Huma configuration for the API.
func NewHumaConfig(version, baseURL string) huma.Config {
	cfg := huma.DefaultConfig("sunrised API", version)
	cfg.Info.Description = "Device API for the sunrised lighting alarm: clock sync, light control and sunrise/sunset scheduling."

	// Disable $schema field in responses
	cfg.CreateHooks = nil

	if baseURL != "" {
		cfg.Servers = []*huma.Server{
			{URL: baseURL, Description: "Device"},
		}
	}

	// Define OpenAPI tags
	cfg.Tags = []*huma.Tag{
		{Name: "Device", Description: "Wire endpoints used by the device front end"},
		{Name: "Alarms", Description: "Pending alarm inspection"},
		{Name: "Logging", Description: "Runtime log level management"},
	}

	return cfg
}
