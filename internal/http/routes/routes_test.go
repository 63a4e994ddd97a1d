package routes

import (
	"testing"

	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_StubsProduceOpenAPI(t *testing.T) {
	api := humachi.New(chi.NewRouter(), NewHumaConfig("test", "http://10.0.0.1"))
	Register(api, StubHandlers())

	doc := api.OpenAPI()
	require.NotNil(t, doc.Paths)
	for _, path := range []string{
		"/systemTime", "/updateLightState", "/scheduleAlarm", "/cancelScheduledAlarms", "/status",
		"/api/v1/health", "/api/v1/version", "/api/v1/alarms", "/api/v1/logging/level",
	} {
		assert.Contains(t, doc.Paths, path)
	}
	assert.NotContains(t, doc.Paths, "/healthz", "hidden routes stay out of the OpenAPI document")

	op := doc.Paths["/scheduleAlarm"].Get
	require.NotNil(t, op)
	assert.Equal(t, "scheduleAlarm", op.OperationID)
	var names []string
	for _, p := range op.Parameters {
		names = append(names, p.Name)
		assert.Equal(t, "query", p.In)
		assert.True(t, p.Required)
	}
	assert.ElementsMatch(t, []string{"power", "duration", "hh", "mm"}, names)

	require.Len(t, doc.Servers, 1)
	assert.Equal(t, "http://10.0.0.1", doc.Servers[0].URL)
}
