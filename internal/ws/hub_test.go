package ws

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jmylchreest/sunrised/internal/events"
	"github.com/jmylchreest/sunrised/pkg/light"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type staticSnapshot []events.Event

func (s staticSnapshot) Snapshot() []events.Event { return s }

type message struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

func startTestHub(t *testing.T, snap Snapshotter) (*Hub, *events.Bus, context.CancelFunc) {
	t.Helper()
	bus := events.NewBus()
	logger := testLogger()
	hub := NewHub(logger, bus, snap)

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	// Give the hub's Run loop time to start
	time.Sleep(10 * time.Millisecond)

	return hub, bus, cancel
}

func startTestServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(Handler(hub, testLogger()))
	t.Cleanup(server.Close)
	return server
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func dialWS(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	dialer := websocket.Dialer{Subprotocols: []string{Subprotocol}}
	conn, _, err := dialer.Dial(wsURL(server), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var m message
	require.NoError(t, json.Unmarshal(raw, &m))
	return m
}

// --- Hub lifecycle tests ---

func TestNewHub_CreatesHub(t *testing.T) {
	hub := NewHub(testLogger(), events.NewBus(), nil)

	assert.NotNil(t, hub)
	assert.NotNil(t, hub.clients)
	assert.NotNil(t, hub.broadcast)
	assert.NotNil(t, hub.register)
	assert.NotNil(t, hub.unregister)
	assert.NotNil(t, hub.unsub)
}

func TestHub_RunAndStop(t *testing.T) {
	hub, bus, cancel := startTestHub(t, nil)
	assert.Equal(t, 0, hub.ClientCount())
	assert.Equal(t, 1, bus.Len())

	cancel()
	assert.Eventually(t, func() bool { return bus.Len() == 0 }, time.Second, 5*time.Millisecond,
		"hub unsubscribes from the bus on stop")
}

func TestHub_ClientCount(t *testing.T) {
	hub, _, cancel := startTestHub(t, nil)
	defer cancel()

	server := startTestServer(t, hub)

	assert.Equal(t, 0, hub.ClientCount())

	conn1 := dialWS(t, server)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, hub.ClientCount())

	conn2 := dialWS(t, server)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 2, hub.ClientCount())

	conn1.Close()
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, hub.ClientCount())

	conn2.Close()
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 0, hub.ClientCount())
}

// --- Handler tests ---

func TestHandler_NegotiatesArduinoSubprotocol(t *testing.T) {
	hub, _, cancel := startTestHub(t, nil)
	defer cancel()
	server := startTestServer(t, hub)

	dialer := websocket.Dialer{Subprotocols: []string{Subprotocol}}
	conn, resp, err := dialer.Dial(wsURL(server), nil)
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	assert.Equal(t, "arduino", conn.Subprotocol())
}

func TestHandler_AcceptsWithoutSubprotocol(t *testing.T) {
	hub, _, cancel := startTestHub(t, nil)
	defer cancel()
	server := startTestServer(t, hub)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server), nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Empty(t, conn.Subprotocol())
}

func TestHandler_NonWebSocketRequest(t *testing.T) {
	hub, _, cancel := startTestHub(t, nil)
	defer cancel()
	server := startTestServer(t, hub)

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	// gorilla/websocket returns 400 Bad Request for non-upgrade requests
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// --- Push tests ---

func TestHub_PushesStatusDeltas(t *testing.T) {
	hub, bus, cancel := startTestHub(t, nil)
	defer cancel()
	server := startTestServer(t, hub)
	conn := dialWS(t, server)
	time.Sleep(20 * time.Millisecond)

	bus.Publish(events.NewStatusEvent(light.BrightnessValue(128)))

	m := readMessage(t, conn)
	assert.Equal(t, "brightness", m.Name)
	assert.Equal(t, float64(128), m.Value)
}

func TestHub_SkipsAlarmEvents(t *testing.T) {
	hub, bus, cancel := startTestHub(t, nil)
	defer cancel()
	server := startTestServer(t, hub)
	conn := dialWS(t, server)
	time.Sleep(20 * time.Millisecond)

	bus.Publish(events.NewAlarmsEvent(nil))
	bus.Publish(events.NewStatusEvent(light.PowerValue(light.PowerOn)))

	m := readMessage(t, conn)
	assert.Equal(t, "power", m.Name)
	assert.Equal(t, float64(1), m.Value)
}

func TestHub_SnapshotOnConnect(t *testing.T) {
	snap := staticSnapshot{
		events.NewStatusEvent(light.PowerValue(light.PowerTurningOn)),
		events.NewStatusEvent(light.BrightnessValue(40)),
		events.NewStatusEvent(light.TimestampValue(1700000000)),
	}
	hub, bus, cancel := startTestHub(t, snap)
	defer cancel()
	server := startTestServer(t, hub)
	conn := dialWS(t, server)

	assert.Equal(t, message{Name: "power", Value: float64(3)}, readMessage(t, conn))
	assert.Equal(t, message{Name: "brightness", Value: float64(40)}, readMessage(t, conn))
	assert.Equal(t, message{Name: "timestamp", Value: float64(1700000000)}, readMessage(t, conn))

	time.Sleep(20 * time.Millisecond)
	bus.Publish(events.NewStatusEvent(light.BrightnessValue(41)))
	assert.Equal(t, message{Name: "brightness", Value: float64(41)}, readMessage(t, conn))
}

func TestHub_BroadcastsToMultipleClients(t *testing.T) {
	hub, bus, cancel := startTestHub(t, nil)
	defer cancel()

	server := startTestServer(t, hub)
	conn1 := dialWS(t, server)
	conn2 := dialWS(t, server)
	time.Sleep(20 * time.Millisecond)

	bus.Publish(events.NewStatusEvent(light.PowerValue(light.PowerOff)))

	var wg sync.WaitGroup
	wg.Add(2)
	var m1, m2 message
	go func() { defer wg.Done(); m1 = readMessage(t, conn1) }()
	go func() { defer wg.Done(); m2 = readMessage(t, conn2) }()
	wg.Wait()

	assert.Equal(t, "power", m1.Name)
	assert.Equal(t, "power", m2.Name)
}

func TestHub_FIFOPerClient(t *testing.T) {
	hub, bus, cancel := startTestHub(t, nil)
	defer cancel()
	server := startTestServer(t, hub)
	conn := dialWS(t, server)
	time.Sleep(20 * time.Millisecond)

	for i := 0; i < 20; i++ {
		bus.Publish(events.NewStatusEvent(light.BrightnessValue(i)))
	}
	for i := 0; i < 20; i++ {
		m := readMessage(t, conn)
		assert.Equal(t, float64(i), m.Value)
	}
}

func TestHub_GreetingIgnored(t *testing.T) {
	hub, bus, cancel := startTestHub(t, nil)
	defer cancel()
	server := startTestServer(t, hub)
	conn := dialWS(t, server)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("Connect 2024-05-01T06:00:00Z")))
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, hub.ClientCount())

	bus.Publish(events.NewStatusEvent(light.PowerValue(light.PowerOn)))
	assert.Equal(t, "power", readMessage(t, conn).Name)
}

// --- Hub shutdown tests ---

func TestHub_ShutdownClosesClients(t *testing.T) {
	hub, _, cancel := startTestHub(t, nil)

	server := startTestServer(t, hub)
	conn := dialWS(t, server)
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, 1, hub.ClientCount())

	cancel()
	time.Sleep(100 * time.Millisecond)

	conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

func TestHub_RegisterAndUnregisterAfterStop(t *testing.T) {
	hub, _, cancel := startTestHub(t, nil)
	cancel()

	select {
	case <-hub.done:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}

	client := hub.NewClient(nil)
	returned := make(chan struct{})
	go func() {
		hub.Register(client)
		hub.Unregister(client)
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Register/Unregister blocked on a stopped hub")
	}
	_, open := <-client.send
	assert.False(t, open, "send closed so the write pump exits")
	assert.Zero(t, hub.ClientCount())
}

// --- NewClient tests ---

func TestNewClient(t *testing.T) {
	hub := NewHub(testLogger(), events.NewBus(), nil)

	client := hub.NewClient(nil) // nil conn is okay for testing the struct fields
	assert.Equal(t, hub, client.hub)
	assert.Nil(t, client.conn)
	assert.NotNil(t, client.send)
	assert.Equal(t, sendBufferSize, cap(client.send))
	assert.Len(t, client.ID(), 36)
	assert.NotEqual(t, client.ID(), hub.NewClient(nil).ID())
}
