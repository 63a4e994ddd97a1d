package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"

	"github.com/jmylchreest/sunrised/internal/actuator"
	"github.com/jmylchreest/sunrised/internal/clock"
	"github.com/jmylchreest/sunrised/internal/config"
	"github.com/jmylchreest/sunrised/internal/discovery"
	"github.com/jmylchreest/sunrised/internal/engine"
	"github.com/jmylchreest/sunrised/internal/events"
	"github.com/jmylchreest/sunrised/internal/http/handlers"
	"github.com/jmylchreest/sunrised/internal/http/mw"
	"github.com/jmylchreest/sunrised/internal/http/routes"
	"github.com/jmylchreest/sunrised/internal/logging"
	"github.com/jmylchreest/sunrised/internal/mqtt"
	"github.com/jmylchreest/sunrised/internal/state"
	"github.com/jmylchreest/sunrised/internal/web"
	"github.com/jmylchreest/sunrised/internal/ws"
)

const (
	shutdownTimeout = 5 * time.Second

	// wsPath is where the bundled front end dials the push channel on the API listener.
	wsPath = "/ws"
)

// Options carries build metadata and test hooks.
type Options struct {
	Build handlers.VersionInfo
	// Level is the runtime log level the logging endpoints change. Defaults to logging.Global().
	Level *logging.Level
	// Now replaces the monotonic clock.
	Now clock.Source
}

// Server manages the sunrised daemon: the engine loop, the HTTP API, the
// WebSocket push channel and the optional MQTT and mDNS integrations.
type Server struct {
	logger     *slog.Logger
	cfg        *config.Config
	bus        *events.Bus
	publisher  *state.Publisher
	engine     *engine.Engine
	hub        *ws.Hub
	router     chi.Router
	mqtt       *mqtt.Client
	advertiser *discovery.Advertiser
	stopMirror func()

	httpServer *http.Server
	wsServer   *http.Server
	httpAddr   net.Addr
	wsAddr     net.Addr

	wg         sync.WaitGroup
	rootCtx    context.Context
	rootCancel context.CancelFunc
	stopOnce   sync.Once
}

// New wires the engine, API and push channel. When an MQTT broker is
// configured the connection is established here, since the light output may
// depend on it.
func New(ctx context.Context, logger *slog.Logger, cfg *config.Config, opts Options) (*Server, error) {
	if opts.Level == nil {
		opts.Level = logging.Global()
	}
	version := cfg.Device.Version
	if version == "" {
		version = opts.Build.Version
	}

	loc, err := clock.LoadLocation(cfg.Engine.Timezone)
	if err != nil {
		logger.Warn("Unknown timezone, using UTC", "timezone", cfg.Engine.Timezone, "error", err)
	}

	s := &Server{
		logger: logger,
		cfg:    cfg,
		bus:    events.NewBus(),
	}
	s.rootCtx, s.rootCancel = context.WithCancel(context.Background())
	s.publisher = state.New(version, s.bus, logger)

	var output actuator.Output = actuator.NewLogOutput(logger)
	if cfg.MQTT.Enabled() {
		s.mqtt, err = mqtt.Connect(ctx, mqtt.Config{
			Broker:      cfg.MQTT.Broker,
			ClientID:    cfg.MQTT.ClientID,
			TopicPrefix: cfg.MQTT.TopicPrefix,
		}, logger)
		if err != nil {
			s.rootCancel()
			return nil, fmt.Errorf("failed to connect to MQTT broker: %w", err)
		}
		if cfg.Device.Output == config.OutputMQTT {
			output = actuator.MultiOutput{output, s.mqtt.Output()}
		}
	} else if cfg.Device.Output == config.OutputMQTT {
		logger.Warn("MQTT output selected but no broker configured, logging only")
	}

	s.engine = engine.New(engine.Options{
		Now:              opts.Now,
		Location:         loc,
		Output:           output,
		Publisher:        s.publisher,
		TickInterval:     cfg.Engine.TickInterval,
		MaxAlarmDuration: cfg.Engine.MaxAlarmDuration,
		Logger:           logger,
	})
	s.hub = ws.NewHub(logger, s.bus, s.publisher)
	s.router = s.newRouter(version, opts)
	return s, nil
}

func (s *Server) newRouter(version string, opts Options) chi.Router {
	router := chi.NewRouter()
	router.Use(mw.RequestLogging(s.logger))
	router.Use(mw.RateLimitByIP(mw.RateLimitConfig{
		RequestsPerMinute: s.cfg.RateLimit.RequestsPerMinute,
		Exempt:            []string{wsPath},
	}, s.logger))
	router.Use(mw.LegacyQuery(s.logger))

	api := humachi.New(router, routes.NewHumaConfig(version, ""))
	routes.Register(api, &routes.Handlers{
		HealthCheck:  handlers.HealthCheck,
		VersionCheck: handlers.VersionCheck(opts.Build),
		Device:       &handlers.DeviceHandler{Engine: s.engine, State: s.publisher, Logger: s.logger},
		Logging:      &handlers.LoggingHandler{Logger: s.logger, Level: opts.Level},
	})

	router.Get(wsPath, ws.Handler(s.hub, s.logger))
	web.Mount(router)
	return router
}

// Handler returns the HTTP API router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Engine returns the scheduler engine.
func (s *Server) Engine() *engine.Engine {
	return s.engine
}

// Publisher returns the published device state.
func (s *Server) Publisher() *state.Publisher {
	return s.publisher
}

// Addr returns the bound API address, or nil before Start.
func (s *Server) Addr() net.Addr {
	return s.httpAddr
}

// WSAddr returns the bound dedicated WebSocket address, or nil when disabled.
func (s *Server) WSAddr() net.Addr {
	return s.wsAddr
}

// Start runs the engine and hub and begins serving.
func (s *Server) Start() error {
	s.logger.Info("Starting sunrised server")

	s.goSafe("engine", func() { s.engine.Run(s.rootCtx) })
	s.goSafe("WebSocket hub", func() { s.hub.Run(s.rootCtx) })

	if s.mqtt != nil {
		s.stopMirror = s.mqtt.Mirror(s.bus, s.publisher.Snapshot()...)
		if err := s.mqtt.ServeCommands(s.rootCtx, s.engine); err != nil {
			s.logger.Error("MQTT command subscription failed", "error", err)
		}
	}

	var err error
	s.httpServer, s.httpAddr, err = s.serve("HTTP API", s.cfg.Server.ListenAddress, s.router)
	if err != nil {
		return err
	}

	if s.cfg.Server.WSListenAddress != "" {
		s.wsServer, s.wsAddr, err = s.serve("WebSocket", s.cfg.Server.WSListenAddress, ws.Handler(s.hub, s.logger))
		if err != nil {
			return err
		}
	}

	if s.cfg.Discovery.Enabled {
		s.advertise()
	}
	return nil
}

func (s *Server) serve(name, address string, handler http.Handler) (*http.Server, net.Addr, error) {
	ln, err := net.Listen("tcp", address)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to listen on %s: %w", address, err)
	}
	s.logger.Info("Starting "+name+" server", "address", ln.Addr().String())

	srv := &http.Server{
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	s.goSafe(name+" server", func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error(name+" server failed", "error", err)
		}
		s.logger.Info(name + " server stopped")
	})
	return srv, ln.Addr(), nil
}

func (s *Server) advertise() {
	tcp, ok := s.httpAddr.(*net.TCPAddr)
	if !ok {
		return
	}
	a, err := discovery.Advertise(discovery.Advertisement{
		Instance: s.cfg.Discovery.Instance,
		Port:     tcp.Port,
		Version:  s.publisher.Status().Version,
		Path:     "/",
	}, s.logger)
	if err != nil {
		s.logger.Warn("mDNS advertisement failed", "error", err)
		return
	}
	s.advertiser = a
}

func (s *Server) goSafe(name string, fn func()) {
	s.wg.Go(func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("panic in "+name, "recover", r)
			}
		}()
		fn()
	})
}

// Stop gracefully shuts down the server. It is safe to call more than once.
func (s *Server) Stop() {
	s.stopOnce.Do(s.stop)
}

func (s *Server) stop() {
	s.logger.Info("Shutting down sunrised server")
	s.advertiser.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, srv := range []*http.Server{s.httpServer, s.wsServer} {
		if srv == nil {
			continue
		}
		if err := srv.Shutdown(ctx); err != nil {
			s.logger.Error("HTTP server shutdown failed", "error", err)
		}
	}

	s.rootCancel()

	if s.stopMirror != nil {
		s.stopMirror()
	}
	if s.mqtt != nil {
		if err := s.mqtt.Close(ctx); err != nil {
			s.logger.Error("MQTT disconnect failed", "error", err)
		}
	}

	s.logger.Info("Waiting for services to stop...")
	s.wg.Wait()
	s.logger.Info("sunrised server shut down gracefully")
}
