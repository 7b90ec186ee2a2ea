package debugserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/recordkit/component"
	"github.com/kbukum/recordkit/logger"
	"github.com/kbukum/recordkit/record"
)

// HealthChecker returns health status for registered components.
type HealthChecker func(ctx context.Context) []component.Health

// Server is a read-only HTTP view over a record registry. It never mutates
// the registry it observes.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     Config
	log        *logger.Logger

	records *record.Registry
	service string
	checker HealthChecker

	mu   sync.Mutex
	addr string
}

// Option configures a Server.
type Option func(*Server)

// WithService sets the service name reported by /health.
func WithService(name string) Option {
	return func(s *Server) { s.service = name }
}

// WithHealthChecker sets the source of component health for /health.
func WithHealthChecker(fn HealthChecker) Option {
	return func(s *Server) { s.checker = fn }
}

// New creates a Server with the standard middleware and routes registered.
func New(cfg Config, records *record.Registry, log *logger.Logger, opts ...Option) *Server {
	if gin.Mode() != gin.TestMode {
		if zerolog.GlobalLevel() <= zerolog.DebugLevel {
			gin.SetMode(gin.DebugMode)
		} else {
			gin.SetMode(gin.ReleaseMode)
		}
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}

	engine := gin.New()

	h2s := &http2.Server{
		MaxConcurrentStreams: 64,
		IdleTimeout:          time.Duration(cfg.IdleTimeout) * time.Second,
	}

	s := &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      h2c.NewHandler(engine, h2s),
			ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
			WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
			IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
		},
		engine:  engine,
		config:  cfg,
		log:     log.WithComponent(componentName),
		records: records,
		service: "recordkit",
	}
	for _, opt := range opts {
		opt(s)
	}
	s.addr = s.httpServer.Addr

	engine.Use(Recovery(s.log), RequestID(), RequestLogger(s.log))
	s.registerRoutes()
	return s
}

// Handler returns the root handler, including h2c upgrade support.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start binds the port and begins serving. It returns once the listener is
// bound; serving continues in a goroutine.
func (s *Server) Start(ctx context.Context) error {
	s.log.Info("Starting debug server", map[string]interface{}{
		"addr": s.httpServer.Addr,
	})

	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("debug server failed to bind %s: %w", s.httpServer.Addr, err)
	}

	s.mu.Lock()
	s.addr = listener.Addr().String()
	s.mu.Unlock()

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("Debug server error", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	s.log.Info("Debug server started", map[string]interface{}{
		"addr": s.Addr(),
	})
	return nil
}

// Stop gracefully shuts down the server with a 5-second deadline.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("Shutting down debug server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.log.Error("Debug server shutdown error", map[string]interface{}{
			"error": err.Error(),
		})
		return fmt.Errorf("debug server shutdown error: %w", err)
	}
	return nil
}

// Addr returns the listen address. After Start it is the bound address,
// which differs from the configured one when port 0 was requested.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}
