package api

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/r3d91ll/blueprint/pkg/blueprint"
	"github.com/r3d91ll/blueprint/pkg/config"
)

// Server is the HTTP API server. It owns the router, the websocket hub and
// the handlers registered on them.
type Server struct {
	httpServer *http.Server
	router     *Router
	hub        *Hub
	config     *config.Config
	version    string

	// mu protects server state
	mu       sync.RWMutex
	running  bool
	listener net.Listener
}

// NewServer creates a server for cfg that keeps blueprints in store.
// If cfg is nil, config.Default() is used.
func NewServer(cfg *config.Config, store blueprint.Store, version string) *Server {
	if cfg == nil {
		cfg = config.Default()
	}

	s := &Server{
		router:  NewRouter(),
		hub:     NewHub(),
		config:  cfg,
		version: version,
	}

	s.router.GET("/api/health", s.health)
	NewBlueprintHandler(store, s.hub).RegisterRoutes(s.router)
	NewExportHandler(store, cfg, s.hub).RegisterRoutes(s.router)
	NewWebSocketHandler(s.hub).RegisterRoutes(s.router)

	return s
}

// Address returns the configured listen address, or the bound address once
// the server is running.
func (s *Server) Address() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.config.Server.Addr
}

// Router returns the underlying router for registering handlers.
func (s *Server) Router() *Router {
	return s.router
}

// Hub returns the websocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Handler returns the router wrapped in the configured middleware.
func (s *Server) Handler() http.Handler {
	cfg := s.config.Server

	middlewares := []Middleware{RecoveryMiddleware}
	if cfg.EnableLogging {
		middlewares = append(middlewares, LoggingMiddleware)
	}
	middlewares = append(middlewares, RequestIDMiddleware)
	if len(cfg.CORSOrigins) > 0 {
		middlewares = append(middlewares, CORSMiddleware(cfg.CORSOrigins))
		SetUpgraderCheckOrigin(makeOriginChecker(cfg.CORSOrigins))
	}
	middlewares = append(middlewares, ContentTypeMiddleware, BodyLimitMiddleware(cfg.MaxBodyBytes))

	return Chain(s.router, middlewares...)
}

// Start binds the listener and serves in a goroutine. It returns once the
// address is bound.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("server is already running")
	}

	cfg := s.config.Server
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("server failed to start: %w", err)
	}

	s.httpServer = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSec) * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	s.listener = ln
	s.running = true

	go s.hub.Run()
	go func() {
		log.Printf("[api] Starting server on %s", ln.Addr())
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Printf("[api] Server error: %v", err)
		}
	}()
	return nil
}

// Shutdown gracefully shuts down the server and the websocket hub.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	log.Printf("[api] Shutting down server...")
	s.running = false
	s.listener = nil
	s.hub.Stop()

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// IsRunning returns true if the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	WSClients int    `json:"wsClients"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Version:   s.version,
		WSClients: s.hub.ClientCount(),
	})
}

// makeOriginChecker creates a function that validates WebSocket origins
// against the configured CORS origins list.
func makeOriginChecker(allowedOrigins []string) func(*http.Request) bool {
	allowed := make(map[string]bool)
	for _, origin := range allowedOrigins {
		if origin == "*" {
			return func(r *http.Request) bool {
				return true
			}
		}
		allowed[origin] = true
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			// Same-origin request
			return true
		}
		return allowed[origin]
	}
}
