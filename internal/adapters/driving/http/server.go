package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/worshipflow/planner-core/internal/core/domain"
	"github.com/worshipflow/planner-core/internal/core/ports/driving"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// ConflictFeed exposes the recent concurrent-edit events
type ConflictFeed interface {
	Recent(ctx context.Context, limit int) ([]domain.ConflictEvent, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	handler    http.Handler
	version    string

	// Services
	planningService  driving.PlanningService
	selectionService driving.SelectionService

	// Infrastructure
	conflicts   ConflictFeed // optional
	db          Pinger       // PostgreSQL health check
	redisClient Pinger       // Redis health check (optional)
}

// Config holds server configuration
type Config struct {
	Host           string
	Port           int
	Version        string
	AllowedOrigins []string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:    "0.0.0.0",
		Port:    8080,
		Version: "dev",
	}
}

// NewServer creates a new HTTP server
func NewServer(
	cfg Config,
	planningService driving.PlanningService,
	selectionService driving.SelectionService,
	conflicts ConflictFeed, // can be nil
	db Pinger,
	redisClient Pinger, // can be nil
) *Server {
	s := &Server{
		router:           http.NewServeMux(),
		version:          cfg.Version,
		planningService:  planningService,
		selectionService: selectionService,
		conflicts:        conflicts,
		db:               db,
		redisClient:      redisClient,
	}

	s.setupRoutes()

	var handler http.Handler = s.router
	if len(cfg.AllowedOrigins) > 0 {
		handler = NewCORSMiddleware(cfg.AllowedOrigins).Handler(handler)
	}
	handler = NewLoggingMiddleware().Handler(handler)
	s.handler = NewRecoveryMiddleware().Handler(handler)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the fully wrapped request handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Health endpoints
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)

	// Service structure (pastor path)
	s.router.HandleFunc("GET /api/v1/services", s.handleListServices)
	s.router.HandleFunc("GET /api/v1/service-details", s.handleGetService)
	s.router.HandleFunc("POST /api/v1/service-details", s.handleSaveServiceStructure)
	s.router.HandleFunc("DELETE /api/v1/service-details", s.handleDeleteService)

	// Orphan recovery
	s.router.HandleFunc("GET /api/v1/service-details/orphans", s.handleRecoverOrphans)
	s.router.HandleFunc("GET /api/v1/service-details/orphans/history", s.handleOrphanHistory)

	// Song selections (worship path)
	s.router.HandleFunc("GET /api/v1/song-selections", s.handleGetSelections)
	s.router.HandleFunc("POST /api/v1/song-selections", s.handleSaveSelections)

	// Concurrent-edit feed
	s.router.HandleFunc("GET /api/v1/conflicts/recent", s.handleRecentConflicts)
}

// Start starts the HTTP server with graceful shutdown
func (s *Server) Start() error {
	// Channel to listen for OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-stop:
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
