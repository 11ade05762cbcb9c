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

	"github.com/verdant-labs/wellspring-core/internal/core/domain"
	"github.com/verdant-labs/wellspring-core/internal/core/ports/driven"
	"github.com/verdant-labs/wellspring-core/internal/core/ports/driving"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	version    string

	// Services
	userService         driving.UserService
	documentService     driving.DocumentService
	searchService       driving.SearchService
	retrievalService    driving.RetrievalService
	conversationService driving.ConversationService

	// Infrastructure
	runtimeConfig *domain.RuntimeConfig
	responseCache driven.ResponseCache
	db            Pinger // PostgreSQL health check
}

// Config holds server configuration
type Config struct {
	Host    string
	Port    int
	Version string
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
	userService driving.UserService,
	documentService driving.DocumentService,
	searchService driving.SearchService,
	retrievalService driving.RetrievalService,
	conversationService driving.ConversationService,
	runtimeConfig *domain.RuntimeConfig,
	responseCache driven.ResponseCache,
	db Pinger,
) *Server {
	s := &Server{
		router:              http.NewServeMux(),
		version:             cfg.Version,
		userService:         userService,
		documentService:     documentService,
		searchService:       searchService,
		retrievalService:    retrievalService,
		conversationService: conversationService,
		runtimeConfig:       runtimeConfig,
		responseCache:       responseCache,
		db:                  db,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.buildHandler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // generation requests can be slow
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// buildHandler wires routes and the outer middleware stack
func (s *Server) buildHandler() http.Handler {
	s.setupRoutes()

	logging := NewLoggingMiddleware()
	recovery := NewRecoveryMiddleware()
	return recovery.Handler(logging.Handler(s.router))
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	authMiddleware := NewAuthMiddleware(s.userService)

	// Health endpoints (no auth)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)

	// Auth endpoints (public)
	s.router.HandleFunc("POST /api/v1/auth/register", s.handleRegister)
	s.router.HandleFunc("POST /api/v1/auth/login", s.handleLogin)

	// User endpoints
	s.router.Handle("GET /api/v1/me",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleGetMe)))

	// Document endpoints (authenticated)
	s.router.Handle("POST /api/v1/documents",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleCreateDocument)))
	s.router.Handle("GET /api/v1/documents",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleListDocuments)))
	s.router.Handle("GET /api/v1/documents/{id}",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleGetDocument)))
	s.router.Handle("PUT /api/v1/documents/{id}",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleUpdateDocument)))
	s.router.Handle("DELETE /api/v1/documents/{id}",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleDeleteDocument)))
	s.router.Handle("POST /api/v1/documents/bulk",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleBulkLoad)))

	// Search endpoints (authenticated)
	s.router.Handle("POST /api/v1/search",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleSearch)))

	// Chat endpoints (authenticated)
	s.router.Handle("POST /api/v1/chat/generate",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleGenerate)))
	s.router.Handle("DELETE /api/v1/chat/generate/{id}",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleCancelGeneration)))
	s.router.Handle("GET /api/v1/chat/{session}/history",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleHistory)))
	s.router.Handle("PUT /api/v1/chat/{session}/profile",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleUpdateProfile)))

	// Admin endpoints (authenticated)
	s.router.Handle("DELETE /api/v1/admin/cache",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleClearCache)))
}

// Start starts the HTTP server with graceful shutdown
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
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
