package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"

	"github.com/dstoyanov/agentbox/internal/agent"
	"github.com/dstoyanov/agentbox/internal/mailbox"
	"github.com/dstoyanov/agentbox/internal/seed"
	"github.com/dstoyanov/agentbox/internal/tools"
)

// Config holds API server configuration.
type Config struct {
	ListenAddr  string        `mapstructure:"listen_addr"`
	JWTSecret   string        `mapstructure:"jwt_secret"`
	JWTExpiry   time.Duration `mapstructure:"jwt_expiry"`
	APIKey      string        `mapstructure:"api_key"`
	EnableCORS  bool          `mapstructure:"enable_cors"`
	CORSOrigins []string      `mapstructure:"cors_origins"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		ListenAddr:  ":8080",
		JWTSecret:   "change-me-in-production",
		JWTExpiry:   24 * time.Hour,
		EnableCORS:  true,
		CORSOrigins: []string{"*"},
	}
}

// Server is the REST API server.
type Server struct {
	router     chi.Router
	config     Config
	store      *mailbox.Store
	generator  *seed.Generator
	registry   *tools.Registry
	logger     *slog.Logger
	httpServer *http.Server
	jwtAuth    *JWTAuth
	validator  *validator.Validate
	startTime  time.Time

	// orchestrator is nil when no LLM provider is configured; the workflow
	// endpoint then returns 503 while the rest of the API stays up.
	orchestrator *agent.Orchestrator
}

// New creates a new API server.
func New(cfg Config, store *mailbox.Store, generator *seed.Generator, registry *tools.Registry, logger *slog.Logger) *Server {
	jwtAuth := NewJWTAuth(cfg.JWTSecret, cfg.JWTExpiry)
	if cfg.APIKey != "" {
		jwtAuth.SetAPIKey(cfg.APIKey)
		logger.Info("API key authentication enabled")
	}

	s := &Server{
		config:    cfg,
		store:     store,
		generator: generator,
		registry:  registry,
		logger:    logger,
		jwtAuth:   jwtAuth,
		validator: validator.New(),
		startTime: time.Now(),
	}

	s.setupRoutes()
	return s
}

// SetOrchestrator wires the agent loop behind the workflow endpoint.
func (s *Server) SetOrchestrator(o *agent.Orchestrator) {
	s.orchestrator = o
}

// setupRoutes configures all routes.
func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	// CORS if enabled
	if s.config.EnableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.config.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-API-Key"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check (no auth)
	r.Get("/health", s.handleHealth)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Auth routes (no auth required)
		r.Post("/auth/token", s.handleToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(s.jwtAuth.Middleware)

			r.Get("/auth/me", s.handleMe)

			// Agent workflow
			r.Post("/run-workflow", s.handleRunWorkflow)
			r.Get("/tools", s.handleListTools)

			// Mailbox
			r.Route("/mailbox", func(r chi.Router) {
				r.Route("/emails", func(r chi.Router) {
					r.Get("/", s.handleListEmails)
					r.Post("/", s.handleSendEmail)
					r.Get("/search", s.handleSearchEmails)
					r.Get("/{emailID}", s.handleGetEmail)
					r.Post("/{emailID}/read", s.handleMarkRead)
					r.Post("/{emailID}/move", s.handleMoveEmail)
					r.Delete("/{emailID}", s.handleDeleteEmail)
				})
				r.Get("/folders", s.handleListFolders)
				r.Get("/status", s.handleInboxStatus)

				// Seeding
				r.Route("/seed", func(r chi.Router) {
					r.Post("/samples", s.handleSeedSamples)
					r.Post("/bank", s.handleSeedBank)
					r.Post("/fixtures", s.handleSeedFixtures)
				})
			})
		})
	})

	s.router = r
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         s.config.ListenAddr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	s.logger.Info("starting API server", "addr", s.config.ListenAddr)

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		return s.Stop(context.Background())
	}
}

// Stop gracefully stops the server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping API server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(shutdownCtx)
}

// Router returns the router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}
