package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wertwang/theia/internal/api/middleware"
	"github.com/wertwang/theia/internal/config"
	httpapi "github.com/wertwang/theia/internal/http"
	"github.com/wertwang/theia/internal/logging"
	"github.com/wertwang/theia/internal/monitoring"
	"github.com/wertwang/theia/internal/output"
	outputprovider "github.com/wertwang/theia/internal/providers/output"
	"github.com/wertwang/theia/internal/resource"
	"github.com/wertwang/theia/internal/service"
	"github.com/wertwang/theia/internal/state"
	"github.com/wertwang/theia/internal/ws"
)

// Server wraps the HTTP server and its dependencies
type Server struct {
	httpServer *http.Server
	manager    *output.Manager
	registry   *service.Registry
	store      *state.Store
	logger     *logging.Logger
}

// New wires the output service from explicit parts: store, channel manager,
// providers, resolvers and transport. No ambient container; everything is
// passed by reference.
func New(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	store, err := state.Open(cfg.State.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}

	metrics := monitoring.NewMetrics()

	manager := output.NewManager(store, cfg.Output.MaxHistory, logger).WithMetrics(metrics)
	// Locked set must be in place before the first channel registers listeners
	if err := manager.Restore(); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to restore locked channels: %w", err)
	}

	resolver := resource.NewResolver(manager)

	registry := service.NewRegistry()
	if err := registry.Register(outputprovider.NewProvider(manager)); err != nil {
		store.Close()
		return nil, err
	}

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}
	router.Use(metrics.Middleware())

	handlers := httpapi.NewHandlers(manager, registry, resolver)
	wsHandler := ws.NewHandler(manager, logger, metrics)

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/metrics", metrics.Handler())

	// Channel management
	router.GET("/channels", handlers.ListChannels)
	router.GET("/channels/selected", handlers.SelectedChannel)
	router.POST("/channels/:name/show", handlers.ShowChannel)
	router.POST("/channels/:name/hide", handlers.HideChannel)
	router.POST("/channels/:name/lock", handlers.ToggleLock)
	router.DELETE("/channels/:name", handlers.DeleteChannel)

	// Resources
	router.GET("/resource", handlers.ResolveResource)

	// Service surface
	router.GET("/services", handlers.ListServices)
	router.POST("/services/execute", handlers.ExecuteService)

	// Configuration
	router.PUT("/config/max-lines", handlers.UpdateMaxHistory)

	// WebSocket event stream
	router.GET("/stream", wsHandler.HandleConnection)

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		manager:  manager,
		registry: registry,
		store:    store,
		logger:   logger,
	}, nil
}

// Manager exposes the channel manager for composition and tests
func (s *Server) Manager() *output.Manager {
	return s.manager
}

// Run starts the HTTP server and blocks until it stops
func (s *Server) Run() error {
	s.logger.Info("starting output service", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close persists state and releases resources
func (s *Server) Close() error {
	if err := s.manager.Shutdown(); err != nil {
		s.logger.Error("failed to persist locked channels", zap.Error(err))
	}
	if err := s.httpServer.Close(); err != nil {
		s.logger.Warn("http server close", zap.Error(err))
	}
	return s.store.Close()
}
