// Package server exposes the processing pipeline over HTTP.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/clipwise/clipscribe/internal/api"
	"github.com/clipwise/clipscribe/internal/config"
	"github.com/clipwise/clipscribe/internal/pipeline"
	"github.com/clipwise/clipscribe/internal/store"

	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

// Processor is the part of the pipeline the HTTP layer drives.
type Processor interface {
	ProcessVideo(ctx context.Context, videoURL, language string) (*pipeline.Result, error)
	ExtractAudio(ctx context.Context, videoURL string) (*pipeline.Extract, error)
}

// AudioLibrary resolves stored audio names for downloads.
type AudioLibrary interface {
	Resolve(name string) (store.Entry, error)
}

// Server represents the HTTP server
type Server struct {
	config *config.Config
	logger *slog.Logger
	router *gin.Engine
	proc   Processor
	audio  AudioLibrary
}

// New creates a new Server instance
func New(cfg *config.Config, logger *slog.Logger, proc Processor, audio AudioLibrary) *Server {
	// Set Gin mode based on environment
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	router := gin.Default()

	// Configure proxy trust for production (Fly.io)
	if cfg.Env == config.EnvProduction {
		router.TrustedPlatform = gin.PlatformFlyIO
		logger.Debug("Configured trusted platform", "platform", "fly.io")
	}
	// Development: no reverse proxy, uses direct client IP

	server := &Server{
		config: cfg,
		logger: logger,
		router: router,
		proc:   proc,
		audio:  audio,
	}

	// Setup middleware and routes
	setupSecurityMiddleware(router, cfg, logger)
	server.setupRoutes()

	return server
}

// Run starts the HTTP server
func Run(s *Server) error {
	s.logger.Info("Server listening", "port", s.config.Port)
	return s.router.Run(":" + s.config.Port)
}

// Router exposes the engine for tests and embedding.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.POST("/process", s.handleProcess)
	s.router.POST("/extract-audio", s.handleExtractAudio)
	s.router.GET("/download-audio/:name", s.handleDownloadAudio)

	// Serve the web front end, when present, as a fallback for anything
	// the API routes don't claim.
	s.router.Use(static.Serve("/", static.LocalFile("./public", false)))
	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, api.ErrorBody{Detail: "not found"})
	})
}

// handleHealth handles the health check endpoint
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "clipscribe",
	})
}
