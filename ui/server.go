package ui

import (
	"context"
	"net/http"
	"sync"
	"time"

	"zebu/app"
	"zebu/internal"

	"github.com/gin-gonic/gin"
)

// Server exposes the association service over HTTP
type Server struct {
	router  *gin.Engine
	service *app.AssociationService
	logger  *internal.Logger

	mu   sync.Mutex
	http *http.Server
}

// NewServer creates a server with routes and middleware installed
func NewServer(service *app.AssociationService) *Server {
	s := &Server{
		router:  gin.New(),
		service: service,
		logger:  internal.DefaultLogger.WithComponent("Server"),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.router.Group("/api/associations")
	api.GET("", s.handleList)
	api.POST("", s.handleEstimate)
	api.GET("/:id", s.handleGetResult)
	api.DELETE("/:id", s.handleDelete)
	api.POST("/:id/permutation", s.handlePermutation)
	api.POST("/:id/analytic", s.handleAnalytic)
	api.GET("/:id/fields/:field", s.handleGetField)
	api.GET("/:id/report", s.handleReport)
}

// Start serves on addr until Shutdown is called
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.http = srv
	s.mu.Unlock()

	s.logger.Info("listening on http://%s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.http
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
