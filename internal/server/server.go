package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/boushrabettir/ginder-backend/cfg"
	"github.com/boushrabettir/ginder-backend/pkg/log"
	"github.com/gin-gonic/gin"
)

// Server represents the API web server
type Server struct {
	Logger  log.Logger
	Config  *cfg.Config
	handler *Handler
	server  *http.Server
}

// NewServer creates a new API server
func NewServer(logger log.Logger, config *cfg.Config, handler *Handler) (*Server, error) {
	if handler == nil {
		return nil, fmt.Errorf("server needs a handler")
	}
	s := &Server{
		Logger:  logger,
		Config:  config,
		handler: handler,
	}
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", config.Server.Port),
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(s.Logger))
	s.handler.RegisterRoutes(router)
	return router
}

// Start serves until Stop is called. Stop before Start makes Start return at once.
func (s *Server) Start() error {
	s.Logger.Info(context.Background(), "Starting API server on port %d", s.Config.Server.Port)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.Logger.Info(ctx, "Shutting down API server")
	return s.server.Shutdown(ctx)
}

func requestLogger(logger log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug(c.Request.Context(), "%s %s -> %d (%v)",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start).Round(time.Millisecond))
	}
}
