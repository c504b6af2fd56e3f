// Package server exposes the discovery engine over HTTP.
package server

import (
	"context"
	"net/http"

	"github.com/boushrabettir/ginder-backend/cfg"
	"github.com/boushrabettir/ginder-backend/internal/crawler"
	"github.com/boushrabettir/ginder-backend/internal/model"
	"github.com/boushrabettir/ginder-backend/pkg/log"
	"github.com/gin-gonic/gin"
)

type Engine interface {
	BuildFeed(ctx context.Context, userLanguages []string, token string, swiped crawler.SwipeSet) ([]model.Project, []string, error)
	UserLanguages(ctx context.Context, token string) ([]string, error)
	RegisterUser(ctx context.Context, userID string) error
}

type SwipeStore interface {
	Seen(ctx context.Context, userID string) (crawler.SwipeSet, error)
	Record(ctx context.Context, userID string, projectID int64, liked bool) error
}

type ProjectLister interface {
	List(ctx context.Context, page, pageSize int) ([]model.Project, int64, error)
}

type FeedPublisher interface {
	PublishProjects(ctx context.Context, projects []model.Project) error
}

// Handler manages HTTP requests for the API
type Handler struct {
	Logger    log.Logger
	Config    *cfg.Config
	engine    Engine
	swipes    SwipeStore
	projects  ProjectLister
	publisher FeedPublisher
}

// NewHandler wires the handler; publisher may be nil to skip publishing feeds.
func NewHandler(logger log.Logger, config *cfg.Config, engine Engine, swipes SwipeStore, projects ProjectLister, publisher FeedPublisher) *Handler {
	return &Handler{
		Logger:    logger,
		Config:    config,
		engine:    engine,
		swipes:    swipes,
		projects:  projects,
		publisher: publisher,
	}
}

// RegisterRoutes sets up the HTTP routes
func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.GET("/healthz", h.health)

	api := router.Group("/api")
	api.GET("/feed", h.getFeed)
	api.GET("/projects", h.getProjects)
	api.POST("/users", h.registerUser)
	api.POST("/users/:id/swipes", h.recordSwipe)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.Config.App.Name,
		"version": h.Config.App.Version,
	})
}
