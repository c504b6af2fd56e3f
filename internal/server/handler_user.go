package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/boushrabettir/ginder-backend/internal/model"
	"github.com/gin-gonic/gin"
)

type registerReq struct {
	ID string `json:"id"`
}

func (h *Handler) registerUser(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	id := strings.TrimSpace(req.ID)
	if err := h.engine.RegisterUser(c.Request.Context(), id); err != nil {
		if errors.Is(err, model.ErrUserExists) {
			c.JSON(http.StatusConflict, gin.H{"ok": false, "error": "user already registered"})
			return
		}
		h.Logger.Error(c.Request.Context(), "Failed to register user %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "id": id})
}

type swipeReq struct {
	ProjectID int64 `json:"project_id"`
	Liked     bool  `json:"liked"`
}

func (h *Handler) recordSwipe(c *gin.Context) {
	userID := c.Param("id")

	var req swipeReq
	if err := c.ShouldBindJSON(&req); err != nil || req.ProjectID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	if err := h.swipes.Record(c.Request.Context(), userID, req.ProjectID, req.Liked); err != nil {
		h.Logger.Error(c.Request.Context(), "Failed to record swipe: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to record swipe"})
		return
	}

	c.Status(http.StatusNoContent)
}
