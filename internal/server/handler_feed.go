package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Handler) getFeed(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := uuid.NewString()
	userID := c.Query("user_id")
	token := bearerToken(c.GetHeader("Authorization"))

	languages := splitLanguages(c.Query("languages"))
	if len(languages) == 0 && token != "" {
		profile, err := h.engine.UserLanguages(ctx, token)
		if err != nil {
			h.Logger.Warn(ctx, "[%s] Language profile unavailable, using defaults: %v", sessionID, err)
		} else {
			languages = profile
		}
	}

	swiped, err := h.swipes.Seen(ctx, userID)
	if err != nil {
		h.Logger.Error(ctx, "[%s] Failed to load swipes of %s: %v", sessionID, userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to load swipes"})
		return
	}

	feed, searched, err := h.engine.BuildFeed(ctx, languages, token, swiped)
	if err != nil && len(feed) == 0 {
		h.Logger.Error(ctx, "[%s] Failed to build feed: %v", sessionID, err)
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "session_id": sessionID, "error": err.Error()})
		return
	}
	if err != nil {
		h.Logger.Warn(ctx, "[%s] Returning partial feed of %d projects: %v", sessionID, len(feed), err)
	}

	if h.publisher != nil && len(feed) > 0 {
		if err := h.publisher.PublishProjects(ctx, feed); err != nil {
			h.Logger.Error(ctx, "[%s] Failed to publish feed: %v", sessionID, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":         true,
		"session_id": sessionID,
		"languages":  searched,
		"projects":   feed,
	})
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

func splitLanguages(raw string) []string {
	var languages []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			languages = append(languages, part)
		}
	}
	return languages
}
