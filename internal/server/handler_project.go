package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (h *Handler) getProjects(c *gin.Context) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}

	pageSize, err := strconv.Atoi(c.Query("pageSize"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		pageSize = 25
	}

	projects, totalCount, err := h.projects.List(c.Request.Context(), page, pageSize)
	if err != nil {
		h.Logger.Error(c.Request.Context(), "Failed to fetch projects: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to fetch projects"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"projects": projects,
		"pagination": gin.H{
			"page":       page,
			"pageSize":   pageSize,
			"totalCount": totalCount,
			"totalPages": (totalCount + int64(pageSize) - 1) / int64(pageSize),
		},
	})
}
