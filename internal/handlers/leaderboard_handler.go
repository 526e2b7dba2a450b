package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"intelliquiz-service/internal/service"
)

type LeaderboardHandler struct {
	Service *service.LeaderboardService
}

func NewLeaderboardHandler(s *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{Service: s}
}

func (h *LeaderboardHandler) Top(c *gin.Context) {
	view, err := h.Service.Top(c.Request.Context(), userID(c), c.Query("window"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *LeaderboardHandler) TopForCategory(c *gin.Context) {
	view, err := h.Service.TopForCategory(c.Request.Context(), userID(c), c.Query("window"), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
