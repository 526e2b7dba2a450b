package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"intelliquiz-service/internal/service"
)

type DashboardHandler struct {
	Service *service.StatsService
}

func NewDashboardHandler(s *service.StatsService) *DashboardHandler {
	return &DashboardHandler{Service: s}
}

func (h *DashboardHandler) Dashboard(c *gin.Context) {
	view, err := h.Service.Dashboard(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *DashboardHandler) Statistics(c *gin.Context) {
	view, err := h.Service.Statistics(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *DashboardHandler) History(c *gin.Context) {
	attempts, err := h.Service.History(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attempts": attempts})
}
