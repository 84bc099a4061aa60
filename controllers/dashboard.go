package controllers

import (
	"net/http"

	"salonsmart-backend/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DashboardController struct {
	dashboard *services.DashboardService
	log       *zap.Logger
}

func NewDashboardController(dashboard *services.DashboardService, log *zap.Logger) *DashboardController {
	return &DashboardController{dashboard: dashboard, log: log}
}

// GetDashboardOverview returns the stat cards, today's schedule, recent
// bookings and the service distribution.
func (dc *DashboardController) GetDashboardOverview(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	overview, err := dc.dashboard.Overview(c.Request.Context(), a)
	if err != nil {
		respondError(c, dc.log, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}
