package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cuaderno/internal/service"
	"cuaderno/pkg/response"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
}

func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/dashboard", h.GetDashboard)
}

// GetDashboard returns the farm summary
// @Summary      Dashboard statistics
// @Description  Totals over parcels, crops, finances, tasks and invoices, plus the category catalogs
// @Tags         dashboard
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=model.DashboardStats}
// @Router       /api/dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.dashboardService.GetStats()))
}
