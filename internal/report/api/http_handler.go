package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dukapos/dukapos-api/internal/auth"
	"github.com/dukapos/dukapos-api/internal/platform/logger"
	"github.com/dukapos/dukapos-api/internal/report/service"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(svc service.ReportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reportRoutes := router.Group("/reports")
	{
		reportRoutes.GET("/dashboard",
			auth.RequireRoles(auth.RoleAdmin, auth.RoleManager), h.GetDashboard)
	}
}

func (h *ReportHandler) GetDashboard(c *gin.Context) {
	claims := auth.FromContext(c)
	dashboard, err := h.service.GetDashboard(c.Request.Context(), claims.ShopID)
	if err != nil {
		logger.Error("Hdl.GetDashboard: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error building dashboard"})
		return
	}
	c.JSON(http.StatusOK, dashboard)
}
