package handler

import (
	"github.com/bitfantasy/repairtrack/internal/repair/service"
	"github.com/gin-gonic/gin"
)

// DashboardHandler 仪表盘处理器
type DashboardHandler struct {
	svc *service.DashboardService
}

func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// GetSummary GET /api/v1/dashboard/summary
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	Success(c, h.svc.GetSummary(c.Request.Context()))
}

// GetDeviceStats 按设备类型统计维修量
// GET /api/v1/dashboard/device-stats
func (h *DashboardHandler) GetDeviceStats(c *gin.Context) {
	Success(c, gin.H{"items": h.svc.GetDeviceStats(c.Request.Context())})
}

// GetTrend 最近六个月的月度维修量
// GET /api/v1/dashboard/trend
func (h *DashboardHandler) GetTrend(c *gin.Context) {
	Success(c, gin.H{"items": h.svc.GetTrend(c.Request.Context())})
}
