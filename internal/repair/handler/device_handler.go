package handler

import (
	"strings"

	"github.com/bitfantasy/repairtrack/internal/repair/service"
	"github.com/gin-gonic/gin"
)

// DeviceHandler 设备历史与物流查询
type DeviceHandler struct {
	devices  *service.DeviceService
	tracking *service.TrackingService
}

func NewDeviceHandler(devices *service.DeviceService, tracking *service.TrackingService) *DeviceHandler {
	return &DeviceHandler{devices: devices, tracking: tracking}
}

// GetDeviceHistory GET /api/v1/devices/{serial}/history
// 序列号可能含 "/"，因此路由使用通配段，由此处拆出序列号
func (h *DeviceHandler) GetDeviceHistory(c *gin.Context) {
	rest, ok := strings.CutSuffix(strings.TrimPrefix(c.Param("path"), "/"), "/history")
	if !ok {
		NotFound(c, "route not found")
		return
	}
	serial := strings.TrimSpace(rest)
	if serial == "" {
		BadRequest(c, "serial number is required")
		return
	}
	Success(c, h.devices.History(c.Request.Context(), serial))
}

// Track 按承运方和单号查询物流
// GET /api/v1/tracking?carrier=xxx&code=xxx
func (h *DeviceHandler) Track(c *gin.Context) {
	carrier := c.Query("carrier")
	code := c.Query("code")

	result := &service.TrackingResult{
		Carrier:        carrier,
		TrackingNumber: code,
		Trackable:      h.tracking.IsTrackable(carrier),
	}
	if result.Trackable {
		info, err := h.tracking.Track(c.Request.Context(), carrier, code)
		if err != nil {
			handleError(c, "track shipment", err)
			return
		}
		result.Shipment = info
	}
	Success(c, result)
}
