package handler

import (
	"github.com/bitfantasy/repairtrack/internal/repair/service"
	"github.com/gin-gonic/gin"
)

// WarrantyHandler 保修工单处理器
type WarrantyHandler struct {
	svc    *service.WarrantyService
	export *service.ExportService
}

func NewWarrantyHandler(svc *service.WarrantyService, export *service.ExportService) *WarrantyHandler {
	return &WarrantyHandler{svc: svc, export: export}
}

// ListWarranties 保修工单列表
// GET /api/v1/warranties?status=xxx&device_type=xxx&organization_id=xxx&search=xxx&page=1&page_size=20
func (h *WarrantyHandler) ListWarranties(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filter := service.WarrantyFilter{
		Status:         c.Query("status"),
		DeviceType:     c.Query("device_type"),
		OrganizationID: c.Query("organization_id"),
		Search:         c.Query("search"),
	}

	items, total := h.svc.List(c.Request.Context(), filter, page, pageSize)
	Success(c, ListResponse{
		Items:      items,
		Pagination: NewPagination(page, pageSize, total),
	})
}

// GetWarranty 保修工单详情
// GET /api/v1/warranties/:id
func (h *WarrantyHandler) GetWarranty(c *gin.Context) {
	w, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, "get warranty", err)
		return
	}
	Success(c, w)
}

// GetWarrantyHistory GET /api/v1/warranties/:id/history
func (h *WarrantyHandler) GetWarrantyHistory(c *gin.Context) {
	items, err := h.svc.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, "load warranty history", err)
		return
	}
	Success(c, gin.H{"items": items})
}

// TrackWarranty 查询寄送物流，不支持查询的承运方返回 trackable=false
// GET /api/v1/warranties/:id/tracking
func (h *WarrantyHandler) TrackWarranty(c *gin.Context) {
	result, err := h.svc.Track(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, "track shipment", err)
		return
	}
	Success(c, result)
}

// CreateWarranty POST /api/v1/warranties
func (h *WarrantyHandler) CreateWarranty(c *gin.Context) {
	var req service.SaveWarrantyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	w, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		handleError(c, "create warranty", err)
		return
	}
	Created(c, w)
}

// UpdateWarranty PUT /api/v1/warranties/:id
func (h *WarrantyHandler) UpdateWarranty(c *gin.Context) {
	var req service.SaveWarrantyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	w, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleError(c, "update warranty", err)
		return
	}
	Success(c, w)
}

// DeleteWarranty DELETE /api/v1/warranties/:id
func (h *WarrantyHandler) DeleteWarranty(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, "delete warranty", err)
		return
	}
	Success(c, nil)
}

// ExportWarranties GET /api/v1/warranties/export?format=csv|xlsx
func (h *WarrantyHandler) ExportWarranties(c *gin.Context) {
	file, err := h.export.ExportWarranties(c.Request.Context(), c.DefaultQuery("format", service.ExportFormatCSV))
	if err != nil {
		handleError(c, "export warranties", err)
		return
	}
	sendFile(c, file)
}
