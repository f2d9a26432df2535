package handler

import (
	"github.com/bitfantasy/repairtrack/internal/repair/service"
	"github.com/gin-gonic/gin"
)

// TicketHandler 维修工单处理器
type TicketHandler struct {
	svc    *service.TicketService
	export *service.ExportService
}

func NewTicketHandler(svc *service.TicketService, export *service.ExportService) *TicketHandler {
	return &TicketHandler{svc: svc, export: export}
}

// ListTickets 维修工单列表
// GET /api/v1/tickets?status=xxx&device_type=xxx&customer_id=xxx&search=xxx&page=1&page_size=20
func (h *TicketHandler) ListTickets(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filter := service.TicketFilter{
		Status:     c.Query("status"),
		DeviceType: c.Query("device_type"),
		CustomerID: c.Query("customer_id"),
		Search:     c.Query("search"),
	}

	items, total := h.svc.List(c.Request.Context(), filter, page, pageSize)
	Success(c, ListResponse{
		Items:      items,
		Pagination: NewPagination(page, pageSize, total),
	})
}

// GetTicket 维修工单详情
// GET /api/v1/tickets/:id
func (h *TicketHandler) GetTicket(c *gin.Context) {
	ticket, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, "get ticket", err)
		return
	}
	Success(c, ticket)
}

// GetTicketHistory 同一设备的维修历史
// GET /api/v1/tickets/:id/history
func (h *TicketHandler) GetTicketHistory(c *gin.Context) {
	items, err := h.svc.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, "load ticket history", err)
		return
	}
	Success(c, gin.H{"items": items})
}

// CreateTicket 创建维修工单，可同时创建新客户
// POST /api/v1/tickets
func (h *TicketHandler) CreateTicket(c *gin.Context) {
	var req service.SaveTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	ticket, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		handleError(c, "create ticket", err)
		return
	}
	Created(c, ticket)
}

// UpdateTicket 更新维修工单
// PUT /api/v1/tickets/:id
func (h *TicketHandler) UpdateTicket(c *gin.Context) {
	var req service.SaveTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	ticket, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleError(c, "update ticket", err)
		return
	}
	Success(c, ticket)
}

// DeleteTicket 删除维修工单
// DELETE /api/v1/tickets/:id
func (h *TicketHandler) DeleteTicket(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, "delete ticket", err)
		return
	}
	Success(c, nil)
}

// ExportTickets 导出维修工单
// GET /api/v1/tickets/export?format=csv|xlsx
func (h *TicketHandler) ExportTickets(c *gin.Context) {
	file, err := h.export.ExportTickets(c.Request.Context(), c.DefaultQuery("format", service.ExportFormatCSV))
	if err != nil {
		handleError(c, "export tickets", err)
		return
	}
	sendFile(c, file)
}

func sendFile(c *gin.Context, file *service.ExportFile) {
	c.Header("Content-Disposition", "attachment; filename=\""+file.Name+"\"")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Data(200, file.ContentType, file.Data)
}
