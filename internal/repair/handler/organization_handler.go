package handler

import (
	"github.com/bitfantasy/repairtrack/internal/repair/service"
	"github.com/gin-gonic/gin"
)

// OrganizationHandler 组织处理器
type OrganizationHandler struct {
	svc *service.OrganizationService
}

func NewOrganizationHandler(svc *service.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{svc: svc}
}

// ListOrganizations 组织列表
// GET /api/v1/organizations?search=xxx
func (h *OrganizationHandler) ListOrganizations(c *gin.Context) {
	items := h.svc.List(c.Request.Context(), c.Query("search"))
	Success(c, gin.H{"items": items})
}

// GetOrganization 组织详情
// GET /api/v1/organizations/:id
func (h *OrganizationHandler) GetOrganization(c *gin.Context) {
	org, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, "get organization", err)
		return
	}
	Success(c, org)
}

// CreateOrganization 创建组织
// POST /api/v1/organizations
func (h *OrganizationHandler) CreateOrganization(c *gin.Context) {
	var req service.SaveOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	org, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		handleError(c, "create organization", err)
		return
	}
	Created(c, org)
}

// UpdateOrganization 更新组织
// PUT /api/v1/organizations/:id
func (h *OrganizationHandler) UpdateOrganization(c *gin.Context) {
	var req service.SaveOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	org, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleError(c, "update organization", err)
		return
	}
	Success(c, org)
}

// DeleteOrganization 删除组织，仍被客户或保修工单引用时返回 409
// DELETE /api/v1/organizations/:id
func (h *OrganizationHandler) DeleteOrganization(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, "delete organization", err)
		return
	}
	Success(c, nil)
}
