package handler

import (
	"github.com/bitfantasy/repairtrack/internal/repair/service"
	"github.com/gin-gonic/gin"
)

// CustomerHandler 客户处理器
type CustomerHandler struct {
	svc *service.CustomerService
}

func NewCustomerHandler(svc *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{svc: svc}
}

// ListCustomers 客户列表
// GET /api/v1/customers?organization_id=xxx&search=xxx
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	items := h.svc.List(c.Request.Context(), service.CustomerFilter{
		OrganizationID: c.Query("organization_id"),
		Search:         c.Query("search"),
	})
	Success(c, gin.H{"items": items})
}

// GetCustomer 客户详情
// GET /api/v1/customers/:id
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	customer, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, "get customer", err)
		return
	}
	Success(c, customer)
}

// CreateCustomer 创建客户
// POST /api/v1/customers
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req service.SaveCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	customer, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		handleError(c, "create customer", err)
		return
	}
	Created(c, customer)
}

// UpdateCustomer 更新客户
// PUT /api/v1/customers/:id
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	var req service.SaveCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	customer, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleError(c, "update customer", err)
		return
	}
	Success(c, customer)
}

// DeleteCustomer 删除客户
// DELETE /api/v1/customers/:id
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, "delete customer", err)
		return
	}
	Success(c, nil)
}
