package handler

import (
	"errors"
	"strconv"

	"github.com/bitfantasy/repairtrack/internal/repair/repository"
	"github.com/bitfantasy/repairtrack/internal/repair/service"
	"github.com/gin-gonic/gin"
)

// Handlers 维修台账处理器集合
type Handlers struct {
	Organization *OrganizationHandler
	Customer     *CustomerHandler
	Ticket       *TicketHandler
	Warranty     *WarrantyHandler
	Dashboard    *DashboardHandler
	Device       *DeviceHandler
	Auth         *AuthHandler
}

// NewHandlers 创建处理器集合
func NewHandlers(svcs *service.Services) *Handlers {
	return &Handlers{
		Organization: NewOrganizationHandler(svcs.Organization),
		Customer:     NewCustomerHandler(svcs.Customer),
		Ticket:       NewTicketHandler(svcs.Ticket, svcs.Export),
		Warranty:     NewWarrantyHandler(svcs.Warranty, svcs.Export),
		Dashboard:    NewDashboardHandler(svcs.Dashboard),
		Device:       NewDeviceHandler(svcs.Device, svcs.Tracking),
		Auth:         NewAuthHandler(svcs.Session),
	}
}

// === 响应辅助函数 ===

type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ListResponse struct {
	Items      interface{} `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func NewPagination(page, pageSize, total int) *Pagination {
	totalPages := total / pageSize
	if total%pageSize > 0 {
		totalPages++
	}
	return &Pagination{Page: page, PageSize: pageSize, Total: total, TotalPages: totalPages}
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, 40100, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

func Conflict(c *gin.Context, message string) {
	Error(c, 40900, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// handleError 将服务层错误映射为响应码；op 用于 500 时的提示
func handleError(c *gin.Context, op string, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		BadRequest(c, verr.Error())
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, "record not found")
	case errors.Is(err, repository.ErrReferenced):
		Conflict(c, "record is still referenced and cannot be deleted")
	default:
		InternalError(c, "failed to "+op+": "+err.Error())
	}
}

func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

func GetPagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}

	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}

	return page, pageSize
}
