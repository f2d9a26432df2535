package handler

import (
	"github.com/bitfantasy/repairtrack/internal/middleware"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes 注册 /api/v1 下的全部路由；除登录外均需有效会话
func RegisterRoutes(r *gin.Engine, h *Handlers, jwtSecret string, sessions middleware.SessionChecker) {
	api := r.Group("/api/v1")
	api.POST("/auth/login", h.Auth.Login)

	authorized := api.Group("", middleware.JWTAuth(jwtSecret, sessions))
	RegisterProtectedRoutes(authorized, h)
}

// RegisterProtectedRoutes 注册需要会话的路由
func RegisterProtectedRoutes(api *gin.RouterGroup, h *Handlers) {
	api.POST("/auth/logout", h.Auth.Logout)
	api.GET("/auth/session", h.Auth.GetSession)

	orgs := api.Group("/organizations")
	{
		orgs.GET("", h.Organization.ListOrganizations)
		orgs.POST("", h.Organization.CreateOrganization)
		orgs.GET("/:id", h.Organization.GetOrganization)
		orgs.PUT("/:id", h.Organization.UpdateOrganization)
		orgs.DELETE("/:id", h.Organization.DeleteOrganization)
	}

	customers := api.Group("/customers")
	{
		customers.GET("", h.Customer.ListCustomers)
		customers.POST("", h.Customer.CreateCustomer)
		customers.GET("/:id", h.Customer.GetCustomer)
		customers.PUT("/:id", h.Customer.UpdateCustomer)
		customers.DELETE("/:id", h.Customer.DeleteCustomer)
	}

	tickets := api.Group("/tickets")
	{
		tickets.GET("", h.Ticket.ListTickets)
		tickets.POST("", h.Ticket.CreateTicket)
		tickets.GET("/export", h.Ticket.ExportTickets)
		tickets.GET("/:id", h.Ticket.GetTicket)
		tickets.PUT("/:id", h.Ticket.UpdateTicket)
		tickets.DELETE("/:id", h.Ticket.DeleteTicket)
		tickets.GET("/:id/history", h.Ticket.GetTicketHistory)
	}

	warranties := api.Group("/warranties")
	{
		warranties.GET("", h.Warranty.ListWarranties)
		warranties.POST("", h.Warranty.CreateWarranty)
		warranties.GET("/export", h.Warranty.ExportWarranties)
		warranties.GET("/:id", h.Warranty.GetWarranty)
		warranties.PUT("/:id", h.Warranty.UpdateWarranty)
		warranties.DELETE("/:id", h.Warranty.DeleteWarranty)
		warranties.GET("/:id/history", h.Warranty.GetWarrantyHistory)
		warranties.GET("/:id/tracking", h.Warranty.TrackWarranty)
	}

	dashboard := api.Group("/dashboard")
	{
		dashboard.GET("/summary", h.Dashboard.GetSummary)
		dashboard.GET("/device-stats", h.Dashboard.GetDeviceStats)
		dashboard.GET("/trend", h.Dashboard.GetTrend)
	}

	api.GET("/devices/*path", h.Device.GetDeviceHistory)
	api.GET("/tracking", h.Device.Track)
}
