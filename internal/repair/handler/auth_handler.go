package handler

import (
	"errors"

	"github.com/bitfantasy/repairtrack/internal/repair/service"
	"github.com/gin-gonic/gin"
)

// AuthHandler 登录会话处理器
type AuthHandler struct {
	sessions *service.SessionService
}

func NewAuthHandler(sessions *service.SessionService) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	session, err := h.sessions.Login(c.Request.Context(), req.Username, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		Unauthorized(c, err.Error())
		return
	}
	if err != nil {
		handleError(c, "sign in", err)
		return
	}
	Success(c, session)
}

// Logout POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessions.Logout(c.Request.Context()); err != nil {
		handleError(c, "sign out", err)
		return
	}
	Success(c, nil)
}

// GetSession 当前会话
// GET /api/v1/auth/session
func (h *AuthHandler) GetSession(c *gin.Context) {
	session := h.sessions.Current()
	if session == nil || session.Username != GetUserID(c) {
		Unauthorized(c, "no active session")
		return
	}
	Success(c, gin.H{
		"id":         session.ID,
		"username":   session.Username,
		"mode":       session.Mode,
		"created_at": session.CreatedAt,
		"expires_at": session.ExpiresAt,
	})
}
