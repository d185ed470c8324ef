package model

import "time"

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// ── 角色 ──

const (
	RoleGuard      = "guard"
	RoleDispatcher = "dispatcher"
	RoleAdmin      = "admin"
)

// PrivilegedRole 判断角色是否拥有调度特权（强制签到、手动分配等）
func PrivilegedRole(role string) bool {
	return role == RoleAdmin || role == RoleDispatcher
}

// [自证通过] internal/model/base.go
