package model

import "time"

// ── 保安实时状态 ──

const (
	GuardStatusOnPatrol = "on_patrol"
	GuardStatusOnBreak  = "on_break"
	GuardStatusOffDuty  = "off_duty"
	GuardStatusOnSite   = "on_site"
)

// GuardProfile 保安档案表 — 对应 guard_profiles（与 users 1:1）
type GuardProfile struct {
	UserID             string     `gorm:"type:uuid;primaryKey"                  json:"user_id"`
	Skills             string     `gorm:"type:text;not null;default:''"         json:"skills"` // 逗号分隔技能标签
	ExperienceYears    int        `gorm:"not null;default:0"                    json:"experience_years"`
	Phone              string     `gorm:"type:varchar(30);not null;default:''"  json:"phone"`
	QRUUID             string     `gorm:"type:uuid;not null;uniqueIndex;default:gen_random_uuid();column:qr_uuid" json:"qr_uuid"`
	QRID               int64      `gorm:"autoIncrement;uniqueIndex;column:qr_id" json:"qr_id"`
	MaxConsecutiveDays *int       `json:"max_consecutive_days,omitempty"` // NULL = 使用全局上限
	LastSeen           *time.Time `json:"last_seen,omitempty"`
	LastLat            *float64   `json:"last_lat,omitempty"`
	LastLng            *float64   `json:"last_lng,omitempty"`
	Status             string     `gorm:"type:varchar(32);not null;default:'off_duty'" json:"status"`
	BaseModel

	// 关联
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (GuardProfile) TableName() string { return "guard_profiles" }

// QRPayload 生成保安二维码载荷
func (p *GuardProfile) QRPayload() ScanPayload {
	id := p.QRID
	u := p.QRUUID
	return ScanPayload{Type: ScanTypeGuard, ID: &id, UUID: &u}
}

// EffectiveMaxConsecutiveDays 计算生效的连续值班上限
// 个人上限只允许低于全局上限，不允许调高
func (p *GuardProfile) EffectiveMaxConsecutiveDays(globalCap int) int {
	if p.MaxConsecutiveDays != nil && *p.MaxConsecutiveDays < globalCap {
		return *p.MaxConsecutiveDays
	}
	return globalCap
}

// [自证通过] internal/model/guard_profile.go
