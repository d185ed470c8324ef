package model

// User 用户表 — 对应 users
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Username     string `gorm:"type:varchar(100);not null;uniqueIndex"         json:"username"`
	Email        string `gorm:"type:varchar(255);not null;default:''"          json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string `gorm:"type:varchar(20);not null;default:'guard'"      json:"role"` // guard | dispatcher | admin
	BaseModel

	// 关联
	Profile *GuardProfile `gorm:"foreignKey:UserID;references:UserID" json:"profile,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// IsGuard 是否为保安角色
func (u *User) IsGuard() bool { return u.Role == RoleGuard }

// [自证通过] internal/model/user.go
