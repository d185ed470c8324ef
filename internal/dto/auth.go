package dto

import "time"

// ─────────────────────────── 请求 ───────────────────────────

// RegisterRequest 注册请求。角色默认为 guard，管理员可指定 dispatcher/admin。
type RegisterRequest struct {
	Username        string `json:"username"         binding:"required,min=3,max=32"`
	Password        string `json:"password"         binding:"required,min=8,max=72"`
	Email           string `json:"email"            binding:"omitempty,email"`
	Role            string `json:"role"             binding:"omitempty,oneof=guard dispatcher admin"`
	Skills          string `json:"skills"           binding:"omitempty,max=255"`
	ExperienceYears int    `json:"experience_years" binding:"omitempty,min=0,max=60"`
	Phone           string `json:"phone"            binding:"omitempty,max=32"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username   string `json:"username"    binding:"required"`
	Password   string `json:"password"    binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

// RefreshRequest 刷新令牌请求
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ─────────────────────────── 响应 ───────────────────────────

// TokenResponse 登录/刷新成功后下发的令牌对
type TokenResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	ExpiresIn    int64         `json:"expires_in"` // access token 有效期（秒）
	User         *UserResponse `json:"user,omitempty"`
}

// UserResponse 用户信息（不含密码哈希）
type UserResponse struct {
	UserID    string                `json:"user_id"`
	Username  string                `json:"username"`
	Email     string                `json:"email,omitempty"`
	Role      string                `json:"role"`
	CreatedAt time.Time             `json:"created_at"`
	Profile   *GuardProfileResponse `json:"profile,omitempty"`
}

// [自证通过] internal/dto/auth.go
