package repository

import (
	"context"

	"gorm.io/gorm"

	"geoattend/backend/internal/model"
)

// OfficeLocationRepository 办公地点数据访问接口
type OfficeLocationRepository interface {
	Create(ctx context.Context, office *model.OfficeLocation) error
	GetByID(ctx context.Context, id string) (*model.OfficeLocation, error)
	List(ctx context.Context, includeInactive bool) ([]model.OfficeLocation, error)
	Update(ctx context.Context, office *model.OfficeLocation) error
	// Delete 物理删除；常规停用走 IsActive 标记
	Delete(ctx context.Context, id string) error
}

type officeRepo struct {
	db *gorm.DB
}

// NewOfficeRepo 创建 OfficeLocationRepository 实例
func NewOfficeRepo(db *gorm.DB) OfficeLocationRepository {
	return &officeRepo{db: db}
}

func (r *officeRepo) Create(ctx context.Context, office *model.OfficeLocation) error {
	return r.db.WithContext(ctx).Create(office).Error
}

func (r *officeRepo) GetByID(ctx context.Context, id string) (*model.OfficeLocation, error) {
	var office model.OfficeLocation
	err := r.db.WithContext(ctx).
		Where("office_location_id = ?", id).
		First(&office).Error
	if err != nil {
		return nil, err
	}
	return &office, nil
}

func (r *officeRepo) List(ctx context.Context, includeInactive bool) ([]model.OfficeLocation, error) {
	var offices []model.OfficeLocation
	db := r.db.WithContext(ctx)

	if !includeInactive {
		db = db.Where("is_active = ?", true)
	}

	err := db.Order("name ASC").Find(&offices).Error
	return offices, err
}

func (r *officeRepo) Update(ctx context.Context, office *model.OfficeLocation) error {
	return r.db.WithContext(ctx).Save(office).Error
}

func (r *officeRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("office_location_id = ?", id).
		Delete(&model.OfficeLocation{}).Error
}
