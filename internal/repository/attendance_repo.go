package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"geoattend/backend/internal/model"
)

const dateLayout = "2006-01-02"

// AttendanceRepository 考勤记录数据访问接口
// Create 依赖部分唯一索引 uniq_attendance_open_per_day：
// 同用户同日已有 open 记录时返回 gorm.ErrDuplicatedKey
type AttendanceRepository interface {
	Create(ctx context.Context, rec *model.AttendanceRecord) error
	GetByID(ctx context.Context, id string) (*model.AttendanceRecord, error)
	GetOpenByUserAndDate(ctx context.Context, userID string, date time.Time) (*model.AttendanceRecord, error)
	Update(ctx context.Context, rec *model.AttendanceRecord) error
	ListByUser(ctx context.Context, userID string, start, end *time.Time) ([]model.AttendanceRecord, error)
	ListByDate(ctx context.Context, date time.Time) ([]model.AttendanceRecord, error)
}

type attendanceRepo struct {
	db *gorm.DB
}

// NewAttendanceRepo 创建 AttendanceRepository 实例
func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

func (r *attendanceRepo) Create(ctx context.Context, rec *model.AttendanceRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *attendanceRepo) GetByID(ctx context.Context, id string) (*model.AttendanceRecord, error) {
	var rec model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Preload("OfficeLocation").
		Where("attendance_id = ?", id).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *attendanceRepo) GetOpenByUserAndDate(ctx context.Context, userID string, date time.Time) (*model.AttendanceRecord, error) {
	var rec model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ? AND status = ?",
			userID, date.Format(dateLayout), model.AttendanceStatusOpen).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *attendanceRepo) Update(ctx context.Context, rec *model.AttendanceRecord) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *attendanceRepo) ListByUser(ctx context.Context, userID string, start, end *time.Time) ([]model.AttendanceRecord, error) {
	var records []model.AttendanceRecord
	db := r.db.WithContext(ctx).
		Preload("OfficeLocation").
		Where("user_id = ?", userID)

	if start != nil {
		db = db.Where("date >= ?", start.Format(dateLayout))
	}
	if end != nil {
		db = db.Where("date <= ?", end.Format(dateLayout))
	}

	err := db.Order("date DESC, check_in_time DESC").Find(&records).Error
	return records, err
}

func (r *attendanceRepo) ListByDate(ctx context.Context, date time.Time) ([]model.AttendanceRecord, error) {
	var records []model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("OfficeLocation").
		Where("date = ?", date.Format(dateLayout)).
		Order("check_in_time ASC").
		Find(&records).Error
	return records, err
}
