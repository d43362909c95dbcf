package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"geoattend/backend/config"
	"geoattend/backend/internal/dto"
	"geoattend/backend/internal/model"
	"geoattend/backend/internal/repository"
	"geoattend/backend/pkg/geo"
)

// ── 办公地点模块业务错误 ──

var (
	ErrOfficeNameTaken  = errors.New("同名办公地点已存在")
	ErrPartialCoordinate = errors.New("经纬度必须成对提供")
)

// OfficeService 办公地点业务接口
type OfficeService interface {
	Create(ctx context.Context, req *dto.CreateOfficeRequest, callerID string) (*dto.OfficeResponse, error)
	GetByID(ctx context.Context, id string) (*dto.OfficeResponse, error)
	List(ctx context.Context, req *dto.OfficeListRequest) ([]dto.OfficeResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateOfficeRequest, callerID string) (*dto.OfficeResponse, error)
	// Delete 物理删除，仅管理员；常规停用应走 Update 的 is_active
	Delete(ctx context.Context, id string) error
}

type officeService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewOfficeService 创建 OfficeService 实例
func NewOfficeService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) OfficeService {
	return &officeService{cfg: cfg, repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *officeService) Create(ctx context.Context, req *dto.CreateOfficeRequest, callerID string) (*dto.OfficeResponse, error) {
	point := geo.Point{Longitude: *req.Longitude, Latitude: *req.Latitude}
	if err := point.Validate(); err != nil {
		return nil, err
	}

	radius := s.cfg.Attendance.DefaultRadiusMeters
	if req.RadiusMeters != nil {
		radius = *req.RadiusMeters
	}
	if radius <= 0 {
		return nil, geo.ErrInvalidRadius
	}

	office := &model.OfficeLocation{
		Name:         req.Name,
		Address:      req.Address,
		Longitude:    point.Longitude,
		Latitude:     point.Latitude,
		RadiusMeters: radius,
		IsActive:     true,
	}
	office.CreatedBy = &callerID
	office.UpdatedBy = &callerID

	if err := s.repo.Office.Create(ctx, office); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrOfficeNameTaken
		}
		s.logger.Error("创建办公地点失败", zap.Error(err))
		return nil, err
	}

	return s.toOfficeResponse(office), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *officeService) GetByID(ctx context.Context, id string) (*dto.OfficeResponse, error) {
	office, err := s.repo.Office.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfficeNotFound
		}
		s.logger.Error("查询办公地点失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toOfficeResponse(office), nil
}

// ────────────────────── List ──────────────────────

func (s *officeService) List(ctx context.Context, req *dto.OfficeListRequest) ([]dto.OfficeResponse, error) {
	offices, err := s.repo.Office.List(ctx, req.IncludeInactive)
	if err != nil {
		s.logger.Error("列出办公地点失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.OfficeResponse, 0, len(offices))
	for i := range offices {
		result = append(result, *s.toOfficeResponse(&offices[i]))
	}

	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *officeService) Update(ctx context.Context, id string, req *dto.UpdateOfficeRequest, callerID string) (*dto.OfficeResponse, error) {
	office, err := s.repo.Office.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfficeNotFound
		}
		s.logger.Error("查询办公地点失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	// 经纬度成对更新，避免出现半新半旧的坐标
	if (req.Longitude == nil) != (req.Latitude == nil) {
		return nil, ErrPartialCoordinate
	}
	if req.Longitude != nil && req.Latitude != nil {
		point := geo.Point{Longitude: *req.Longitude, Latitude: *req.Latitude}
		if err := point.Validate(); err != nil {
			return nil, err
		}
		office.Longitude = point.Longitude
		office.Latitude = point.Latitude
	}

	if req.Name != nil {
		office.Name = *req.Name
	}
	if req.Address != nil {
		office.Address = *req.Address
	}
	if req.RadiusMeters != nil {
		if *req.RadiusMeters <= 0 {
			return nil, geo.ErrInvalidRadius
		}
		office.RadiusMeters = *req.RadiusMeters
	}
	if req.IsActive != nil {
		office.IsActive = *req.IsActive
	}

	office.UpdatedBy = &callerID
	office.UpdatedAt = time.Now()

	if err := s.repo.Office.Update(ctx, office); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrOfficeNameTaken
		}
		s.logger.Error("更新办公地点失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toOfficeResponse(office), nil
}

// ────────────────────── Delete ──────────────────────

func (s *officeService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Office.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOfficeNotFound
		}
		s.logger.Error("查询办公地点失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Office.Delete(ctx, id); err != nil {
		s.logger.Error("删除办公地点失败", zap.String("id", id), zap.Error(err))
		return err
	}

	return nil
}

// ── 内部辅助方法 ──

func (s *officeService) toOfficeResponse(office *model.OfficeLocation) *dto.OfficeResponse {
	return &dto.OfficeResponse{
		ID:           office.OfficeLocationID,
		Name:         office.Name,
		Address:      office.Address,
		Longitude:    office.Longitude,
		Latitude:     office.Latitude,
		RadiusMeters: office.RadiusMeters,
		IsActive:     office.IsActive,
		CreatedAt:    office.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    office.UpdatedAt.Format(time.RFC3339),
	}
}
