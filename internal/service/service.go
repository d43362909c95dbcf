package service

import (
	"time"

	"go.uber.org/zap"

	"geoattend/backend/config"
	"geoattend/backend/internal/repository"
	"geoattend/backend/pkg/jwt"
	"geoattend/backend/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth       AuthService
	User       UserService
	Office     OfficeService
	Attendance AttendanceService
	Export     ExportService
}

// NewService 创建 Service 聚合
// loc 为考勤日分桶时区（来自 server.timezone，启动时解析）
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	loc *time.Location,
	logger *zap.Logger,
) *Service {
	attendance := NewAttendanceService(repo, loc, logger)
	return &Service{
		Auth:       NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		User:       NewUserService(repo, logger),
		Office:     NewOfficeService(cfg, repo, logger),
		Attendance: attendance,
		Export:     NewExportService(repo, loc, logger),
	}
}
