package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"geoattend/backend/internal/dto"
	"geoattend/backend/internal/model"
	"geoattend/backend/internal/repository"
	"geoattend/backend/pkg/geo"
)

// ── 考勤模块业务错误 ──

var (
	ErrOfficeNotFound     = errors.New("办公地点不存在或已停用")
	ErrOutOfRange         = errors.New("当前位置不在办公地点允许范围内")
	ErrAlreadyCheckedIn   = errors.New("今日已签到，尚未签退")
	ErrAttendanceNotFound = errors.New("考勤记录不存在")
	ErrNotRecordOwner     = errors.New("无权操作他人的考勤记录")
	ErrAlreadyCheckedOut  = errors.New("该记录已签退")
	ErrHistoryForbidden   = errors.New("无权查看该用户的考勤历史")
	ErrReportForbidden    = errors.New("无权查看考勤日报")
)

// AttendanceService 考勤业务接口
type AttendanceService interface {
	CheckIn(ctx context.Context, userID string, req *dto.CheckInRequest) (*dto.AttendanceResponse, error)
	CheckOut(ctx context.Context, userID string, req *dto.CheckOutRequest) (*dto.AttendanceResponse, error)
	GetHistory(ctx context.Context, requesterID, targetUserID string, req *dto.HistoryRequest) ([]dto.AttendanceResponse, error)
	GetDailyReport(ctx context.Context, requesterID string, req *dto.DailyReportRequest) (*dto.DailyReportResponse, error)
}

type attendanceService struct {
	repo   *repository.Repository
	loc    *time.Location
	logger *zap.Logger
}

// NewAttendanceService 创建 AttendanceService 实例
// loc 决定"当日"的归属：签到去重与日报分桶必须使用同一时区
func NewAttendanceService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) AttendanceService {
	return &attendanceService{repo: repo, loc: loc, logger: logger}
}

// dayStart 将时间归一化到所在自然日的零点
func (s *attendanceService) dayStart(t time.Time) time.Time {
	t = t.In(s.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc)
}

// ────────────────────── CheckIn ──────────────────────
//
// 签到流程：定位用户 → 定位办公地点 → 地理围栏判定 → 创建 open 记录。
// 同日重复签到先走应用层预检查（友好报错），并发竞争最终由
// 部分唯一索引裁决（Create 返回 gorm.ErrDuplicatedKey）。

func (s *attendanceService) CheckIn(ctx context.Context, userID string, req *dto.CheckInRequest) (*dto.AttendanceResponse, error) {
	point := geo.Point{Longitude: *req.Longitude, Latitude: *req.Latitude}
	if err := point.Validate(); err != nil {
		return nil, err
	}

	// 1. 确认用户存在
	if _, err := s.repo.User.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	// 2. 定位办公地点（缺失与停用统一报"不存在"）
	office, err := s.repo.Office.GetByID(ctx, req.OfficeLocationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfficeNotFound
		}
		s.logger.Error("查询办公地点失败", zap.String("office_id", req.OfficeLocationID), zap.Error(err))
		return nil, err
	}
	if !office.IsActive {
		return nil, ErrOfficeNotFound
	}

	// 3. 地理围栏判定（边界含在内）
	within, err := geo.WithinRadius(point, office.Point(), office.RadiusMeters)
	if err != nil {
		return nil, err
	}
	if !within {
		return nil, ErrOutOfRange
	}

	now := time.Now().In(s.loc)
	today := s.dayStart(now)

	// 4. 预检查：同日是否已有未签退记录
	if _, err := s.repo.Attendance.GetOpenByUserAndDate(ctx, userID, today); err == nil {
		return nil, ErrAlreadyCheckedIn
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询当日考勤失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	// 5. 创建记录；并发下唯一索引兜底
	rec := &model.AttendanceRecord{
		UserID:           userID,
		OfficeLocationID: office.OfficeLocationID,
		CheckInTime:      now,
		CheckInLongitude: point.Longitude,
		CheckInLatitude:  point.Latitude,
		Status:           model.AttendanceStatusOpen,
		Date:             today,
	}
	rec.CreatedBy = &userID
	rec.UpdatedBy = &userID

	if err := s.repo.Attendance.Create(ctx, rec); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyCheckedIn
		}
		s.logger.Error("创建考勤记录失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	rec.OfficeLocation = office
	return s.toAttendanceResponse(rec), nil
}

// ────────────────────── CheckOut ──────────────────────
//
// 签退不重新校验地理围栏（与签到不对称），仅校验坐标范围合法。

func (s *attendanceService) CheckOut(ctx context.Context, userID string, req *dto.CheckOutRequest) (*dto.AttendanceResponse, error) {
	point := geo.Point{Longitude: *req.Longitude, Latitude: *req.Latitude}
	if err := point.Validate(); err != nil {
		return nil, err
	}

	rec, err := s.repo.Attendance.GetByID(ctx, req.AttendanceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttendanceNotFound
		}
		s.logger.Error("查询考勤记录失败", zap.String("attendance_id", req.AttendanceID), zap.Error(err))
		return nil, err
	}

	// 归属校验先于状态校验：非本人一律 Forbidden，与记录状态无关
	if rec.UserID != userID {
		return nil, ErrNotRecordOwner
	}

	if err := rec.Close(time.Now().In(s.loc), point, req.Notes); err != nil {
		if errors.Is(err, model.ErrAttendanceClosed) {
			return nil, ErrAlreadyCheckedOut
		}
		return nil, err
	}
	rec.UpdatedBy = &userID

	if err := s.repo.Attendance.Update(ctx, rec); err != nil {
		s.logger.Error("更新考勤记录失败", zap.String("attendance_id", rec.AttendanceID), zap.Error(err))
		return nil, err
	}

	return s.toAttendanceResponse(rec), nil
}

// ────────────────────── GetHistory ──────────────────────

func (s *attendanceService) GetHistory(ctx context.Context, requesterID, targetUserID string, req *dto.HistoryRequest) ([]dto.AttendanceResponse, error) {
	requester, err := s.repo.User.GetByID(ctx, requesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("user_id", requesterID), zap.Error(err))
		return nil, err
	}

	if _, err := s.repo.User.GetByID(ctx, targetUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("user_id", targetUserID), zap.Error(err))
		return nil, err
	}

	// 本人，或 admin/manager
	if requesterID != targetUserID && !requester.CanViewOthers() {
		return nil, ErrHistoryForbidden
	}

	var start, end *time.Time
	if req.StartDate != "" {
		t, err := time.ParseInLocation("2006-01-02", req.StartDate, s.loc)
		if err == nil {
			start = &t
		}
	}
	if req.EndDate != "" {
		t, err := time.ParseInLocation("2006-01-02", req.EndDate, s.loc)
		if err == nil {
			end = &t
		}
	}

	records, err := s.repo.Attendance.ListByUser(ctx, targetUserID, start, end)
	if err != nil {
		s.logger.Error("查询考勤历史失败", zap.String("user_id", targetUserID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.AttendanceResponse, 0, len(records))
	for i := range records {
		result = append(result, *s.toAttendanceResponse(&records[i]))
	}
	return result, nil
}

// ────────────────────── GetDailyReport ──────────────────────
//
// 日报：当日全部签到记录 + employee 花名册推导出勤/缺勤；
// 花名册为空时出勤率报 0，不做除零运算。

func (s *attendanceService) GetDailyReport(ctx context.Context, requesterID string, req *dto.DailyReportRequest) (*dto.DailyReportResponse, error) {
	requester, err := s.repo.User.GetByID(ctx, requesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("user_id", requesterID), zap.Error(err))
		return nil, err
	}
	if !requester.CanViewOthers() {
		return nil, ErrReportForbidden
	}

	reportDate := s.dayStart(time.Now())
	if req.Date != "" {
		t, err := time.ParseInLocation("2006-01-02", req.Date, s.loc)
		if err == nil {
			reportDate = s.dayStart(t)
		}
	}

	records, err := s.repo.Attendance.ListByDate(ctx, reportDate)
	if err != nil {
		s.logger.Error("查询当日考勤失败", zap.Time("date", reportDate), zap.Error(err))
		return nil, err
	}

	roster, err := s.repo.User.ListByRole(ctx, model.RoleEmployee)
	if err != nil {
		s.logger.Error("查询员工花名册失败", zap.Error(err))
		return nil, err
	}

	checkedIn := make(map[string]bool, len(records))
	recordResponses := make([]dto.AttendanceResponse, 0, len(records))
	for i := range records {
		checkedIn[records[i].UserID] = true
		recordResponses = append(recordResponses, *s.toAttendanceResponse(&records[i]))
	}

	absent := make([]dto.UserResponse, 0)
	for i := range roster {
		if !checkedIn[roster[i].UserID] {
			absent = append(absent, toUserResponse(&roster[i]))
		}
	}

	presentCount := len(roster) - len(absent)
	percentage := 0.0
	if len(roster) > 0 {
		percentage = float64(presentCount) / float64(len(roster)) * 100
	}

	return &dto.DailyReportResponse{
		Date:              reportDate.Format("2006-01-02"),
		TotalEmployees:    len(roster),
		PresentCount:      presentCount,
		AbsentCount:       len(absent),
		PresentPercentage: percentage,
		AttendanceRecords: recordResponses,
		AbsentUsers:       absent,
	}, nil
}

// ── 内部辅助方法 ──

func (s *attendanceService) toAttendanceResponse(rec *model.AttendanceRecord) *dto.AttendanceResponse {
	resp := &dto.AttendanceResponse{
		ID:                rec.AttendanceID,
		UserID:            rec.UserID,
		OfficeLocationID:  rec.OfficeLocationID,
		CheckInTime:       rec.CheckInTime.Format(time.RFC3339),
		CheckInLongitude:  rec.CheckInLongitude,
		CheckInLatitude:   rec.CheckInLatitude,
		CheckOutLongitude: rec.CheckOutLongitude,
		CheckOutLatitude:  rec.CheckOutLatitude,
		Status:            rec.Status,
		Date:              rec.Date.Format("2006-01-02"),
		Notes:             rec.Notes,
	}
	if rec.CheckOutTime != nil {
		resp.CheckOutTime = rec.CheckOutTime.Format(time.RFC3339)
	}
	if rec.OfficeLocation != nil {
		resp.OfficeName = rec.OfficeLocation.Name
	}
	if rec.User != nil {
		u := toUserResponse(rec.User)
		resp.User = &u
	}
	return resp
}
