package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"geoattend/backend/internal/dto"
	"geoattend/backend/internal/model"
	"geoattend/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoRecords = errors.New("所选日期没有考勤记录")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 日报导出为 Excel (.xlsx)，供管理员/经理下载归档
//   - 个人考勤历史导出为 iCalendar (.ics)，可订阅到日历客户端
//   - 均以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportDailyReport 导出指定日期的考勤日报为 Excel
	// 返回值：buf（文件内容）, filename（建议文件名）, error
	ExportDailyReport(ctx context.Context, req *dto.DailyReportRequest) (*bytes.Buffer, string, error)
	// ExportHistoryICS 将用户自己的考勤历史导出为 iCalendar
	ExportHistoryICS(ctx context.Context, userID string, req *dto.HistoryRequest) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	loc    *time.Location
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, loc: loc, logger: logger}
}

// ────────────────────── ExportDailyReport ──────────────────────

func (s *exportService) ExportDailyReport(ctx context.Context, req *dto.DailyReportRequest) (*bytes.Buffer, string, error) {
	now := time.Now().In(s.loc)
	reportDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	if req.Date != "" {
		t, err := time.ParseInLocation("2006-01-02", req.Date, s.loc)
		if err == nil {
			reportDate = t
		}
	}

	records, err := s.repo.Attendance.ListByDate(ctx, reportDate)
	if err != nil {
		s.logger.Error("查询当日考勤失败", zap.Time("date", reportDate), zap.Error(err))
		return nil, "", err
	}
	if len(records) == 0 {
		return nil, "", ErrExportNoRecords
	}

	roster, err := s.repo.User.ListByRole(ctx, model.RoleEmployee)
	if err != nil {
		s.logger.Error("查询员工花名册失败", zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "考勤日报"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"姓名", "邮箱", "部门", "办公地点", "签到时间", "签退时间", "状态", "备注"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	checkedIn := make(map[string]bool, len(records))
	row := 2
	for i := range records {
		rec := &records[i]
		checkedIn[rec.UserID] = true

		name, email, dept := rec.UserID, "", ""
		if rec.User != nil {
			name, email, dept = rec.User.Name, rec.User.Email, rec.User.Department
		}
		officeName := rec.OfficeLocationID
		if rec.OfficeLocation != nil {
			officeName = rec.OfficeLocation.Name
		}
		checkOut := ""
		if rec.CheckOutTime != nil {
			checkOut = rec.CheckOutTime.In(s.loc).Format("15:04:05")
		}

		values := []interface{}{
			name, email, dept, officeName,
			rec.CheckInTime.In(s.loc).Format("15:04:05"),
			checkOut, rec.Status, rec.Notes,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, v)
		}
		row++
	}

	// 缺勤名单附在记录之后
	row++
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "缺勤员工")
	row++
	for i := range roster {
		if checkedIn[roster[i].UserID] {
			continue
		}
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), roster[i].Name)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), roster[i].Email)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), roster[i].Department)
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("生成 Excel 失败", zap.Error(err))
		return nil, "", err
	}

	filename := fmt.Sprintf("attendance-report-%s.xlsx", reportDate.Format("2006-01-02"))
	return buf, filename, nil
}

// ────────────────────── ExportHistoryICS ──────────────────────

func (s *exportService) ExportHistoryICS(ctx context.Context, userID string, req *dto.HistoryRequest) (*bytes.Buffer, string, error) {
	var start, end *time.Time
	if req.StartDate != "" {
		if t, err := time.ParseInLocation("2006-01-02", req.StartDate, s.loc); err == nil {
			start = &t
		}
	}
	if req.EndDate != "" {
		if t, err := time.ParseInLocation("2006-01-02", req.EndDate, s.loc); err == nil {
			end = &t
		}
	}

	records, err := s.repo.Attendance.ListByUser(ctx, userID, start, end)
	if err != nil {
		s.logger.Error("查询考勤历史失败", zap.String("user_id", userID), zap.Error(err))
		return nil, "", err
	}
	if len(records) == 0 {
		return nil, "", ErrExportNoRecords
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//geoattend//attendance//CN")

	now := time.Now()
	for i := range records {
		rec := &records[i]

		event := cal.AddEvent(fmt.Sprintf("%s@geoattend", rec.AttendanceID))
		event.SetCreatedTime(now)
		event.SetDtStampTime(now)
		event.SetStartAt(rec.CheckInTime)

		// 未签退的记录按零时长事件导出
		endAt := rec.CheckInTime
		if rec.CheckOutTime != nil {
			endAt = *rec.CheckOutTime
		}
		event.SetEndAt(endAt)

		summary := "上班考勤"
		if rec.OfficeLocation != nil {
			summary = fmt.Sprintf("上班考勤 - %s", rec.OfficeLocation.Name)
			event.SetLocation(rec.OfficeLocation.Address)
		}
		event.SetSummary(summary)
		if rec.Notes != "" {
			event.SetDescription(rec.Notes)
		}
	}

	buf := bytes.NewBufferString(cal.Serialize())
	return buf, "attendance-history.ics", nil
}
