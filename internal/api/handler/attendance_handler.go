package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"geoattend/backend/internal/dto"
	"geoattend/backend/internal/service"
	"geoattend/backend/pkg/geo"
	"geoattend/backend/pkg/response"
)

// AttendanceHandler 考勤模块 HTTP 处理器
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
}

// NewAttendanceHandler 创建 AttendanceHandler
func NewAttendanceHandler(attendanceSvc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc}
}

// CheckIn 签到
// POST /api/v1/attendance/check-in
func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	var req dto.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	record, err := h.attendanceSvc.CheckIn(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.Created(c, record)
}

// CheckOut 签退
// POST /api/v1/attendance/check-out
func (h *AttendanceHandler) CheckOut(c *gin.Context) {
	var req dto.CheckOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	record, err := h.attendanceSvc.CheckOut(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, record)
}

// GetHistory 查询考勤历史
// GET /api/v1/attendance/history/:userId
func (h *AttendanceHandler) GetHistory(c *gin.Context) {
	targetUserID := c.Param("userId")
	if targetUserID == "" {
		response.BadRequest(c, 10001, "用户ID不能为空")
		return
	}

	var req dto.HistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	requesterID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	records, err := h.attendanceSvc.GetHistory(c.Request.Context(), requesterID, targetUserID, &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, gin.H{"list": records})
}

// GetDailyReport 查询考勤日报
// GET /api/v1/attendance/daily-report
func (h *AttendanceHandler) GetDailyReport(c *gin.Context) {
	var req dto.DailyReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	requesterID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	report, err := h.attendanceSvc.GetDailyReport(c.Request.Context(), requesterID, &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, report)
}

// handleAttendanceError 统一处理考勤模块业务错误
func (h *AttendanceHandler) handleAttendanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, geo.ErrInvalidCoordinates):
		response.BadRequest(c, 14001, "坐标超出有效范围")
	case errors.Is(err, service.ErrOfficeNotFound):
		response.NotFound(c, 14002, "办公地点不存在或已停用")
	case errors.Is(err, service.ErrOutOfRange):
		response.BadRequest(c, 14003, "当前位置不在办公地点允许范围内")
	case errors.Is(err, service.ErrAlreadyCheckedIn):
		response.Conflict(c, 14004, "今日已签到，尚未签退")
	case errors.Is(err, service.ErrAttendanceNotFound):
		response.NotFound(c, 14005, "考勤记录不存在")
	case errors.Is(err, service.ErrNotRecordOwner):
		response.Forbidden(c, 14006, "无权操作他人的考勤记录")
	case errors.Is(err, service.ErrAlreadyCheckedOut):
		response.Conflict(c, 14007, "该记录已签退")
	case errors.Is(err, service.ErrHistoryForbidden):
		response.Forbidden(c, 14008, "无权查看该用户的考勤历史")
	case errors.Is(err, service.ErrReportForbidden):
		response.Forbidden(c, 14009, "无权查看考勤日报")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 14010, "用户不存在")
	default:
		response.InternalError(c)
	}
}
