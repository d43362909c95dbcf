package dto

// ── 考勤模块 DTO ──

// CheckInRequest 签到请求
type CheckInRequest struct {
	OfficeLocationID string   `json:"office_location_id" binding:"required,uuid"`
	Longitude        *float64 `json:"longitude"          binding:"required"`
	Latitude         *float64 `json:"latitude"           binding:"required"`
}

// CheckOutRequest 签退请求
type CheckOutRequest struct {
	AttendanceID string   `json:"attendance_id" binding:"required,uuid"`
	Longitude    *float64 `json:"longitude"     binding:"required"`
	Latitude     *float64 `json:"latitude"      binding:"required"`
	Notes        string   `json:"notes"         binding:"omitempty,max=500"`
}

// HistoryRequest 考勤历史查询参数（日期格式 2006-01-02）
type HistoryRequest struct {
	StartDate string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end_date"   binding:"omitempty,datetime=2006-01-02"`
}

// DailyReportRequest 日报查询参数，date 为空时默认当天
type DailyReportRequest struct {
	Date string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

// AttendanceResponse 考勤记录响应
type AttendanceResponse struct {
	ID                string          `json:"id"`
	UserID            string          `json:"user_id"`
	OfficeLocationID  string          `json:"office_location_id"`
	OfficeName        string          `json:"office_name,omitempty"`
	CheckInTime       string          `json:"check_in_time"`
	CheckInLongitude  float64         `json:"check_in_longitude"`
	CheckInLatitude   float64         `json:"check_in_latitude"`
	CheckOutTime      string          `json:"check_out_time,omitempty"`
	CheckOutLongitude *float64        `json:"check_out_longitude,omitempty"`
	CheckOutLatitude  *float64        `json:"check_out_latitude,omitempty"`
	Status            string          `json:"status"`
	Date              string          `json:"date"`
	Notes             string          `json:"notes,omitempty"`
	User              *UserResponse   `json:"user,omitempty"`
	OfficeLocation    *OfficeResponse `json:"office_location,omitempty"`
}

// DailyReportResponse 日报响应
type DailyReportResponse struct {
	Date              string               `json:"date"`
	TotalEmployees    int                  `json:"total_employees"`
	PresentCount      int                  `json:"present_count"`
	AbsentCount       int                  `json:"absent_count"`
	PresentPercentage float64              `json:"present_percentage"`
	AttendanceRecords []AttendanceResponse `json:"attendance_records"`
	AbsentUsers       []UserResponse       `json:"absent_users"`
}
