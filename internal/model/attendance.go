package model

import (
	"errors"
	"time"

	"geoattend/backend/pkg/geo"
)

// 考勤记录状态：open（已签到待签退）→ closed（已签退，终态）
const (
	AttendanceStatusOpen   = "open"
	AttendanceStatusClosed = "closed"
)

var (
	// ErrAttendanceClosed 记录已关闭，不允许再次签退
	ErrAttendanceClosed = errors.New("考勤记录已关闭")
	// ErrCheckOutBeforeCheckIn 签退时间早于签到时间
	ErrCheckOutBeforeCheckIn = errors.New("签退时间早于签到时间")
)

// AttendanceRecord 考勤记录表 — 对应 attendance_records
// 同一用户同一自然日最多一条 open 记录，由部分唯一索引
// uniq_attendance_open_per_day 在存储层保证
type AttendanceRecord struct {
	AttendanceID      string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"attendance_id"`
	UserID            string     `gorm:"type:uuid;not null"                             json:"user_id"`
	OfficeLocationID  string     `gorm:"type:uuid;not null"                             json:"office_location_id"`
	CheckInTime       time.Time  `gorm:"not null"                                       json:"check_in_time"`
	CheckInLongitude  float64    `gorm:"not null"                                       json:"check_in_longitude"`
	CheckInLatitude   float64    `gorm:"not null"                                       json:"check_in_latitude"`
	CheckOutTime      *time.Time `json:"check_out_time,omitempty"`
	CheckOutLongitude *float64   `json:"check_out_longitude,omitempty"`
	CheckOutLatitude  *float64   `json:"check_out_latitude,omitempty"`
	Status            string     `gorm:"type:varchar(20);not null;default:'open'"       json:"status"`
	Date              time.Time  `gorm:"type:date;not null"                             json:"date"`
	Notes             string     `gorm:"type:text"                                      json:"notes,omitempty"`
	BaseModel

	// 关联
	User           *User           `gorm:"foreignKey:UserID;references:UserID"                     json:"user,omitempty"`
	OfficeLocation *OfficeLocation `gorm:"foreignKey:OfficeLocationID;references:OfficeLocationID" json:"office_location,omitempty"`
}

// TableName 指定表名
func (AttendanceRecord) TableName() string { return "attendance_records" }

// IsOpen 记录是否仍未签退
func (r *AttendanceRecord) IsOpen() bool {
	return r.Status == AttendanceStatusOpen
}

// Close 执行签退转换：open → closed（终态，单向）
// 已关闭的记录再次调用返回 ErrAttendanceClosed，记录保持不变
func (r *AttendanceRecord) Close(at time.Time, point geo.Point, notes string) error {
	if r.Status == AttendanceStatusClosed {
		return ErrAttendanceClosed
	}
	if at.Before(r.CheckInTime) {
		return ErrCheckOutBeforeCheckIn
	}

	r.CheckOutTime = &at
	r.CheckOutLongitude = &point.Longitude
	r.CheckOutLatitude = &point.Latitude
	r.Status = AttendanceStatusClosed
	if notes != "" {
		r.Notes = notes
	}
	return nil
}
