package model

import (
	"errors"
	"testing"
	"time"

	"geoattend/backend/pkg/geo"
)

func newOpenRecord() *AttendanceRecord {
	return &AttendanceRecord{
		AttendanceID:     "att-001",
		UserID:           "user-001",
		OfficeLocationID: "office-001",
		CheckInTime:      time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		Status:           AttendanceStatusOpen,
		Date:             time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
	}
}

func TestClose_Success(t *testing.T) {
	rec := newOpenRecord()
	at := rec.CheckInTime.Add(8 * time.Hour)
	point := geo.Point{Longitude: 116.46, Latitude: 39.90}

	if err := rec.Close(at, point, "正常下班"); err != nil {
		t.Fatalf("Close 应成功: %v", err)
	}
	if rec.Status != AttendanceStatusClosed {
		t.Errorf("期望 Status=closed，实际=%s", rec.Status)
	}
	if rec.CheckOutTime == nil || !rec.CheckOutTime.Equal(at) {
		t.Errorf("期望 CheckOutTime=%v，实际=%v", at, rec.CheckOutTime)
	}
	if rec.CheckOutLongitude == nil || *rec.CheckOutLongitude != 116.46 {
		t.Error("签退经度未写入")
	}
	if rec.Notes != "正常下班" {
		t.Errorf("期望 Notes=正常下班，实际=%s", rec.Notes)
	}
}

func TestClose_AlreadyClosed(t *testing.T) {
	rec := newOpenRecord()
	point := geo.Point{Longitude: 116.46, Latitude: 39.90}
	first := rec.CheckInTime.Add(8 * time.Hour)

	if err := rec.Close(first, point, ""); err != nil {
		t.Fatalf("首次 Close 应成功: %v", err)
	}

	// 二次关闭必须拒绝且不改动记录
	err := rec.Close(first.Add(time.Hour), geo.Point{Longitude: 0, Latitude: 0}, "改写")
	if !errors.Is(err, ErrAttendanceClosed) {
		t.Errorf("期望 ErrAttendanceClosed，实际: %v", err)
	}
	if !rec.CheckOutTime.Equal(first) {
		t.Error("二次 Close 不应改动签退时间")
	}
	if *rec.CheckOutLongitude != 116.46 {
		t.Error("二次 Close 不应改动签退坐标")
	}
}

func TestClose_BeforeCheckIn(t *testing.T) {
	rec := newOpenRecord()
	err := rec.Close(rec.CheckInTime.Add(-time.Minute), geo.Point{}, "")
	if !errors.Is(err, ErrCheckOutBeforeCheckIn) {
		t.Errorf("期望 ErrCheckOutBeforeCheckIn，实际: %v", err)
	}
	if !rec.IsOpen() {
		t.Error("失败的 Close 不应改变状态")
	}
}

func TestClose_EmptyNotesKeepsExisting(t *testing.T) {
	rec := newOpenRecord()
	rec.Notes = "签到备注"

	if err := rec.Close(rec.CheckInTime.Add(time.Hour), geo.Point{Longitude: 1, Latitude: 1}, ""); err != nil {
		t.Fatalf("Close 应成功: %v", err)
	}
	if rec.Notes != "签到备注" {
		t.Errorf("空备注不应覆盖原值，实际=%s", rec.Notes)
	}
}

func TestIsValidRole(t *testing.T) {
	for _, r := range []string{RoleEmployee, RoleAdmin, RoleManager} {
		if !IsValidRole(r) {
			t.Errorf("%s 应为合法角色", r)
		}
	}
	if IsValidRole("superuser") {
		t.Error("superuser 不应为合法角色")
	}
}

func TestCanViewOthers(t *testing.T) {
	cases := map[string]bool{
		RoleEmployee: false,
		RoleAdmin:    true,
		RoleManager:  true,
	}
	for role, want := range cases {
		u := &User{Role: role}
		if u.CanViewOthers() != want {
			t.Errorf("角色 %s 期望 CanViewOthers=%v", role, want)
		}
	}
}
