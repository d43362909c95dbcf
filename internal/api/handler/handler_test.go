package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"geoattend/backend/internal/dto"
	"geoattend/backend/internal/service"
	"geoattend/backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	registerResult   *dto.RegisterResponse
	registerErr      error
	loginResult      *dto.TokenResponse
	loginErr         error
	refreshResult    *dto.TokenResponse
	refreshErr       error
	logoutErr        error
	getCurrentResult *dto.UserResponse
	getCurrentErr    error
}

func (m *mockAuthService) Register(_ context.Context, _ *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	return m.registerResult, m.registerErr
}
func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) RefreshToken(_ context.Context, _ string) (*dto.TokenResponse, error) {
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) Logout(_ context.Context, _ string, _ time.Time) error {
	return m.logoutErr
}
func (m *mockAuthService) GetCurrentUser(_ context.Context, _ string) (*dto.UserResponse, error) {
	return m.getCurrentResult, m.getCurrentErr
}

// ── Mock AttendanceService ──

type mockAttendanceService struct {
	checkInResult  *dto.AttendanceResponse
	checkInErr     error
	checkOutResult *dto.AttendanceResponse
	checkOutErr    error
	historyResult  []dto.AttendanceResponse
	historyErr     error
	reportResult   *dto.DailyReportResponse
	reportErr      error
}

func (m *mockAttendanceService) CheckIn(_ context.Context, _ string, _ *dto.CheckInRequest) (*dto.AttendanceResponse, error) {
	return m.checkInResult, m.checkInErr
}
func (m *mockAttendanceService) CheckOut(_ context.Context, _ string, _ *dto.CheckOutRequest) (*dto.AttendanceResponse, error) {
	return m.checkOutResult, m.checkOutErr
}
func (m *mockAttendanceService) GetHistory(_ context.Context, _, _ string, _ *dto.HistoryRequest) ([]dto.AttendanceResponse, error) {
	return m.historyResult, m.historyErr
}
func (m *mockAttendanceService) GetDailyReport(_ context.Context, _ string, _ *dto.DailyReportRequest) (*dto.DailyReportResponse, error) {
	return m.reportResult, m.reportErr
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportDailyReport(_ context.Context, _ *dto.DailyReportRequest) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}
func (m *mockExportService) ExportHistoryICS(_ context.Context, _ string, _ *dto.HistoryRequest) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setupRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}

func setAuth(c *gin.Context) {
	c.Set("user_id", "test-user-id")
	c.Set("role", "admin")
	c.Set("jti", "test-jti")
	c.Set("token_expires_at", time.Now().Add(15*time.Minute))
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func f64(v float64) *float64 { return &v }

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Register_Success(t *testing.T) {
	mock := &mockAuthService{
		registerResult: &dto.RegisterResponse{
			ID: "user-1", Name: "张三", Email: "zhangsan@test.com", Role: "employee",
		},
	}
	h := NewAuthHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/auth/register", jsonBody(dto.RegisterRequest{
		Name:     "张三",
		Email:    "zhangsan@test.com",
		Password: "password123",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestAuthHandler_Register_EmailTaken(t *testing.T) {
	mock := &mockAuthService{registerErr: service.ErrEmailTaken}
	h := NewAuthHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/auth/register", jsonBody(dto.RegisterRequest{
		Name:     "张三",
		Email:    "zhangsan@test.com",
		Password: "password123",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11002 {
		t.Errorf("expected error code 11002, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.TokenResponse{
			AccessToken:  "test-access-token",
			RefreshToken: "test-refresh-token",
			ExpiresIn:    900,
		},
	}
	h := NewAuthHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "zhangsan@test.com",
		Password: "password123",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	mock := &mockAuthService{loginErr: service.ErrInvalidCredentials}
	h := NewAuthHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "zhangsan@test.com",
		Password: "wrong",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11001 {
		t.Errorf("expected error code 11001, got %d", resp.Code)
	}
}

func TestAuthHandler_GetCurrentUser_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := setupRecorder()
	req := httptest.NewRequest("GET", "/auth/me", nil)

	r := gin.New()
	r.GET("/auth/me", h.GetCurrentUser)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuthHandler_Logout_Success(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/auth/logout", nil)

	r := gin.New()
	r.POST("/auth/logout", func(c *gin.Context) {
		setAuth(c)
		h.Logout(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// AttendanceHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAttendanceHandler_CheckIn_Success(t *testing.T) {
	mock := &mockAttendanceService{
		checkInResult: &dto.AttendanceResponse{
			ID: "att-1", UserID: "test-user-id", Status: "open",
		},
	}
	h := NewAttendanceHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/attendance/check-in", jsonBody(dto.CheckInRequest{
		OfficeLocationID: "11111111-1111-1111-1111-111111111111",
		Longitude:        f64(116.4610),
		Latitude:         f64(39.9086),
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/attendance/check-in", func(c *gin.Context) {
		setAuth(c)
		h.CheckIn(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestAttendanceHandler_CheckIn_MissingCoordinates(t *testing.T) {
	h := NewAttendanceHandler(&mockAttendanceService{})

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/attendance/check-in", jsonBody(map[string]string{
		"office_location_id": "11111111-1111-1111-1111-111111111111",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/attendance/check-in", func(c *gin.Context) {
		setAuth(c)
		h.CheckIn(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAttendanceHandler_CheckIn_ZeroCoordinatesAccepted(t *testing.T) {
	// (0,0) 是合法坐标，不应被 required 校验拒绝
	mock := &mockAttendanceService{
		checkInResult: &dto.AttendanceResponse{ID: "att-1", Status: "open"},
	}
	h := NewAttendanceHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/attendance/check-in", jsonBody(dto.CheckInRequest{
		OfficeLocationID: "11111111-1111-1111-1111-111111111111",
		Longitude:        f64(0),
		Latitude:         f64(0),
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/attendance/check-in", func(c *gin.Context) {
		setAuth(c)
		h.CheckIn(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d (零坐标应通过参数校验)", w.Code)
	}
}

func TestAttendanceHandler_CheckOut_Success(t *testing.T) {
	mock := &mockAttendanceService{
		checkOutResult: &dto.AttendanceResponse{ID: "att-1", Status: "closed"},
	}
	h := NewAttendanceHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/attendance/check-out", jsonBody(dto.CheckOutRequest{
		AttendanceID: "11111111-1111-1111-1111-111111111111",
		Longitude:    f64(116.4610),
		Latitude:     f64(39.9086),
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/attendance/check-out", func(c *gin.Context) {
		setAuth(c)
		h.CheckOut(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAttendanceHandler_GetHistory_Forbidden(t *testing.T) {
	mock := &mockAttendanceService{historyErr: service.ErrHistoryForbidden}
	h := NewAttendanceHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("GET", "/attendance/history/other-user", nil)

	r := gin.New()
	r.GET("/attendance/history/:userId", func(c *gin.Context) {
		setAuth(c)
		h.GetHistory(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 14008 {
		t.Errorf("expected error code 14008, got %d", resp.Code)
	}
}

func TestAttendanceHandler_GetHistory_InvalidDateParam(t *testing.T) {
	h := NewAttendanceHandler(&mockAttendanceService{})

	w := setupRecorder()
	req := httptest.NewRequest("GET", "/attendance/history/u1?start_date=03-01-2026", nil)

	r := gin.New()
	r.GET("/attendance/history/:userId", func(c *gin.Context) {
		setAuth(c)
		h.GetHistory(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAttendanceHandler_GetDailyReport_Success(t *testing.T) {
	mock := &mockAttendanceService{
		reportResult: &dto.DailyReportResponse{
			Date: "2026-03-02", TotalEmployees: 3, PresentCount: 2, AbsentCount: 1,
		},
	}
	h := NewAttendanceHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("GET", "/attendance/daily-report?date=2026-03-02", nil)

	r := gin.New()
	r.GET("/attendance/daily-report", func(c *gin.Context) {
		setAuth(c)
		h.GetDailyReport(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAttendanceHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"OfficeNotFound", service.ErrOfficeNotFound, 404, 14002},
		{"OutOfRange", service.ErrOutOfRange, 400, 14003},
		{"AlreadyCheckedIn", service.ErrAlreadyCheckedIn, 409, 14004},
		{"AttendanceNotFound", service.ErrAttendanceNotFound, 404, 14005},
		{"NotRecordOwner", service.ErrNotRecordOwner, 403, 14006},
		{"AlreadyCheckedOut", service.ErrAlreadyCheckedOut, 409, 14007},
		{"ReportForbidden", service.ErrReportForbidden, 403, 14009},
		{"UserNotFound", service.ErrUserNotFound, 404, 14010},
		{"InternalError", errors.New("unknown"), 500, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockAttendanceService{checkInErr: tt.err}
			h := NewAttendanceHandler(mock)

			w := setupRecorder()
			req := httptest.NewRequest("POST", "/attendance/check-in", jsonBody(dto.CheckInRequest{
				OfficeLocationID: "11111111-1111-1111-1111-111111111111",
				Longitude:        f64(116.4610),
				Latitude:         f64(39.9086),
			}))
			req.Header.Set("Content-Type", "application/json")

			r := gin.New()
			r.POST("/attendance/check-in", func(c *gin.Context) {
				setAuth(c)
				h.CheckIn(c)
			})
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			resp := parseResponse(w)
			if resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_DailyReport_Success(t *testing.T) {
	mock := &mockExportService{
		buf:      bytes.NewBufferString("excel content"),
		filename: "attendance-report-2026-03-02.xlsx",
	}
	h := NewExportHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("GET", "/export/daily-report?date=2026-03-02", nil)

	r := gin.New()
	r.GET("/export/daily-report", h.ExportDailyReport)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	ct := w.Header().Get("Content-Type")
	if ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("unexpected content type: %s", ct)
	}
	if w.Header().Get("Content-Disposition") == "" {
		t.Error("expected Content-Disposition header")
	}
}

func TestExportHandler_DailyReport_NoRecords(t *testing.T) {
	mock := &mockExportService{err: service.ErrExportNoRecords}
	h := NewExportHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("GET", "/export/daily-report?date=2026-03-02", nil)

	r := gin.New()
	r.GET("/export/daily-report", h.ExportDailyReport)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 15001 {
		t.Errorf("expected error code 15001, got %d", resp.Code)
	}
}

func TestExportHandler_HistoryICS_Success(t *testing.T) {
	mock := &mockExportService{
		buf:      bytes.NewBufferString("BEGIN:VCALENDAR\nEND:VCALENDAR"),
		filename: "attendance-history.ics",
	}
	h := NewExportHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("GET", "/export/history.ics", nil)

	r := gin.New()
	r.GET("/export/history.ics", func(c *gin.Context) {
		setAuth(c)
		h.ExportHistoryICS(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	ct := w.Header().Get("Content-Type")
	if ct != "text/calendar; charset=utf-8" {
		t.Errorf("unexpected content type: %s", ct)
	}
}
