package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"geoattend/backend/internal/model"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User // key: user_id
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = fmt.Sprintf("user-%d", len(m.users)+1)
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) List(_ context.Context, role string, offset, limit int) ([]model.User, int64, error) {
	var all []model.User
	for _, u := range m.users {
		if role != "" && u.Role != role {
			continue
		}
		all = append(all, *u)
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockUserRepo) ListByRole(_ context.Context, role string) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		if u.Role == role && u.IsActive {
			result = append(result, *u)
		}
	}
	return result, nil
}

// ── Mock OfficeLocationRepository ──

type mockOfficeRepo struct {
	offices map[string]*model.OfficeLocation
}

func newMockOfficeRepo() *mockOfficeRepo {
	return &mockOfficeRepo{offices: make(map[string]*model.OfficeLocation)}
}

func (m *mockOfficeRepo) Create(_ context.Context, office *model.OfficeLocation) error {
	for _, o := range m.offices {
		if o.Name == office.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	if office.OfficeLocationID == "" {
		office.OfficeLocationID = fmt.Sprintf("office-%d", len(m.offices)+1)
	}
	m.offices[office.OfficeLocationID] = office
	return nil
}

func (m *mockOfficeRepo) GetByID(_ context.Context, id string) (*model.OfficeLocation, error) {
	if o, ok := m.offices[id]; ok {
		return o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOfficeRepo) List(_ context.Context, includeInactive bool) ([]model.OfficeLocation, error) {
	var result []model.OfficeLocation
	for _, o := range m.offices {
		if !includeInactive && !o.IsActive {
			continue
		}
		result = append(result, *o)
	}
	return result, nil
}

func (m *mockOfficeRepo) Update(_ context.Context, office *model.OfficeLocation) error {
	m.offices[office.OfficeLocationID] = office
	return nil
}

func (m *mockOfficeRepo) Delete(_ context.Context, id string) error {
	delete(m.offices, id)
	return nil
}

// ── Mock AttendanceRepository ──

// mockAttendanceRepo 的 Create 模拟部分唯一索引：
// 同用户同日已存在 open 记录时返回 gorm.ErrDuplicatedKey
type mockAttendanceRepo struct {
	records   map[string]*model.AttendanceRecord
	idCounter int

	// blindOpenLookup 让 GetOpenByUserAndDate 恒报未找到，
	// 用于模拟并发下预检查漏判、由唯一索引兜底的场景
	blindOpenLookup bool
}

func newMockAttendanceRepo() *mockAttendanceRepo {
	return &mockAttendanceRepo{records: make(map[string]*model.AttendanceRecord)}
}

func sameDay(a, b time.Time) bool {
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}

func (m *mockAttendanceRepo) Create(_ context.Context, rec *model.AttendanceRecord) error {
	for _, r := range m.records {
		if r.UserID == rec.UserID && sameDay(r.Date, rec.Date) && r.Status == model.AttendanceStatusOpen {
			return gorm.ErrDuplicatedKey
		}
	}
	if rec.AttendanceID == "" {
		m.idCounter++
		rec.AttendanceID = fmt.Sprintf("att-%d", m.idCounter)
	}
	m.records[rec.AttendanceID] = rec
	return nil
}

func (m *mockAttendanceRepo) GetByID(_ context.Context, id string) (*model.AttendanceRecord, error) {
	if r, ok := m.records[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) GetOpenByUserAndDate(_ context.Context, userID string, date time.Time) (*model.AttendanceRecord, error) {
	if m.blindOpenLookup {
		return nil, gorm.ErrRecordNotFound
	}
	for _, r := range m.records {
		if r.UserID == userID && sameDay(r.Date, date) && r.Status == model.AttendanceStatusOpen {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) Update(_ context.Context, rec *model.AttendanceRecord) error {
	if _, ok := m.records[rec.AttendanceID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.records[rec.AttendanceID] = rec
	return nil
}

func (m *mockAttendanceRepo) ListByUser(_ context.Context, userID string, start, end *time.Time) ([]model.AttendanceRecord, error) {
	var result []model.AttendanceRecord
	for _, r := range m.records {
		if r.UserID != userID {
			continue
		}
		if start != nil && r.Date.Before(*start) {
			continue
		}
		if end != nil && r.Date.After(*end) {
			continue
		}
		result = append(result, *r)
	}
	return result, nil
}

func (m *mockAttendanceRepo) ListByDate(_ context.Context, date time.Time) ([]model.AttendanceRecord, error) {
	var result []model.AttendanceRecord
	for _, r := range m.records {
		if sameDay(r.Date, date) {
			result = append(result, *r)
		}
	}
	return result, nil
}
