package model

// 用户角色
const (
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
	RoleManager  = "manager"
)

// User 用户表 — 对应 users
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	Email        string `gorm:"type:varchar(255);not null"                     json:"email"`
	EmployeeID   string `gorm:"type:varchar(50)"                               json:"employee_id,omitempty"`
	Department   string `gorm:"type:varchar(100)"                              json:"department,omitempty"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string `gorm:"type:varchar(20);not null;default:'employee'"   json:"role"`
	IsActive     bool   `gorm:"not null;default:true"                          json:"is_active"`
	SoftDeleteModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// IsValidRole 判断是否为合法角色
func IsValidRole(role string) bool {
	switch role {
	case RoleEmployee, RoleAdmin, RoleManager:
		return true
	}
	return false
}

// CanViewOthers 是否可以查看他人考勤（报表与历史）
func (u *User) CanViewOthers() bool {
	return u.Role == RoleAdmin || u.Role == RoleManager
}
