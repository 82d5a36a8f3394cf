package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// ===========================================================================
// User (Tài khoản đăng nhập)
// Mỗi account gắn với tối đa một Player hoặc một Staff trên roster
// Role quyết định capabilities: coach/admin quản lý, player/captain xem
// ===========================================================================

// UserRole các vai trò người dùng
type UserRole string

const (
	// RolePlayer vận động viên
	RolePlayer UserRole = "player"

	// RoleCoach huấn luyện viên
	RoleCoach UserRole = "coach"

	// RoleAdmin quản trị viên, toàn quyền
	RoleAdmin UserRole = "admin"

	// RoleCaptain đội trưởng
	RoleCaptain UserRole = "captain"

	// RolePending account chưa được duyệt
	RolePending UserRole = "pending"
)

// Valid kiểm tra role hợp lệ
func (r UserRole) Valid() bool {
	switch r {
	case RolePlayer, RoleCoach, RoleAdmin, RoleCaptain, RolePending:
		return true
	}
	return false
}

// User đại diện cho một tài khoản (profile)
type User struct {
	BaseModel

	// Email địa chỉ email (unique, lưu lowercase)
	Email string `gorm:"size:255;not null;uniqueIndex" json:"email"`

	// PasswordHash mật khẩu đã hash (KHÔNG bao giờ trả về trong JSON)
	PasswordHash string `gorm:"size:255;not null" json:"-"`

	// RefreshTokenHash hash của refresh token hiện tại (KHÔNG trả về trong JSON)
	RefreshTokenHash *string `gorm:"size:255" json:"-"`

	// Name tên hiển thị
	Name string `gorm:"size:255;not null" json:"name"`

	// Role vai trò: player, coach, admin, captain, pending
	Role UserRole `gorm:"size:50;not null;default:'pending'" json:"role"`

	// PlayerID liên kết với roster player (nếu là vận động viên)
	PlayerID *int64 `gorm:"index" json:"player_id,omitempty"`

	// StaffID liên kết với staff (nếu là coach/admin)
	StaffID *int64 `gorm:"index" json:"staff_id,omitempty"`

	// IsActive tài khoản có active không
	IsActive bool `gorm:"not null" json:"is_active"`

	// LastSeenAt lần cuối đăng nhập
	LastSeenAt *time.Time `json:"last_seen_at,omitempty"`

	// Relations
	Player *Player `gorm:"foreignKey:PlayerID" json:"player,omitempty"`
	Staff  *Staff  `gorm:"foreignKey:StaffID" json:"staff,omitempty"`
}

// TableName trả về tên bảng
func (User) TableName() string {
	return "users"
}

// SetPassword hash và set password
// Sử dụng bcrypt với cost mặc định
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword kiểm tra password có đúng không
func (u *User) CheckPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// IsAdmin kiểm tra user có quyền admin không
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsStaff kiểm tra user là coach hoặc admin
func (u *User) IsStaff() bool {
	return u.Role == RoleCoach || u.Role == RoleAdmin
}

// UpdateLastSeen cập nhật thời gian online gần nhất
func (u *User) UpdateLastSeen() {
	now := time.Now()
	u.LastSeenAt = &now
}
