package models

import (
	"time"

	"github.com/google/uuid"
)

// ===========================================================================
// Announcement (Thông báo cho đội)
// Sắp xếp theo priority (urgent trước) rồi publish_at mới nhất
// ===========================================================================

// Priority mức độ ưu tiên
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Valid kiểm tra priority hợp lệ
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Announcement đại diện cho một thông báo
type Announcement struct {
	SerialModel

	Title    string   `gorm:"size:255;not null" json:"title"`
	Content  string   `gorm:"type:text;not null" json:"content"`
	Priority Priority `gorm:"size:16;not null;default:'normal'" json:"priority"`

	ForMens   bool `gorm:"not null" json:"for_mens"`
	ForWomens bool `gorm:"not null" json:"for_womens"`

	// PublishAt thời điểm bắt đầu hiển thị
	PublishAt time.Time `gorm:"not null;index" json:"publish_at"`

	// ExpiresAt hết hạn (nullable = không hết hạn)
	ExpiresAt *time.Time `json:"expires_at"`

	CreatedBy *uuid.UUID `gorm:"type:uuid" json:"created_by"`
}

// TableName trả về tên bảng
func (Announcement) TableName() string {
	return "announcements"
}

// ActiveAt announcement có đang hiển thị tại thời điểm t không
func (a *Announcement) ActiveAt(t time.Time) bool {
	if a.PublishAt.After(t) {
		return false
	}
	return a.ExpiresAt == nil || a.ExpiresAt.After(t)
}
