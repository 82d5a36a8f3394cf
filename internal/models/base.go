package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ===========================================================================
// BaseModel là struct cơ sở cho account models (users)
// Chứa các trường chung: ID, timestamps, và soft delete
// ===========================================================================

// BaseModel chứa các trường chung cho models dùng UUID
type BaseModel struct {
	// ID là primary key dạng UUID, generate trong BeforeCreate
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	// CreatedAt thời điểm tạo record
	CreatedAt time.Time `gorm:"not null" json:"created_at"`

	// UpdatedAt thời điểm cập nhật gần nhất
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	// DeletedAt dùng cho soft delete, nếu có giá trị = đã xóa
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// BeforeCreate hook chạy trước khi insert record
// Tự động generate UUID nếu chưa có
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// GetID trả về ID của model
func (b *BaseModel) GetID() uuid.UUID {
	return b.ID
}

// IsDeleted kiểm tra model đã bị soft delete chưa
func (b *BaseModel) IsDeleted() bool {
	return b.DeletedAt.Valid
}

// ===========================================================================
// SerialModel cho roster, schedule và notes
// Dùng integer ID tăng dần (player_mentions, related ids đều là số)
// ===========================================================================

// SerialModel chứa ID số và timestamps
type SerialModel struct {
	// ID primary key tự tăng
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	// CreatedAt thời điểm tạo record
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`

	// UpdatedAt thời điểm cập nhật gần nhất
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
