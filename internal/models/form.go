package models

import (
	"time"

	"github.com/google/uuid"
)

// ===========================================================================
// Form (Khảo sát / đăng ký)
// Coach tạo form với danh sách câu hỏi, player trả lời một lần
// (submit lại sẽ ghi đè response cũ)
// ===========================================================================

// QuestionType loại câu hỏi
type QuestionType string

const (
	QuestionText        QuestionType = "text"
	QuestionTextarea    QuestionType = "textarea"
	QuestionSelect      QuestionType = "select"
	QuestionMultiselect QuestionType = "multiselect"
	QuestionDate        QuestionType = "date"
	QuestionTime        QuestionType = "time"
	QuestionBoolean     QuestionType = "boolean"
)

// Valid kiểm tra question type hợp lệ
func (q QuestionType) Valid() bool {
	switch q {
	case QuestionText, QuestionTextarea, QuestionSelect, QuestionMultiselect, QuestionDate, QuestionTime, QuestionBoolean:
		return true
	}
	return false
}

// Form đại diện cho một form
type Form struct {
	SerialModel

	Title       string     `gorm:"size:255;not null" json:"title"`
	Description *string    `gorm:"type:text" json:"description"`
	DueDate     *time.Time `json:"due_date"`
	IsActive    bool       `gorm:"not null;index" json:"is_active"`
	ForMens     bool       `gorm:"not null" json:"for_mens"`
	ForWomens   bool       `gorm:"not null" json:"for_womens"`

	// TargetTags chỉ player có một trong các tag này (rỗng = tất cả)
	TargetTags Int64List `gorm:"type:jsonb" json:"target_tags"`

	CreatedBy *uuid.UUID `gorm:"type:uuid" json:"created_by"`

	// Relations
	Questions []FormQuestion `gorm:"foreignKey:FormID" json:"form_questions,omitempty"`
}

// TableName trả về tên bảng
func (Form) TableName() string {
	return "forms"
}

// FormQuestion một câu hỏi trong form
type FormQuestion struct {
	ID           int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	FormID       int64        `gorm:"not null;index" json:"form_id"`
	QuestionText string       `gorm:"type:text;not null" json:"question_text"`
	QuestionType QuestionType `gorm:"size:16;not null" json:"question_type"`
	Options      StringList   `gorm:"type:jsonb" json:"options"`
	IsRequired   bool         `gorm:"not null;default:false" json:"is_required"`
	SortOrder    int          `gorm:"not null;default:0" json:"sort_order"`
}

// TableName trả về tên bảng
func (FormQuestion) TableName() string {
	return "form_questions"
}

// FormResponse câu trả lời của một player (unique theo form + player)
type FormResponse struct {
	ID       int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	FormID   int64 `gorm:"not null;uniqueIndex:idx_form_player" json:"form_id"`
	PlayerID int64 `gorm:"not null;uniqueIndex:idx_form_player" json:"player_id"`

	// Responses map question_id -> answer (string, []string hoặc bool)
	Responses JSONMap `gorm:"type:jsonb;not null" json:"responses"`

	SubmittedAt time.Time `gorm:"not null" json:"submitted_at"`
}

// TableName trả về tên bảng
func (FormResponse) TableName() string {
	return "form_responses"
}
