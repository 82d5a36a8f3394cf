package models

import (
	"strings"

	"github.com/google/uuid"
)

// ===========================================================================
// Note (Ghi chú của coach/player)
// Tạo bằng tay hoặc từ ảnh viết tay đã qua AI transcription
// Append-only khi tạo: mỗi lần save là một row mới
// ===========================================================================

// NoteType loại ghi chú
type NoteType string

const (
	NotePractice     NoteType = "practice"
	NoteMatch        NoteType = "match"
	NotePreMatch     NoteType = "pre_match"
	NotePostMatch    NoteType = "post_match"
	NotePracticePlan NoteType = "practice_plan"
	NoteFilmReview   NoteType = "film_review"
	NoteGeneral      NoteType = "general"
)

// Valid kiểm tra note type hợp lệ
func (t NoteType) Valid() bool {
	switch t {
	case NotePractice, NoteMatch, NotePreMatch, NotePostMatch, NotePracticePlan, NoteFilmReview, NoteGeneral:
		return true
	}
	return false
}

// Visibility ai được xem ghi chú
type Visibility string

const (
	// VisibilityPrivate chỉ tác giả
	VisibilityPrivate Visibility = "private"

	// VisibilityTeam toàn đội
	VisibilityTeam Visibility = "team"

	// VisibilitySpecific tác giả, staff và các player được share
	VisibilitySpecific Visibility = "specific"
)

// Valid kiểm tra visibility hợp lệ
func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPrivate, VisibilityTeam, VisibilitySpecific:
		return true
	}
	return false
}

// Note đại diện cho một ghi chú
type Note struct {
	SerialModel

	// AuthorID user tạo ghi chú
	AuthorID uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`

	// NoteType loại ghi chú
	NoteType NoteType `gorm:"size:32;not null;default:'general';index" json:"note_type"`

	// Title tiêu đề (bắt buộc, không được rỗng)
	Title string `gorm:"size:255;not null" json:"title"`

	// Content nội dung (transcript nếu từ AI)
	Content string `gorm:"type:text;not null;default:''" json:"content"`

	// EventID sự kiện liên quan (nullable)
	EventID *int64 `gorm:"index" json:"event_id"`

	// Visibility private/team/specific
	Visibility Visibility `gorm:"size:16;not null;default:'private'" json:"visibility"`

	// PlayerMentions danh sách player ID, giữ nguyên thứ tự
	PlayerMentions Int64List `gorm:"type:jsonb;not null" json:"player_mentions"`

	// KeyPoints các ý chính, giữ nguyên thứ tự
	KeyPoints StringList `gorm:"type:jsonb;not null" json:"key_points"`

	// AIRawOutput kết quả AI đã chuẩn hóa (null nếu nhập tay)
	AIRawOutput *AIParsedResult `gorm:"type:jsonb;serializer:json" json:"ai_raw_output"`

	// Relations
	Event  *Event      `gorm:"foreignKey:EventID" json:"event,omitempty"`
	Author *User       `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Shares []NoteShare `gorm:"foreignKey:NoteID" json:"shares,omitempty"`
}

// TableName trả về tên bảng
func (Note) TableName() string {
	return "notes"
}

// Normalize trim title và đảm bảo list không nil
func (n *Note) Normalize() {
	n.Title = strings.TrimSpace(n.Title)
	if n.PlayerMentions == nil {
		n.PlayerMentions = Int64List{}
	}
	if n.KeyPoints == nil {
		n.KeyPoints = StringList{}
	}
	if n.NoteType == "" {
		n.NoteType = NoteGeneral
	}
	if n.Visibility == "" {
		n.Visibility = VisibilityPrivate
	}
}

// FromTranscription note có được tạo từ AI không
func (n *Note) FromTranscription() bool {
	return n.AIRawOutput != nil
}

// NoteShare player được share một note "specific"
type NoteShare struct {
	NoteID   int64 `gorm:"primaryKey" json:"note_id"`
	PlayerID int64 `gorm:"primaryKey;index" json:"player_id"`
}

// TableName trả về tên bảng
func (NoteShare) TableName() string {
	return "note_shares"
}

// ===========================================================================
// AIParsedResult
// Kết quả transcription sau khi chuẩn hóa, lưu nguyên vào ai_raw_output
// Các list luôn là array (không null) sau khi chuẩn hóa
// ===========================================================================

// RelatedRef tham chiếu tới event/note mà AI gợi ý
type RelatedRef struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// AIParsedResult output của AI transcription
type AIParsedResult struct {
	ExtractedText    string       `json:"extracted_text"`
	PlayersMentioned []string     `json:"players_mentioned"`
	KeyPoints        []string     `json:"key_points"`
	RelatedEvents    []RelatedRef `json:"related_events"`
	RelatedNotes     []RelatedRef `json:"related_notes"`
}

// Clone deep copy (draft giữ bản riêng)
func (r *AIParsedResult) Clone() *AIParsedResult {
	if r == nil {
		return nil
	}
	out := &AIParsedResult{
		ExtractedText:    r.ExtractedText,
		PlayersMentioned: append([]string{}, r.PlayersMentioned...),
		KeyPoints:        append([]string{}, r.KeyPoints...),
		RelatedEvents:    append([]RelatedRef{}, r.RelatedEvents...),
		RelatedNotes:     append([]RelatedRef{}, r.RelatedNotes...),
	}
	return out
}
