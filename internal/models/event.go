package models

import (
	"time"

	"github.com/google/uuid"
)

// ===========================================================================
// Event (Lịch: practice, match, meeting...)
// Match có thêm MatchDetails (1-1 theo event_id)
// ===========================================================================

// EventType loại sự kiện
type EventType string

const (
	EventPractice  EventType = "practice"
	EventMatch     EventType = "match"
	EventFitness   EventType = "fitness"
	EventMeeting   EventType = "meeting"
	EventScrimmage EventType = "scrimmage"
	EventTrip      EventType = "trip"
	EventOther     EventType = "other"
)

// Valid kiểm tra event type hợp lệ
func (t EventType) Valid() bool {
	switch t {
	case EventPractice, EventMatch, EventFitness, EventMeeting, EventScrimmage, EventTrip, EventOther:
		return true
	}
	return false
}

// Event đại diện cho một sự kiện trong lịch
type Event struct {
	SerialModel

	// Title tiêu đề
	Title string `gorm:"size:255;not null" json:"title"`

	// EventType loại sự kiện
	EventType EventType `gorm:"size:32;not null;index" json:"event_type"`

	// EventDate ngày diễn ra (00:00 UTC)
	EventDate time.Time `gorm:"type:date;not null;index" json:"event_date"`

	// StartTime/EndTime dạng "HH:MM"
	StartTime *string `gorm:"size:5" json:"start_time"`
	EndTime   *string `gorm:"size:5" json:"end_time"`

	// Location địa điểm
	Location *string `gorm:"size:255" json:"location"`

	// ForMens/ForWomens nhóm áp dụng
	ForMens   bool `gorm:"not null" json:"for_mens"`
	ForWomens bool `gorm:"not null" json:"for_womens"`

	// Notes ghi chú chung
	Notes *string `gorm:"type:text" json:"notes"`

	// MeetingNotes biên bản họp
	MeetingNotes *string `gorm:"type:text" json:"meeting_notes"`

	// CreatedBy user tạo
	CreatedBy *uuid.UUID `gorm:"type:uuid" json:"created_by"`

	// Relations
	MatchDetails *MatchDetails `gorm:"foreignKey:EventID" json:"match_details,omitempty"`
}

// TableName trả về tên bảng
func (Event) TableName() string {
	return "events"
}

// HomeAway sân nhà/khách
type HomeAway string

const (
	Home    HomeAway = "home"
	Away    HomeAway = "away"
	Neutral HomeAway = "neutral"
)

// MatchResult kết quả trận
type MatchResult string

const (
	ResultWin       MatchResult = "win"
	ResultLoss      MatchResult = "loss"
	ResultTie       MatchResult = "tie"
	ResultCancelled MatchResult = "cancelled"
)

// MatchDetails thông tin trận đấu
type MatchDetails struct {
	// EventID primary key, trùng với event
	EventID int64 `gorm:"primaryKey;autoIncrement:false" json:"event_id"`

	Opponent    string       `gorm:"size:255;not null" json:"opponent"`
	HomeAway    HomeAway     `gorm:"size:10;not null" json:"home_away"`
	MensScore   *string      `gorm:"size:20" json:"mens_score"`
	WomensScore *string      `gorm:"size:20" json:"womens_score"`
	Result      *MatchResult `gorm:"size:16" json:"result"`
}

// TableName trả về tên bảng
func (MatchDetails) TableName() string {
	return "match_details"
}

// DateOf cắt về 00:00 UTC của ngày (theo UTC), dùng cho cột date
func DateOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
