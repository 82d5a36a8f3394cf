package models

// ===========================================================================
// Tag (Nhãn)
// Gán cho player (Singles, Doubles, Travel squad...)
// Form có thể target theo tag
// ===========================================================================

// Tag đại diện cho một nhãn/label
type Tag struct {
	// ID primary key
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	// Name tên tag
	Name string `gorm:"size:100;not null;uniqueIndex" json:"name"`

	// Color màu hiển thị (hex format, VD: "#f59e0b")
	Color string `gorm:"size:20;not null;default:'#6366f1'" json:"color"`

	// Relations
	Players []Player `gorm:"many2many:player_tags" json:"players,omitempty"`
}

// TableName trả về tên bảng
func (Tag) TableName() string {
	return "tags"
}

// ===========================================================================
// PlayerTag (Bảng trung gian)
// Liên kết nhiều-nhiều giữa Player và Tag
// ===========================================================================

// PlayerTag bảng junction cho quan hệ player-tag
type PlayerTag struct {
	// PlayerID ID vận động viên
	PlayerID int64 `gorm:"primaryKey" json:"player_id"`

	// TagID ID tag
	TagID int64 `gorm:"primaryKey" json:"tag_id"`
}

// TableName trả về tên bảng
func (PlayerTag) TableName() string {
	return "player_tags"
}
