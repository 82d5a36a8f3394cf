package models

import "strings"

// ===========================================================================
// Player (Vận động viên trên roster)
// Email trên roster là whitelist cho signup
// ===========================================================================

// Gender giới tính (dùng cho men's/women's targeting)
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ClassYear năm học
type ClassYear string

const (
	ClassFreshman  ClassYear = "Fr"
	ClassSophomore ClassYear = "So"
	ClassJunior    ClassYear = "Jr"
	ClassSenior    ClassYear = "Sr"
)

// Player đại diện cho một vận động viên
type Player struct {
	SerialModel

	// FirstName tên
	FirstName string `gorm:"size:100;not null" json:"first_name"`

	// LastName họ
	LastName string `gorm:"size:100;not null" json:"last_name"`

	// Email dùng để match khi signup
	Email string `gorm:"size:255;not null;uniqueIndex" json:"email"`

	// Gender male/female
	Gender Gender `gorm:"size:10;not null" json:"gender"`

	// ClassYear Fr/So/Jr/Sr (nullable)
	ClassYear *ClassYear `gorm:"size:4" json:"class_year"`

	// IsCaptain đội trưởng
	IsCaptain bool `gorm:"not null;default:false" json:"is_captain"`

	// IsActive còn thi đấu không (chỉ player active mới vào AI context)
	IsActive bool `gorm:"not null;index" json:"is_active"`

	// Relations
	Tags []Tag `gorm:"many2many:player_tags" json:"tags,omitempty"`
}

// TableName trả về tên bảng
func (Player) TableName() string {
	return "players"
}

// FullName "First Last", dùng để match tên AI trả về
func (p *Player) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// ===========================================================================
// Staff (Ban huấn luyện)
// ===========================================================================

// StaffRole vai trò staff
type StaffRole string

const (
	StaffHeadCoach      StaffRole = "head_coach"
	StaffAssistantCoach StaffRole = "assistant_coach"
	StaffTrainer        StaffRole = "trainer"
)

// Staff đại diện cho một thành viên ban huấn luyện
type Staff struct {
	SerialModel

	FirstName string    `gorm:"size:100;not null" json:"first_name"`
	LastName  string    `gorm:"size:100;not null" json:"last_name"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Title     string    `gorm:"size:100;not null;default:''" json:"title"`
	Role      StaffRole `gorm:"size:32;not null" json:"role"`
}

// TableName trả về tên bảng
func (Staff) TableName() string {
	return "staff"
}
