package models

import "time"

// ===========================================================================
// Trip (Chuyến đi thi đấu)
// Roster gồm các player với trạng thái pending/confirmed/declined
// ===========================================================================

// TripStatus trạng thái player trong chuyến đi
type TripStatus string

const (
	TripPending   TripStatus = "pending"
	TripConfirmed TripStatus = "confirmed"
	TripDeclined  TripStatus = "declined"
)

// Valid kiểm tra status hợp lệ
func (s TripStatus) Valid() bool {
	switch s {
	case TripPending, TripConfirmed, TripDeclined:
		return true
	}
	return false
}

// Trip đại diện cho một chuyến đi
type Trip struct {
	SerialModel

	Name          string    `gorm:"size:255;not null" json:"name"`
	Destination   string    `gorm:"size:255;not null" json:"destination"`
	DepartureDate time.Time `gorm:"type:date;not null;index" json:"departure_date"`
	ReturnDate    time.Time `gorm:"type:date;not null" json:"return_date"`
	MaxMen        int       `gorm:"not null;default:0" json:"max_men"`
	MaxWomen      int       `gorm:"not null;default:0" json:"max_women"`
	Notes         *string   `gorm:"type:text" json:"notes"`
	FlightInfo    *string   `gorm:"type:text" json:"flight_info"`

	// Relations
	Roster []TripRoster `gorm:"foreignKey:TripID" json:"trip_roster,omitempty"`
}

// TableName trả về tên bảng
func (Trip) TableName() string {
	return "trips"
}

// TripRoster player trong một chuyến đi
type TripRoster struct {
	TripID   int64      `gorm:"primaryKey" json:"trip_id"`
	PlayerID int64      `gorm:"primaryKey;index" json:"player_id"`
	Status   TripStatus `gorm:"size:16;not null;default:'pending'" json:"status"`

	// Relations
	Player *Player `gorm:"foreignKey:PlayerID" json:"player,omitempty"`
}

// TableName trả về tên bảng
func (TripRoster) TableName() string {
	return "trip_roster"
}

// RosterCounts số player đã confirm theo giới tính
type RosterCounts struct {
	ConfirmedMen   int `json:"confirmed_men"`
	ConfirmedWomen int `json:"confirmed_women"`
	Pending        int `json:"pending"`
	Declined       int `json:"declined"`
}

// Counts đếm roster (cần preload Roster.Player)
func (t *Trip) Counts() RosterCounts {
	var c RosterCounts
	for _, r := range t.Roster {
		switch r.Status {
		case TripPending:
			c.Pending++
		case TripDeclined:
			c.Declined++
		case TripConfirmed:
			if r.Player == nil {
				continue
			}
			if r.Player.Gender == GenderMale {
				c.ConfirmedMen++
			} else {
				c.ConfirmedWomen++
			}
		}
	}
	return c
}
