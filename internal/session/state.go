package session

import (
	"time"

	"teamhub/internal/models"
)

// Capabilities quyền suy ra từ role và player liên kết
type Capabilities struct {
	IsAdmin   bool `json:"is_admin"`
	IsCoach   bool `json:"is_coach"`
	IsPlayer  bool `json:"is_player"`
	IsCaptain bool `json:"is_captain"`
}

// State thông tin phiên của một user: account, profile, player, capabilities
type State struct {
	User         *models.User    `json:"user"`
	Role         models.UserRole `json:"role"`
	Player       *models.Player  `json:"player"`
	Capabilities Capabilities    `json:"capabilities"`
	LoadedAt     time.Time       `json:"loaded_at"`
}

// NewState tính capabilities cho user (Player đã được preload).
// Captain được coi như coach.
func NewState(user *models.User) *State {
	st := &State{
		User:     user,
		Role:     user.Role,
		Player:   user.Player,
		LoadedAt: time.Now(),
	}

	st.Capabilities.IsAdmin = user.Role == models.RoleAdmin
	st.Capabilities.IsCaptain = user.Player != nil && user.Player.IsCaptain
	st.Capabilities.IsCoach = user.IsStaff() || st.Capabilities.IsCaptain
	st.Capabilities.IsPlayer = user.Role == models.RolePlayer

	return st
}

// PlayerID player liên kết (nil nếu không có)
func (s *State) PlayerID() *int64 {
	if s == nil || s.User == nil {
		return nil
	}
	return s.User.PlayerID
}
