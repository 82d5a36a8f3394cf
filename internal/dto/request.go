package dto

import "time"

// ===========================================================================
// Request DTOs (Data Transfer Objects)
// Các struct dùng để validate và parse request body/query
// ===========================================================================

// PaginationRequest phân trang cho các API list
type PaginationRequest struct {
	// Page số trang hiện tại (bắt đầu từ 1)
	Page int `form:"page" binding:"min=0"`

	// Limit số record mỗi trang (tối đa 100)
	Limit int `form:"limit" binding:"min=0,max=100"`
}

// SetDefaults set giá trị mặc định cho pagination
func (p *PaginationRequest) SetDefaults(limit int) {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = limit
	}
}

// Offset tính offset cho database query
func (p *PaginationRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ===========================================================================
// Auth Requests
// ===========================================================================

// LoginRequest body cho đăng nhập
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SignupRequest body cho tự đăng ký (email phải có trên roster)
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"max=255"`
}

// EmailRequest body chỉ có email (magic link, reset password)
type EmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// TokenRequest body chứa token một-lần
type TokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// UpdatePasswordRequest đặt mật khẩu mới bằng reset token
type UpdatePasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

// ===========================================================================
// Note Requests
// ===========================================================================

// ListNotesQuery query params cho list notes
type ListNotesQuery struct {
	PaginationRequest

	NoteType string `form:"note_type" binding:"omitempty,oneof=practice match pre_match post_match practice_plan film_review general"`
	EventID  int64  `form:"event_id" binding:"min=0"`
	AuthorID string `form:"author_id" binding:"omitempty,uuid"`
	PlayerID int64  `form:"player_id" binding:"min=0"`

	// Search full-text trên title + content
	Search string `form:"q" binding:"max=200"`
}

// CreateNoteRequest body tạo note trực tiếp
type CreateNoteRequest struct {
	NoteType       string   `json:"note_type" binding:"omitempty,oneof=practice match pre_match post_match practice_plan film_review general"`
	Title          string   `json:"title" binding:"required,max=255"`
	Content        string   `json:"content"`
	EventID        *int64   `json:"event_id"`
	Visibility     string   `json:"visibility" binding:"omitempty,oneof=private team specific"`
	PlayerMentions []int64  `json:"player_mentions"`
	KeyPoints      []string `json:"key_points"`
}

// UpdateNoteRequest body cập nhật note (nil = không đổi)
type UpdateNoteRequest struct {
	NoteType       *string   `json:"note_type" binding:"omitempty,oneof=practice match pre_match post_match practice_plan film_review general"`
	Title          *string   `json:"title" binding:"omitempty,max=255"`
	Content        *string   `json:"content"`
	EventID        *int64    `json:"event_id"`
	ClearEvent     bool      `json:"clear_event"`
	Visibility     *string   `json:"visibility" binding:"omitempty,oneof=private team specific"`
	PlayerMentions *[]int64  `json:"player_mentions"`
	KeyPoints      *[]string `json:"key_points"`
}

// ReplaceSharesRequest danh sách player được share note
type ReplaceSharesRequest struct {
	PlayerIDs []int64 `json:"player_ids"`
}

// ===========================================================================
// Capture Requests
// ===========================================================================

// CaptureInputRequest cập nhật field của draft (nil = không đổi)
type CaptureInputRequest struct {
	NoteType   *string `json:"note_type" binding:"omitempty,oneof=practice match pre_match post_match practice_plan film_review general"`
	Title      *string `json:"title" binding:"omitempty,max=255"`
	Content    *string `json:"content"`
	Visibility *string `json:"visibility" binding:"omitempty,oneof=private team specific"`
	EventID    *int64  `json:"event_id"`
	ClearEvent bool    `json:"clear_event"`
}

// AttachImagesRequest ảnh dạng data URI hoặc base64 thô
type AttachImagesRequest struct {
	Images []string `json:"images" binding:"required,min=1,dive,required"`
}

// KeyPointEditRequest sửa key point tại index
type KeyPointEditRequest struct {
	Index int    `json:"index" binding:"min=0"`
	Text  string `json:"text"`
}

// ReviewEditRequest chỉnh sửa ở step review
type ReviewEditRequest struct {
	CaptureInputRequest

	Transcript     *string              `json:"transcript"`
	AddKeyPoint    *string              `json:"add_key_point"`
	SetKeyPoint    *KeyPointEditRequest `json:"set_key_point"`
	RemoveKeyPoint *int                 `json:"remove_key_point" binding:"omitempty,min=0"`
	TogglePlayerID *int64               `json:"toggle_player_id"`
}

// ===========================================================================
// Roster Requests
// ===========================================================================

// ListPlayersQuery filter roster
type ListPlayersQuery struct {
	Gender          string `form:"gender" binding:"omitempty,oneof=male female"`
	TagID           int64  `form:"tag_id" binding:"min=0"`
	IncludeInactive bool   `form:"include_inactive"`
}

// PlayerRequest body tạo player
type PlayerRequest struct {
	FirstName string  `json:"first_name" binding:"required,max=100"`
	LastName  string  `json:"last_name" binding:"required,max=100"`
	Email     string  `json:"email" binding:"required,email"`
	Gender    string  `json:"gender" binding:"required,oneof=male female"`
	ClassYear *string `json:"class_year" binding:"omitempty,oneof=Fr So Jr Sr"`
	IsCaptain bool    `json:"is_captain"`
}

// UpdatePlayerRequest body cập nhật player (nil = không đổi)
type UpdatePlayerRequest struct {
	FirstName *string `json:"first_name" binding:"omitempty,max=100"`
	LastName  *string `json:"last_name" binding:"omitempty,max=100"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Gender    *string `json:"gender" binding:"omitempty,oneof=male female"`
	ClassYear *string `json:"class_year" binding:"omitempty,oneof=Fr So Jr Sr"`
	IsCaptain *bool   `json:"is_captain"`
	IsActive  *bool   `json:"is_active"`
}

// StaffRequest body tạo staff
type StaffRequest struct {
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"required,max=100"`
	Email     string `json:"email" binding:"required,email"`
	Title     string `json:"title" binding:"max=100"`
	Role      string `json:"role" binding:"required,oneof=head_coach assistant_coach trainer"`
}

// TagRequest body tạo tag
type TagRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Color string `json:"color" binding:"omitempty,max=20"`
}

// ===========================================================================
// Event Requests
// ===========================================================================

// ListEventsQuery filter lịch (start/end dạng YYYY-MM-DD)
type ListEventsQuery struct {
	Start  string `form:"start" binding:"omitempty,datetime=2006-01-02"`
	End    string `form:"end" binding:"omitempty,datetime=2006-01-02"`
	Gender string `form:"gender" binding:"omitempty,oneof=male female"`
}

// MatchDetailsRequest thông tin trận đấu
type MatchDetailsRequest struct {
	Opponent    string  `json:"opponent" binding:"required,max=255"`
	HomeAway    string  `json:"home_away" binding:"required,oneof=home away neutral"`
	MensScore   *string `json:"mens_score" binding:"omitempty,max=20"`
	WomensScore *string `json:"womens_score" binding:"omitempty,max=20"`
	Result      *string `json:"result" binding:"omitempty,oneof=win loss tie cancelled"`
}

// EventRequest body tạo event
type EventRequest struct {
	Title        string               `json:"title" binding:"required,max=255"`
	EventType    string               `json:"event_type" binding:"required,oneof=practice match fitness meeting scrimmage trip other"`
	EventDate    string               `json:"event_date" binding:"required,datetime=2006-01-02"`
	StartTime    *string              `json:"start_time" binding:"omitempty,datetime=15:04"`
	EndTime      *string              `json:"end_time" binding:"omitempty,datetime=15:04"`
	Location     *string              `json:"location" binding:"omitempty,max=255"`
	ForMens      *bool                `json:"for_mens"`
	ForWomens    *bool                `json:"for_womens"`
	Notes        *string              `json:"notes"`
	MeetingNotes *string              `json:"meeting_notes"`
	MatchDetails *MatchDetailsRequest `json:"match_details"`
}

// UpdateEventRequest body cập nhật event (nil = không đổi)
type UpdateEventRequest struct {
	Title        *string              `json:"title" binding:"omitempty,max=255"`
	EventType    *string              `json:"event_type" binding:"omitempty,oneof=practice match fitness meeting scrimmage trip other"`
	EventDate    *string              `json:"event_date" binding:"omitempty,datetime=2006-01-02"`
	StartTime    *string              `json:"start_time" binding:"omitempty,datetime=15:04"`
	EndTime      *string              `json:"end_time" binding:"omitempty,datetime=15:04"`
	Location     *string              `json:"location" binding:"omitempty,max=255"`
	ForMens      *bool                `json:"for_mens"`
	ForWomens    *bool                `json:"for_womens"`
	Notes        *string              `json:"notes"`
	MeetingNotes *string              `json:"meeting_notes"`
	MatchDetails *MatchDetailsRequest `json:"match_details"`
}

// ===========================================================================
// Announcement / Form / Trip Requests
// ===========================================================================

// ListAnnouncementsQuery filter announcements
type ListAnnouncementsQuery struct {
	Gender string `form:"gender" binding:"omitempty,oneof=male female"`
	Limit  int    `form:"limit" binding:"min=0,max=100"`
}

// AnnouncementRequest body tạo announcement
type AnnouncementRequest struct {
	Title     string     `json:"title" binding:"required,max=255"`
	Content   string     `json:"content" binding:"required"`
	Priority  string     `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
	ForMens   *bool      `json:"for_mens"`
	ForWomens *bool      `json:"for_womens"`
	PublishAt *time.Time `json:"publish_at"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// UpdateAnnouncementRequest body cập nhật announcement (nil = không đổi)
type UpdateAnnouncementRequest struct {
	Title     *string    `json:"title" binding:"omitempty,max=255"`
	Content   *string    `json:"content"`
	Priority  *string    `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
	ForMens   *bool      `json:"for_mens"`
	ForWomens *bool      `json:"for_womens"`
	PublishAt *time.Time `json:"publish_at"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// FormQuestionRequest một câu hỏi của form
type FormQuestionRequest struct {
	QuestionText string   `json:"question_text" binding:"required"`
	QuestionType string   `json:"question_type" binding:"required,oneof=text textarea select multiselect date time boolean"`
	Options      []string `json:"options"`
	IsRequired   bool     `json:"is_required"`
}

// FormRequest body tạo form kèm questions
type FormRequest struct {
	Title       string                `json:"title" binding:"required,max=255"`
	Description *string               `json:"description"`
	DueDate     *time.Time            `json:"due_date"`
	ForMens     *bool                 `json:"for_mens"`
	ForWomens   *bool                 `json:"for_womens"`
	TargetTags  []int64               `json:"target_tags"`
	Questions   []FormQuestionRequest `json:"questions" binding:"dive"`
}

// FormResponseRequest câu trả lời, key là question id
type FormResponseRequest struct {
	Responses map[string]interface{} `json:"responses" binding:"required"`
}

// TripRequest body tạo trip
type TripRequest struct {
	Name          string  `json:"name" binding:"required,max=255"`
	Destination   string  `json:"destination" binding:"required,max=255"`
	DepartureDate string  `json:"departure_date" binding:"required,datetime=2006-01-02"`
	ReturnDate    string  `json:"return_date" binding:"required,datetime=2006-01-02"`
	MaxMen        int     `json:"max_men" binding:"min=0"`
	MaxWomen      int     `json:"max_women" binding:"min=0"`
	Notes         *string `json:"notes"`
	FlightInfo    *string `json:"flight_info"`
}

// TripStatusRequest đổi status của player trong trip
type TripStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed declined"`
}
