package repositories

import (
	"context"
	"time"

	"teamhub/internal/models"

	"github.com/google/uuid"
)

// ===========================================================================
// User Repository Interface
// Quản lý CRUD cho accounts
// ===========================================================================

// UserRepository interface cho user data access
type UserRepository interface {
	// FindByID tìm user theo ID (preload Player, Staff)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// FindByEmail tìm user active theo email (không phân biệt hoa thường)
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// List lấy danh sách users
	List(ctx context.Context, opts FindOptions) ([]models.User, int64, error)

	// Create tạo user mới
	Create(ctx context.Context, user *models.User) error

	// Update cập nhật user
	Update(ctx context.Context, user *models.User) error

	// RegisterFromRoster tạo account nếu email có trên roster player/staff.
	// Kiểm tra và insert nằm trong cùng một transaction.
	RegisterFromRoster(ctx context.Context, user *models.User) error
}

// ===========================================================================
// Roster Repositories
// ===========================================================================

// PlayerFilter điều kiện lọc player
type PlayerFilter struct {
	IncludeInactive bool
	Gender          models.Gender
	TagID           int64
}

// PlayerRepository interface cho player data access
type PlayerRepository interface {
	Repository[models.Player, int64]

	// FindByEmail tìm player theo email (không phân biệt hoa thường)
	FindByEmail(ctx context.Context, email string) (*models.Player, error)

	// List lấy roster, sắp xếp theo last_name
	List(ctx context.Context, filter PlayerFilter) ([]models.Player, error)

	// ListActive player active, dùng cho AI context
	ListActive(ctx context.Context) ([]models.Player, error)

	// AddTag gán tag cho player
	AddTag(ctx context.Context, playerID, tagID int64) error

	// RemoveTag bỏ tag khỏi player
	RemoveTag(ctx context.Context, playerID, tagID int64) error
}

// StaffRepository interface cho staff data access
type StaffRepository interface {
	Repository[models.Staff, int64]

	// FindByEmail tìm staff theo email
	FindByEmail(ctx context.Context, email string) (*models.Staff, error)

	// List lấy danh sách staff
	List(ctx context.Context) ([]models.Staff, error)
}

// TagRepository interface cho tag data access
type TagRepository interface {
	Repository[models.Tag, int64]

	// List lấy danh sách tags theo tên
	List(ctx context.Context) ([]models.Tag, error)
}

// ===========================================================================
// Event Repository Interface
// ===========================================================================

// EventFilter điều kiện lọc event
type EventFilter struct {
	From      *time.Time
	To        *time.Time
	EventType models.EventType
	Limit     int
	// Descending sắp xếp event_date giảm dần
	Descending bool
}

// EventRepository interface cho event data access
type EventRepository interface {
	Repository[models.Event, int64]

	// List lấy events theo filter (preload MatchDetails)
	List(ctx context.Context, filter EventFilter) ([]models.Event, error)

	// ListOnOrBefore tối đa limit events có event_date <= day, mới nhất trước
	ListOnOrBefore(ctx context.Context, day time.Time, limit int) ([]models.Event, error)

	// UpsertMatchDetails tạo hoặc cập nhật match details
	UpsertMatchDetails(ctx context.Context, details *models.MatchDetails) error
}

// ===========================================================================
// Note Repository Interface
// ===========================================================================

// NoteViewer người đang xem, dùng để áp dụng visibility
type NoteViewer struct {
	UserID   uuid.UUID
	PlayerID *int64
	IsStaff  bool
	// IsAdmin được sửa/xóa note của người khác
	IsAdmin bool
}

// NoteFilter điều kiện lọc note
type NoteFilter struct {
	Viewer   NoteViewer
	NoteType models.NoteType
	PlayerID int64
	EventID  int64
	AuthorID uuid.UUID
	Search   string
	FindOptions
}

// NoteRepository interface cho note data access
type NoteRepository interface {
	// FindByID tìm note theo ID (preload Event, Shares)
	FindByID(ctx context.Context, id int64) (*models.Note, error)

	// FindVisible tìm note nếu viewer được phép xem
	FindVisible(ctx context.Context, id int64, viewer NoteViewer) (*models.Note, error)

	// List lấy notes viewer được xem, mới nhất trước
	List(ctx context.Context, filter NoteFilter) ([]models.Note, int64, error)

	// ListByAuthor tối đa limit notes của author, mới nhất trước
	ListByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]models.Note, error)

	// CountMentioning đếm notes nhắc tới player mà viewer được xem
	CountMentioning(ctx context.Context, playerID int64, viewer NoteViewer) (int64, error)

	// Create luôn insert row mới
	Create(ctx context.Context, note *models.Note) error

	// Update cập nhật note
	Update(ctx context.Context, note *models.Note) error

	// Delete xóa note và shares
	Delete(ctx context.Context, id int64) error

	// ReplaceShares thay toàn bộ danh sách player được share
	ReplaceShares(ctx context.Context, noteID int64, playerIDs []int64) error
}

// ===========================================================================
// Announcement / Form / Trip Repository Interfaces
// ===========================================================================

// AnnouncementRepository interface cho announcement data access
type AnnouncementRepository interface {
	Repository[models.Announcement, int64]

	// ListActive announcements đang hiển thị tại now, urgent trước
	ListActive(ctx context.Context, now time.Time) ([]models.Announcement, error)

	// ListAll tất cả announcements (cho admin)
	ListAll(ctx context.Context) ([]models.Announcement, error)
}

// FormRepository interface cho form data access
type FormRepository interface {
	// FindByID tìm form (preload Questions theo sort_order)
	FindByID(ctx context.Context, id int64) (*models.Form, error)

	// List lấy forms, activeOnly = chỉ form đang mở
	List(ctx context.Context, activeOnly bool) ([]models.Form, error)

	// Create tạo form kèm questions
	Create(ctx context.Context, form *models.Form) error

	// Update cập nhật thông tin form (không đổi questions)
	Update(ctx context.Context, form *models.Form) error

	// Delete xóa form, questions và responses
	Delete(ctx context.Context, id int64) error

	// UpsertResponse ghi response (ghi đè nếu player đã trả lời)
	UpsertResponse(ctx context.Context, response *models.FormResponse) error

	// FindResponse response của player cho form
	FindResponse(ctx context.Context, formID, playerID int64) (*models.FormResponse, error)

	// ListResponses tất cả responses của form
	ListResponses(ctx context.Context, formID int64) ([]models.FormResponse, error)
}

// TripRepository interface cho trip data access
type TripRepository interface {
	// FindByID tìm trip (preload Roster.Player)
	FindByID(ctx context.Context, id int64) (*models.Trip, error)

	// List lấy trips theo departure_date
	List(ctx context.Context, upcomingFrom *time.Time) ([]models.Trip, error)

	Create(ctx context.Context, trip *models.Trip) error
	Update(ctx context.Context, trip *models.Trip) error
	Delete(ctx context.Context, id int64) error

	// SetRosterStatus thêm player vào trip hoặc đổi status
	SetRosterStatus(ctx context.Context, tripID, playerID int64, status models.TripStatus) error

	// RemoveFromRoster bỏ player khỏi trip
	RemoveFromRoster(ctx context.Context, tripID, playerID int64) error
}
