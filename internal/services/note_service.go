package services

import (
	"context"

	"teamhub/internal/models"
	"teamhub/internal/repositories"
)

// ===========================================================================
// Note Service Interface
// Tạo/sửa/xóa note với kiểm tra quyền và visibility
// ===========================================================================

// NoteCreator persists a new note. Every call inserts a new row.
type NoteCreator interface {
	Create(ctx context.Context, note *models.Note) error
}

// NoteUpdate các field được sửa (nil = giữ nguyên)
type NoteUpdate struct {
	Title          *string
	Content        *string
	NoteType       *models.NoteType
	Visibility     *models.Visibility
	EventID        *int64
	ClearEvent     bool
	PlayerMentions *[]int64
	KeyPoints      *[]string
}

// NoteService interface cho note operations
type NoteService interface {
	NoteCreator

	// Get note nếu viewer được xem
	Get(ctx context.Context, id int64, viewer repositories.NoteViewer) (*models.Note, error)

	// List notes viewer được xem
	List(ctx context.Context, filter repositories.NoteFilter) ([]models.Note, int64, error)

	// Update chỉ author hoặc admin
	Update(ctx context.Context, id int64, actor repositories.NoteViewer, input NoteUpdate) (*models.Note, error)

	// Delete chỉ author hoặc admin
	Delete(ctx context.Context, id int64, actor repositories.NoteViewer) error

	// ReplaceShares thay danh sách player được share (author hoặc admin)
	ReplaceShares(ctx context.Context, id int64, actor repositories.NoteViewer, playerIDs []int64) error

	// CountMentioning số note viewer được xem có nhắc tới player
	CountMentioning(ctx context.Context, playerID int64, viewer repositories.NoteViewer) (int64, error)
}
