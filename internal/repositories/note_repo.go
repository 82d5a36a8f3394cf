package repositories

import (
	"context"
	"fmt"

	"teamhub/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ===========================================================================
// Note Repository GORM Implementation
// Visibility được áp dụng ngay trong query:
//   - author luôn thấy note của mình
//   - team: mọi thành viên
//   - specific: staff và các player có trong note_shares
//   - private: chỉ author
// ===========================================================================

// noteRepo triển khai NoteRepository với GORM
type noteRepo struct {
	db *gorm.DB
}

// NewNoteRepository tạo instance mới của NoteRepository
func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &noteRepo{db: db}
}

// scopeVisible giới hạn query theo quyền xem của viewer
func scopeVisible(q *gorm.DB, v NoteViewer) *gorm.DB {
	switch {
	case v.IsStaff:
		return q.Where("(notes.author_id = ? OR notes.visibility IN ?)",
			v.UserID, []models.Visibility{models.VisibilityTeam, models.VisibilitySpecific})
	case v.PlayerID != nil:
		return q.Where(
			"(notes.author_id = ? OR notes.visibility = ? OR (notes.visibility = ? AND EXISTS "+
				"(SELECT 1 FROM note_shares WHERE note_shares.note_id = notes.id AND note_shares.player_id = ?)))",
			v.UserID, models.VisibilityTeam, models.VisibilitySpecific, *v.PlayerID)
	default:
		return q.Where("(notes.author_id = ? OR notes.visibility = ?)", v.UserID, models.VisibilityTeam)
	}
}

// mentionsPlayer lọc note có player trong player_mentions
func (r *noteRepo) mentionsPlayer(q *gorm.DB, playerID int64) *gorm.DB {
	if isPostgres(r.db) {
		return q.Where("notes.player_mentions @> CAST(? AS jsonb)", fmt.Sprintf("[%d]", playerID))
	}
	return q.Where("EXISTS (SELECT 1 FROM json_each(notes.player_mentions) WHERE json_each.value = ?)", playerID)
}

// search full-text trên title + content
func (r *noteRepo) search(q *gorm.DB, term string) *gorm.DB {
	if isPostgres(r.db) {
		return q.Where("to_tsvector('english', notes.title || ' ' || notes.content) @@ websearch_to_tsquery('english', ?)", term)
	}
	like := "%" + term + "%"
	return q.Where("(notes.title LIKE ? OR notes.content LIKE ?)", like, like)
}

// FindByID tìm note theo ID
func (r *noteRepo) FindByID(ctx context.Context, id int64) (*models.Note, error) {
	var note models.Note
	if err := r.db.WithContext(ctx).
		Preload("Event").
		Preload("Shares").
		First(&note, id).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

// FindVisible tìm note nếu viewer được xem, không thì ErrRecordNotFound
func (r *noteRepo) FindVisible(ctx context.Context, id int64, viewer NoteViewer) (*models.Note, error) {
	var note models.Note
	query := scopeVisible(r.db.WithContext(ctx).Model(&models.Note{}), viewer)
	if err := query.
		Preload("Event").
		Preload("Shares").
		Where("notes.id = ?", id).
		First(&note).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

// List lấy notes theo filter, mới nhất trước
func (r *noteRepo) List(ctx context.Context, filter NoteFilter) ([]models.Note, int64, error) {
	filter.SetDefaults()

	query := scopeVisible(r.db.WithContext(ctx).Model(&models.Note{}), filter.Viewer)

	if filter.NoteType != "" {
		query = query.Where("notes.note_type = ?", filter.NoteType)
	}
	if filter.EventID != 0 {
		query = query.Where("notes.event_id = ?", filter.EventID)
	}
	if filter.AuthorID != uuid.Nil {
		query = query.Where("notes.author_id = ?", filter.AuthorID)
	}
	if filter.PlayerID != 0 {
		query = r.mentionsPlayer(query, filter.PlayerID)
	}
	if filter.Search != "" {
		query = r.search(query, filter.Search)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notes []models.Note
	if err := filter.Paginate(query).
		Preload("Event").
		Order("notes.created_at DESC, notes.id DESC").
		Find(&notes).Error; err != nil {
		return nil, 0, err
	}

	return notes, total, nil
}

// ListByAuthor notes gần nhất của author (cho AI context)
func (r *noteRepo) ListByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]models.Note, error) {
	var notes []models.Note
	if err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

// CountMentioning đếm notes nhắc tới player
func (r *noteRepo) CountMentioning(ctx context.Context, playerID int64, viewer NoteViewer) (int64, error) {
	query := scopeVisible(r.db.WithContext(ctx).Model(&models.Note{}), viewer)
	query = r.mentionsPlayer(query, playerID)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create luôn insert một row mới (ID do DB cấp)
func (r *noteRepo) Create(ctx context.Context, note *models.Note) error {
	note.ID = 0
	note.Normalize()
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(note).Error
}

// Update cập nhật note
func (r *noteRepo) Update(ctx context.Context, note *models.Note) error {
	note.Normalize()
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(note).Error
}

// Delete xóa note và shares
func (r *noteRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("note_id = ?", id).Delete(&models.NoteShare{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Note{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// ReplaceShares thay toàn bộ danh sách share của note
func (r *noteRepo) ReplaceShares(ctx context.Context, noteID int64, playerIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("note_id = ?", noteID).Delete(&models.NoteShare{}).Error; err != nil {
			return err
		}

		seen := make(map[int64]bool, len(playerIDs))
		shares := make([]models.NoteShare, 0, len(playerIDs))
		for _, id := range playerIDs {
			if seen[id] {
				continue
			}
			seen[id] = true
			shares = append(shares, models.NoteShare{NoteID: noteID, PlayerID: id})
		}
		if len(shares) == 0 {
			return nil
		}
		return tx.Create(&shares).Error
	})
}
