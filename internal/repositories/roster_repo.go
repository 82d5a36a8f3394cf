package repositories

import (
	"context"

	"teamhub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ===========================================================================
// Roster Repositories GORM Implementation
// Player, Staff, Tag
// ===========================================================================

// playerRepo triển khai PlayerRepository với GORM
type playerRepo struct {
	crudRepo[models.Player]
}

// NewPlayerRepository tạo instance mới của PlayerRepository
func NewPlayerRepository(db *gorm.DB) PlayerRepository {
	return &playerRepo{crudRepo[models.Player]{db: db}}
}

// FindByID tìm player theo ID, kèm tags
func (r *playerRepo) FindByID(ctx context.Context, id int64) (*models.Player, error) {
	var player models.Player
	if err := r.db.WithContext(ctx).Preload("Tags").First(&player, id).Error; err != nil {
		return nil, err
	}
	return &player, nil
}

// Create tạo player, email lưu lowercase để match signup
func (r *playerRepo) Create(ctx context.Context, player *models.Player) error {
	player.Email = NormalizeEmail(player.Email)
	return r.db.WithContext(ctx).Omit("Tags").Create(player).Error
}

// Update cập nhật player (tags quản lý qua AddTag/RemoveTag)
func (r *playerRepo) Update(ctx context.Context, player *models.Player) error {
	player.Email = NormalizeEmail(player.Email)
	return r.db.WithContext(ctx).Omit("Tags").Save(player).Error
}

// FindByEmail tìm player theo email
func (r *playerRepo) FindByEmail(ctx context.Context, email string) (*models.Player, error) {
	var player models.Player
	if err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", NormalizeEmail(email)).
		First(&player).Error; err != nil {
		return nil, err
	}
	return &player, nil
}

// List lấy roster theo filter
func (r *playerRepo) List(ctx context.Context, filter PlayerFilter) ([]models.Player, error) {
	query := r.db.WithContext(ctx).Preload("Tags")

	if !filter.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}
	if filter.Gender != "" {
		query = query.Where("gender = ?", filter.Gender)
	}
	if filter.TagID != 0 {
		query = query.Where("id IN (?)",
			r.db.Model(&models.PlayerTag{}).Select("player_id").Where("tag_id = ?", filter.TagID))
	}

	var players []models.Player
	if err := query.Order("last_name ASC, first_name ASC").Find(&players).Error; err != nil {
		return nil, err
	}
	return players, nil
}

// ListActive player active theo last_name (thứ tự roster trong prompt)
func (r *playerRepo) ListActive(ctx context.Context) ([]models.Player, error) {
	var players []models.Player
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("last_name ASC, first_name ASC, id ASC").
		Find(&players).Error; err != nil {
		return nil, err
	}
	return players, nil
}

// AddTag gán tag, bỏ qua nếu đã gán
func (r *playerRepo) AddTag(ctx context.Context, playerID, tagID int64) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.PlayerTag{PlayerID: playerID, TagID: tagID}).Error
}

// RemoveTag bỏ tag khỏi player
func (r *playerRepo) RemoveTag(ctx context.Context, playerID, tagID int64) error {
	return r.db.WithContext(ctx).
		Where("player_id = ? AND tag_id = ?", playerID, tagID).
		Delete(&models.PlayerTag{}).Error
}

// staffRepo triển khai StaffRepository
type staffRepo struct {
	crudRepo[models.Staff]
}

// NewStaffRepository tạo instance mới của StaffRepository
func NewStaffRepository(db *gorm.DB) StaffRepository {
	return &staffRepo{crudRepo[models.Staff]{db: db}}
}

// Create tạo staff, email lưu lowercase
func (r *staffRepo) Create(ctx context.Context, staff *models.Staff) error {
	staff.Email = NormalizeEmail(staff.Email)
	return r.db.WithContext(ctx).Create(staff).Error
}

// FindByEmail tìm staff theo email
func (r *staffRepo) FindByEmail(ctx context.Context, email string) (*models.Staff, error) {
	var staff models.Staff
	if err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", NormalizeEmail(email)).
		First(&staff).Error; err != nil {
		return nil, err
	}
	return &staff, nil
}

// List lấy danh sách staff
func (r *staffRepo) List(ctx context.Context) ([]models.Staff, error) {
	var staff []models.Staff
	if err := r.db.WithContext(ctx).Order("last_name ASC").Find(&staff).Error; err != nil {
		return nil, err
	}
	return staff, nil
}

// tagRepo triển khai TagRepository
type tagRepo struct {
	crudRepo[models.Tag]
}

// NewTagRepository tạo instance mới của TagRepository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepo{crudRepo[models.Tag]{db: db}}
}

// Delete xóa tag và các liên kết player-tag
func (r *tagRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_id = ?", id).Delete(&models.PlayerTag{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Tag{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// List lấy danh sách tags
func (r *tagRepo) List(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}
