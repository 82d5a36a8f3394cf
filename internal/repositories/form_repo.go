package repositories

import (
	"context"
	"time"

	"teamhub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ===========================================================================
// Form Repository GORM Implementation
// ===========================================================================

// formRepo triển khai FormRepository với GORM
type formRepo struct {
	db *gorm.DB
}

// NewFormRepository tạo instance mới của FormRepository
func NewFormRepository(db *gorm.DB) FormRepository {
	return &formRepo{db: db}
}

func orderedQuestions(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC, id ASC")
}

// FindByID tìm form kèm questions
func (r *formRepo) FindByID(ctx context.Context, id int64) (*models.Form, error) {
	var form models.Form
	if err := r.db.WithContext(ctx).
		Preload("Questions", orderedQuestions).
		First(&form, id).Error; err != nil {
		return nil, err
	}
	return &form, nil
}

// List lấy forms theo due_date tăng dần, form không có hạn xếp cuối
func (r *formRepo) List(ctx context.Context, activeOnly bool) ([]models.Form, error) {
	query := r.db.WithContext(ctx).Preload("Questions", orderedQuestions)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var forms []models.Form
	if err := query.Order("due_date IS NULL, due_date ASC, id ASC").Find(&forms).Error; err != nil {
		return nil, err
	}
	return forms, nil
}

// Create tạo form, gorm tự tạo questions (has-many)
func (r *formRepo) Create(ctx context.Context, form *models.Form) error {
	return r.db.WithContext(ctx).Create(form).Error
}

// Update cập nhật form, giữ nguyên questions
func (r *formRepo) Update(ctx context.Context, form *models.Form) error {
	return r.db.WithContext(ctx).Omit("Questions").Save(form).Error
}

// Delete xóa form, questions và responses
func (r *formRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("form_id = ?", id).Delete(&models.FormResponse{}).Error; err != nil {
			return err
		}
		if err := tx.Where("form_id = ?", id).Delete(&models.FormQuestion{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Form{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// UpsertResponse ghi response, player submit lại thì ghi đè
func (r *formRepo) UpsertResponse(ctx context.Context, response *models.FormResponse) error {
	if response.SubmittedAt.IsZero() {
		response.SubmittedAt = time.Now()
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "form_id"}, {Name: "player_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"responses", "submitted_at"}),
		}).
		Create(response).Error
}

// FindResponse response của player
func (r *formRepo) FindResponse(ctx context.Context, formID, playerID int64) (*models.FormResponse, error) {
	var resp models.FormResponse
	if err := r.db.WithContext(ctx).
		Where("form_id = ? AND player_id = ?", formID, playerID).
		First(&resp).Error; err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListResponses tất cả responses của form
func (r *formRepo) ListResponses(ctx context.Context, formID int64) ([]models.FormResponse, error) {
	var responses []models.FormResponse
	if err := r.db.WithContext(ctx).
		Where("form_id = ?", formID).
		Order("submitted_at ASC").
		Find(&responses).Error; err != nil {
		return nil, err
	}
	return responses, nil
}
