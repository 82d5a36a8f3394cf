package repositories

import (
	"context"
	"time"

	"teamhub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ===========================================================================
// Event Repository GORM Implementation
// ===========================================================================

// eventRepo triển khai EventRepository với GORM
type eventRepo struct {
	crudRepo[models.Event]
}

// NewEventRepository tạo instance mới của EventRepository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepo{crudRepo[models.Event]{db: db}}
}

// FindByID tìm event theo ID, kèm match details
func (r *eventRepo) FindByID(ctx context.Context, id int64) (*models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).Preload("MatchDetails").First(&event, id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// Create tạo event, match details (nếu có) tạo cùng transaction
func (r *eventRepo) Create(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		details := event.MatchDetails
		if err := tx.Omit("MatchDetails").Create(event).Error; err != nil {
			return err
		}
		if details != nil {
			details.EventID = event.ID
			if err := tx.Create(details).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Update cập nhật event (không đụng match details)
func (r *eventRepo) Update(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Omit("MatchDetails").Save(event).Error
}

// Delete xóa event và match details
func (r *eventRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&models.MatchDetails{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Event{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// List lấy events theo filter
func (r *eventRepo) List(ctx context.Context, filter EventFilter) ([]models.Event, error) {
	query := r.db.WithContext(ctx).Preload("MatchDetails")

	if filter.From != nil {
		query = query.Where("event_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("event_date <= ?", *filter.To)
	}
	if filter.EventType != "" {
		query = query.Where("event_type = ?", filter.EventType)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	order := "event_date ASC, start_time ASC, id ASC"
	if filter.Descending {
		order = "event_date DESC, start_time DESC, id DESC"
	}

	var events []models.Event
	if err := query.Order(order).Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// ListOnOrBefore events tới hết ngày day, mới nhất trước
func (r *eventRepo) ListOnOrBefore(ctx context.Context, day time.Time, limit int) ([]models.Event, error) {
	to := day
	return r.List(ctx, EventFilter{To: &to, Limit: limit, Descending: true})
}

// UpsertMatchDetails tạo hoặc cập nhật match details theo event_id
func (r *eventRepo) UpsertMatchDetails(ctx context.Context, details *models.MatchDetails) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"opponent", "home_away", "mens_score", "womens_score", "result"}),
		}).
		Create(details).Error
}
