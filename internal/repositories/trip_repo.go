package repositories

import (
	"context"
	"time"

	"teamhub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ===========================================================================
// Trip Repository GORM Implementation
// ===========================================================================

// tripRepo triển khai TripRepository với GORM
type tripRepo struct {
	db *gorm.DB
}

// NewTripRepository tạo instance mới của TripRepository
func NewTripRepository(db *gorm.DB) TripRepository {
	return &tripRepo{db: db}
}

// FindByID tìm trip kèm roster
func (r *tripRepo) FindByID(ctx context.Context, id int64) (*models.Trip, error) {
	var trip models.Trip
	if err := r.db.WithContext(ctx).
		Preload("Roster.Player").
		First(&trip, id).Error; err != nil {
		return nil, err
	}
	return &trip, nil
}

// List lấy trips, upcomingFrom != nil thì bỏ trip đã kết thúc
func (r *tripRepo) List(ctx context.Context, upcomingFrom *time.Time) ([]models.Trip, error) {
	query := r.db.WithContext(ctx).Preload("Roster.Player")
	if upcomingFrom != nil {
		query = query.Where("return_date >= ?", *upcomingFrom)
	}

	var trips []models.Trip
	if err := query.Order("departure_date ASC, id ASC").Find(&trips).Error; err != nil {
		return nil, err
	}
	return trips, nil
}

// Create tạo trip
func (r *tripRepo) Create(ctx context.Context, trip *models.Trip) error {
	return r.db.WithContext(ctx).Omit("Roster").Create(trip).Error
}

// Update cập nhật trip
func (r *tripRepo) Update(ctx context.Context, trip *models.Trip) error {
	return r.db.WithContext(ctx).Omit("Roster").Save(trip).Error
}

// Delete xóa trip và roster
func (r *tripRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("trip_id = ?", id).Delete(&models.TripRoster{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Trip{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// SetRosterStatus thêm player hoặc cập nhật status
func (r *tripRepo) SetRosterStatus(ctx context.Context, tripID, playerID int64, status models.TripStatus) error {
	return r.db.WithContext(ctx).
		Omit("Player").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "trip_id"}, {Name: "player_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status"}),
		}).
		Create(&models.TripRoster{TripID: tripID, PlayerID: playerID, Status: status}).Error
}

// RemoveFromRoster bỏ player khỏi trip
func (r *tripRepo) RemoveFromRoster(ctx context.Context, tripID, playerID int64) error {
	result := r.db.WithContext(ctx).
		Where("trip_id = ? AND player_id = ?", tripID, playerID).
		Delete(&models.TripRoster{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
