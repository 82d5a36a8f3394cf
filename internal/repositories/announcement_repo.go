package repositories

import (
	"context"
	"time"

	"teamhub/internal/models"

	"gorm.io/gorm"
)

// ===========================================================================
// Announcement Repository GORM Implementation
// ===========================================================================

// priorityOrder urgent > high > normal > low (không sort theo chữ cái)
const priorityOrder = "CASE priority WHEN 'urgent' THEN 3 WHEN 'high' THEN 2 WHEN 'normal' THEN 1 ELSE 0 END DESC, publish_at DESC, id DESC"

// announcementRepo triển khai AnnouncementRepository với GORM
type announcementRepo struct {
	crudRepo[models.Announcement]
}

// NewAnnouncementRepository tạo instance mới của AnnouncementRepository
func NewAnnouncementRepository(db *gorm.DB) AnnouncementRepository {
	return &announcementRepo{crudRepo[models.Announcement]{db: db}}
}

// ListActive announcements đã publish và chưa hết hạn
func (r *announcementRepo) ListActive(ctx context.Context, now time.Time) ([]models.Announcement, error) {
	var items []models.Announcement
	if err := r.db.WithContext(ctx).
		Where("publish_at <= ?", now).
		Where("(expires_at IS NULL OR expires_at > ?)", now).
		Order(priorityOrder).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ListAll tất cả announcements
func (r *announcementRepo) ListAll(ctx context.Context) ([]models.Announcement, error) {
	var items []models.Announcement
	if err := r.db.WithContext(ctx).Order(priorityOrder).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
