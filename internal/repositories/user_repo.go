package repositories

import (
	"context"
	"errors"
	"strings"

	apperrors "teamhub/internal/errors"
	"teamhub/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ===========================================================================
// User Repository Implementation
// Database operations for User model
// (interface defined in interfaces.go)
// ===========================================================================

// userRepo implementation
type userRepo struct {
	db *gorm.DB
}

// NewUserRepository tạo user repository mới
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

// NormalizeEmail trim + lowercase, email luôn được so sánh ở dạng này
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FindByID tìm user theo ID
func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Preload("Player").
		Preload("Staff").
		First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail tìm user active theo email (cho login, magic link)
func (r *userRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Preload("Player").
		Preload("Staff").
		Where("email = ? AND is_active = ?", NormalizeEmail(email), true).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List lấy danh sách users
func (r *userRepo) List(ctx context.Context, opts FindOptions) ([]models.User, int64, error) {
	opts.SetDefaults()

	var users []models.User
	var total int64

	query := r.db.WithContext(ctx).Model(&models.User{})
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := opts.Paginate(query).Order(opts.GetOrderClause()).Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// Create tạo user mới
func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	user.Email = NormalizeEmail(user.Email)
	return r.db.WithContext(ctx).Create(user).Error
}

// Update cập nhật user
func (r *userRepo) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Omit("Player", "Staff").Save(user).Error
}

// RegisterFromRoster tạo account cho email có trên roster.
// Player -> role player, head coach -> admin, staff khác -> coach.
func (r *userRepo) RegisterFromRoster(ctx context.Context, user *models.User) error {
	user.Email = NormalizeEmail(user.Email)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Unscoped().Model(&models.User{}).
			Where("email = ?", user.Email).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return apperrors.ErrDuplicateEntry
		}

		var player models.Player
		err := tx.Where("LOWER(email) = ?", user.Email).First(&player).Error
		switch {
		case err == nil:
			user.PlayerID = &player.ID
			user.Role = models.RolePlayer
		case errors.Is(err, gorm.ErrRecordNotFound):
			var staff models.Staff
			err = tx.Where("LOWER(email) = ?", user.Email).First(&staff).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotWhitelisted
			}
			if err != nil {
				return err
			}
			user.StaffID = &staff.ID
			user.Role = models.RoleCoach
			if staff.Role == models.StaffHeadCoach {
				user.Role = models.RoleAdmin
			}
		default:
			return err
		}

		user.IsActive = true
		return tx.Create(user).Error
	})
}
