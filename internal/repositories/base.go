package repositories

import (
	"context"

	"gorm.io/gorm"
)

// ===========================================================================
// Repository Base Interfaces và Types
// Các interface và struct dùng chung cho tất cả repositories
// ===========================================================================

// FindOptions tùy chọn query cho các method List
type FindOptions struct {
	// Offset vị trí bắt đầu (cho phân trang)
	Offset int

	// Limit số lượng records tối đa
	Limit int

	// OrderBy cột để sắp xếp (chỉ nhận giá trị cố định từ code, không từ user)
	OrderBy string

	// OrderDir hướng sắp xếp: "asc" hoặc "desc"
	OrderDir string
}

// SetDefaults thiết lập giá trị mặc định cho FindOptions
func (o *FindOptions) SetDefaults() {
	if o.Limit == 0 {
		o.Limit = 20
	}
	if o.OrderBy == "" {
		o.OrderBy = "created_at"
	}
	if o.OrderDir != "asc" {
		o.OrderDir = "desc"
	}
}

// GetOrderClause trả về chuỗi ORDER BY
func (o *FindOptions) GetOrderClause() string {
	return o.OrderBy + " " + o.OrderDir
}

// Paginate áp dụng limit/offset vào query
func (o *FindOptions) Paginate(q *gorm.DB) *gorm.DB {
	if o.Limit > 0 {
		q = q.Limit(o.Limit)
	}
	if o.Offset > 0 {
		q = q.Offset(o.Offset)
	}
	return q
}

// ===========================================================================
// Generic Repository Interface
// Interface cơ bản với các method CRUD chung
// ===========================================================================

// Repository interface cơ bản cho tất cả repositories
type Repository[T any, ID comparable] interface {
	// FindByID tìm record theo ID
	FindByID(ctx context.Context, id ID) (*T, error)

	// Create tạo record mới
	Create(ctx context.Context, entity *T) error

	// Update cập nhật record
	Update(ctx context.Context, entity *T) error

	// Delete xóa record
	Delete(ctx context.Context, id ID) error
}

// crudRepo implementation dùng chung cho các entity có ID số
type crudRepo[T any] struct {
	db *gorm.DB
}

func (r *crudRepo[T]) FindByID(ctx context.Context, id int64) (*T, error) {
	var entity T
	if err := r.db.WithContext(ctx).First(&entity, id).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *crudRepo[T]) Create(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Create(entity).Error
}

func (r *crudRepo[T]) Update(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Save(entity).Error
}

func (r *crudRepo[T]) Delete(ctx context.Context, id int64) error {
	var entity T
	result := r.db.WithContext(ctx).Delete(&entity, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func isPostgres(db *gorm.DB) bool {
	return db.Dialector.Name() == "postgres"
}
