package capture

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// ErrBusy parse hoặc save khác của cùng user đang chạy
var ErrBusy = errors.New("another capture operation is in progress")

// Store giữ một draft cho mỗi user, hết hạn sau TTL không hoạt động.
// Mỗi user chỉ có tối đa một parse/save đang chạy (busy flag).
type Store struct {
	mu        sync.Mutex
	cache     *cache.Cache
	busy      map[uuid.UUID]struct{}
	maxImages int
}

// NewStore tạo store với TTL cho draft; maxImages <= 0 dùng giới hạn mặc định
func NewStore(ttl time.Duration, maxImages int) *Store {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Store{
		cache:     cache.New(ttl, 2*ttl),
		busy:      make(map[uuid.UUID]struct{}),
		maxImages: maxImages,
	}
}

func (s *Store) load(userID uuid.UUID) *Draft {
	if v, ok := s.cache.Get(userID.String()); ok {
		return v.(*Draft)
	}
	d := NewDraft()
	if s.maxImages > 0 {
		d.maxImages = s.maxImages
	}
	s.cache.SetDefault(userID.String(), d)
	return d
}

// View draft hiện tại (tạo mới ở input nếu chưa có)
func (s *Store) View(userID uuid.UUID) *Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(userID).Clone()
}

// Busy user có operation đang chạy không
func (s *Store) Busy(userID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.busy[userID]
	return ok
}

// Update áp dụng fn lên bản sao của draft; chỉ ghi lại khi fn thành công
func (s *Store) Update(userID uuid.UUID, fn func(*Draft) error) (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.busy[userID]; ok {
		return nil, ErrBusy
	}

	d := s.load(userID).Clone()
	if err := fn(d); err != nil {
		return nil, err
	}
	s.cache.SetDefault(userID.String(), d)
	return d.Clone(), nil
}

// Begin đánh dấu busy và trả về bản sao draft để xử lý ngoài lock.
// Caller phải gọi Finish hoặc FinishAndDiscard.
func (s *Store) Begin(userID uuid.UUID) (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.busy[userID]; ok {
		return nil, ErrBusy
	}
	s.busy[userID] = struct{}{}
	return s.load(userID).Clone(), nil
}

// Finish bỏ busy; d khác nil thì thay draft
func (s *Store) Finish(userID uuid.UUID, d *Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.busy, userID)
	if d != nil {
		s.cache.SetDefault(userID.String(), d.Clone())
	}
}

// FinishAndDiscard bỏ busy và xóa draft (sau khi save thành công)
func (s *Store) FinishAndDiscard(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.busy, userID)
	s.cache.Delete(userID.String())
}

// Discard xóa draft
func (s *Store) Discard(userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.busy[userID]; ok {
		return ErrBusy
	}
	s.cache.Delete(userID.String())
	return nil
}
