package session

import (
	"context"
	"time"

	"teamhub/internal/models"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// ===========================================================================
// Session Manager
// State được load một lần cho mỗi user rồi cache.
// Auth events (đăng nhập, đăng xuất, refresh, đổi profile) làm mới cache.
// ===========================================================================

// EventType loại auth event
type EventType string

const (
	EventSignedIn       EventType = "signed_in"
	EventSignedOut      EventType = "signed_out"
	EventTokenRefreshed EventType = "token_refreshed"
	EventProfileUpdated EventType = "profile_updated"
)

// Event auth-change event
type Event struct {
	Type   EventType
	UserID uuid.UUID
}

// UserLoader đọc user kèm Player/Staff
type UserLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Manager cache session state và xử lý auth events
type Manager struct {
	cache  *cache.Cache
	loader UserLoader
	events chan Event
	logger *zap.Logger
}

// NewManager tạo manager với TTL cho state
func NewManager(loader UserLoader, ttl time.Duration, logger *zap.Logger) *Manager {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Manager{
		cache:  cache.New(ttl, 2*ttl),
		loader: loader,
		events: make(chan Event, 64),
		logger: logger,
	}
}

// Get state từ cache, load nếu chưa có
func (m *Manager) Get(ctx context.Context, userID uuid.UUID) (*State, error) {
	if v, ok := m.cache.Get(userID.String()); ok {
		return v.(*State), nil
	}
	return m.load(ctx, userID)
}

func (m *Manager) load(ctx context.Context, userID uuid.UUID) (*State, error) {
	user, err := m.loader.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	st := NewState(user)
	m.cache.SetDefault(userID.String(), st)
	return st, nil
}

// Handle áp dụng một event lên cache
func (m *Manager) Handle(ctx context.Context, ev Event) {
	switch ev.Type {
	case EventSignedOut:
		m.cache.Delete(ev.UserID.String())
	case EventSignedIn, EventTokenRefreshed, EventProfileUpdated:
		if _, err := m.load(ctx, ev.UserID); err != nil {
			m.logger.Warn("Failed to reload session state",
				zap.String("user_id", ev.UserID.String()),
				zap.String("event", string(ev.Type)),
				zap.Error(err),
			)
			m.cache.Delete(ev.UserID.String())
		}
	default:
		m.logger.Debug("Ignoring unknown session event", zap.String("event", string(ev.Type)))
	}
}

// Publish đẩy event vào stream. Khi stream đầy thì xóa cache ngay,
// lần Get sau sẽ load lại.
func (m *Manager) Publish(ev Event) {
	select {
	case m.events <- ev:
	default:
		m.cache.Delete(ev.UserID.String())
	}
}

// Run xử lý events tới khi ctx bị hủy
func (m *Manager) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-m.events:
			m.Handle(ctx, ev)
		}
	}
}
