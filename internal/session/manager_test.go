package session

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"teamhub/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingLoader struct {
	calls atomic.Int32
	user  *models.User
	err   error
}

func (l *countingLoader) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	l.calls.Add(1)
	if l.err != nil {
		return nil, l.err
	}
	u := *l.user
	return &u, nil
}

func TestNewState_Capabilities(t *testing.T) {
	tests := []struct {
		name string
		user *models.User
		want Capabilities
	}{
		{"admin", &models.User{Role: models.RoleAdmin}, Capabilities{IsAdmin: true, IsCoach: true}},
		{"coach", &models.User{Role: models.RoleCoach}, Capabilities{IsCoach: true}},
		{"player", &models.User{Role: models.RolePlayer, Player: &models.Player{}}, Capabilities{IsPlayer: true}},
		{"captain", &models.User{Role: models.RolePlayer, Player: &models.Player{IsCaptain: true}},
			Capabilities{IsPlayer: true, IsCaptain: true, IsCoach: true}},
		{"pending", &models.User{Role: models.RolePending}, Capabilities{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewState(tt.user).Capabilities)
		})
	}
}

func TestManager_CachesUntilEvent(t *testing.T) {
	loader := &countingLoader{user: &models.User{Role: models.RoleCoach}}
	m := NewManager(loader, time.Minute, zap.NewNop())
	id := uuid.New()
	ctx := context.Background()

	st, err := m.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, st.Capabilities.IsCoach)
	_, _ = m.Get(ctx, id)
	assert.Equal(t, int32(1), loader.calls.Load())

	loader.user = &models.User{Role: models.RoleAdmin}
	m.Handle(ctx, Event{Type: EventProfileUpdated, UserID: id})
	assert.Equal(t, int32(2), loader.calls.Load())

	st, err = m.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, st.Capabilities.IsAdmin)

	m.Handle(ctx, Event{Type: EventSignedOut, UserID: id})
	_, _ = m.Get(ctx, id)
	assert.Equal(t, int32(3), loader.calls.Load())
}

func TestManager_ReloadFailureEvicts(t *testing.T) {
	loader := &countingLoader{user: &models.User{Role: models.RoleCoach}}
	m := NewManager(loader, time.Minute, zap.NewNop())
	id := uuid.New()
	ctx := context.Background()

	_, err := m.Get(ctx, id)
	require.NoError(t, err)

	loader.err = errors.New("gone")
	m.Handle(ctx, Event{Type: EventTokenRefreshed, UserID: id})

	_, err = m.Get(ctx, id)
	assert.Error(t, err)
}

func TestManager_Run(t *testing.T) {
	loader := &countingLoader{user: &models.User{Role: models.RoleCoach}}
	m := NewManager(loader, time.Minute, zap.NewNop())
	id := uuid.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)

	m.Publish(Event{Type: EventSignedIn, UserID: id})
	assert.Eventually(t, func() bool { return loader.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
}
