package transcribe

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	calls     atomic.Int32
	day       time.Time
	eventsMax int
	notesMax  int
	author    uuid.UUID
	eventsErr error
}

func (f *fakeSource) ActivePlayers(ctx context.Context) ([]PlayerRef, error) {
	f.calls.Add(1)
	return []PlayerRef{{ID: 1, FirstName: "Ana", LastName: "Lee"}}, nil
}

func (f *fakeSource) EventsOnOrBefore(ctx context.Context, day time.Time, limit int) ([]EventRef, error) {
	f.calls.Add(1)
	f.day, f.eventsMax = day, limit
	if f.eventsErr != nil {
		return nil, f.eventsErr
	}
	return nil, nil
}

func (f *fakeSource) NotesByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]NoteRef, error) {
	f.calls.Add(1)
	f.author, f.notesMax = authorID, limit
	return []NoteRef{{ID: 3, Title: "t"}}, nil
}

func TestContextBuilder_Build(t *testing.T) {
	src := &fakeSource{}
	b := NewContextBuilder(src)
	b.now = func() time.Time { return time.Date(2026, 5, 1, 18, 30, 0, 0, time.UTC) }

	author := uuid.New()
	got, err := b.Build(context.Background(), author)
	require.NoError(t, err)

	assert.Equal(t, int32(3), src.calls.Load())
	assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), src.day)
	assert.Equal(t, RecentEventLimit, src.eventsMax)
	assert.Equal(t, RecentNoteLimit, src.notesMax)
	assert.Equal(t, author, src.author)

	assert.Len(t, got.Players, 1)
	assert.NotNil(t, got.RecentEvents)
	assert.Len(t, got.RecentNotes, 1)
}

func TestContextBuilder_AnyFailureAborts(t *testing.T) {
	boom := errors.New("db down")
	b := NewContextBuilder(&fakeSource{eventsErr: boom})

	got, err := b.Build(context.Background(), uuid.New())
	assert.Nil(t, got)
	assert.ErrorIs(t, err, boom)

	var ctxErr *ContextError
	require.True(t, errors.As(err, &ctxErr))
	assert.Equal(t, "events", ctxErr.Snapshot)
}
