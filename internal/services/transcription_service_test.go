package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"teamhub/internal/metrics"
	"teamhub/internal/models"
	"teamhub/internal/repositories"
	"teamhub/internal/transcribe"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubModel struct {
	out *transcribe.ParseOutput
	err error
}

func (s *stubModel) Parse(ctx context.Context, images []string, aiCtx *transcribe.AIContext) (*transcribe.ParseOutput, error) {
	return s.out, s.err
}

func TestTranscriptionOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "success"},
		{transcribe.ErrNotConfigured, "not_configured"},
		{transcribe.ErrNoJSON, "no_json"},
		{&transcribe.UpstreamError{StatusCode: 500}, "upstream_error"},
		{&transcribe.DecodeError{Err: errors.New("x")}, "decode_error"},
		{&transcribe.ContextError{Snapshot: "notes", Err: errors.New("x")}, "context_error"},
		{context.DeadlineExceeded, "error"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TranscriptionOutcome(tt.err))
	}
}

func TestContextSource_FromRepositories(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	players := repositories.NewPlayerRepository(db)
	events := repositories.NewEventRepository(db)
	notes := repositories.NewNoteRepository(db)

	jr := models.ClassJunior
	require.NoError(t, players.Create(ctx, &models.Player{FirstName: "Zed", LastName: "Young", Email: "z@t.edu", Gender: models.GenderMale, IsActive: true}))
	require.NoError(t, players.Create(ctx, &models.Player{FirstName: "Ana", LastName: "Lee", Email: "a@t.edu", Gender: models.GenderFemale, ClassYear: &jr, IsActive: true}))
	require.NoError(t, players.Create(ctx, &models.Player{FirstName: "Old", LastName: "Alum", Email: "o@t.edu", Gender: models.GenderMale}))

	today := models.DateOf(time.Now())
	require.NoError(t, events.Create(ctx, &models.Event{Title: "Past", EventType: models.EventPractice, EventDate: today.AddDate(0, 0, -3)}))
	require.NoError(t, events.Create(ctx, &models.Event{Title: "Future", EventType: models.EventPractice, EventDate: today.AddDate(0, 0, 3)}))

	author := uuid.New()
	require.NoError(t, notes.Create(ctx, &models.Note{AuthorID: author, Title: "Mine", KeyPoints: models.StringList{"a"}}))
	require.NoError(t, notes.Create(ctx, &models.Note{AuthorID: uuid.New(), Title: "Theirs"}))

	m, err := metrics.New(prometheus.NewRegistry())
	require.NoError(t, err)
	svc := NewTranscriptionService(NewContextSource(players, events, notes), &stubModel{}, m, zap.NewNop())

	aiCtx, err := svc.BuildContext(ctx, author)
	require.NoError(t, err)

	require.Len(t, aiCtx.Players, 2)
	assert.Equal(t, "Lee", aiCtx.Players[0].LastName)
	require.NotNil(t, aiCtx.Players[0].ClassYear)
	assert.Equal(t, "Jr", *aiCtx.Players[0].ClassYear)

	require.Len(t, aiCtx.RecentEvents, 1)
	assert.Equal(t, "Past", aiCtx.RecentEvents[0].Title)

	require.Len(t, aiCtx.RecentNotes, 1)
	assert.Equal(t, []string{"a"}, aiCtx.RecentNotes[0].KeyPoints)
}

func TestTranscriptionService_RecordsOutcome(t *testing.T) {
	m, err := metrics.New(prometheus.NewRegistry())
	require.NoError(t, err)

	svc := NewTranscriptionService(nil, &stubModel{err: transcribe.ErrNoJSON}, m, zap.NewNop())
	_, err = svc.Parse(context.Background(), []string{"img"}, &transcribe.AIContext{})
	assert.ErrorIs(t, err, transcribe.ErrNoJSON)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TranscriptionsTotal.WithLabelValues("no_json")))
}
