package services

import (
	"context"
	"errors"
	"time"

	"teamhub/internal/metrics"
	"teamhub/internal/models"
	"teamhub/internal/repositories"
	"teamhub/internal/transcribe"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ===========================================================================
// Transcription Service
// Context snapshot + model call + reconciliation cho capture workflow
// ===========================================================================

// Transcriber builds the context snapshot and parses note images against it
type Transcriber interface {
	// BuildContext đọc song song roster, events và notes gần đây của author
	BuildContext(ctx context.Context, authorID uuid.UUID) (*transcribe.AIContext, error)

	// Parse gửi ảnh cho model và đối chiếu kết quả với snapshot
	Parse(ctx context.Context, images []string, aiCtx *transcribe.AIContext) (*transcribe.ParseOutput, error)
}

// modelClient is satisfied by *transcribe.Client
type modelClient interface {
	Parse(ctx context.Context, images []string, aiCtx *transcribe.AIContext) (*transcribe.ParseOutput, error)
}

type transcriptionService struct {
	builder *transcribe.ContextBuilder
	client  modelClient
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewTranscriptionService creates a Transcriber
func NewTranscriptionService(
	source transcribe.Source,
	client modelClient,
	m *metrics.Metrics,
	logger *zap.Logger,
) Transcriber {
	return &transcriptionService{
		builder: transcribe.NewContextBuilder(source),
		client:  client,
		metrics: m,
		logger:  logger,
	}
}

func (s *transcriptionService) BuildContext(ctx context.Context, authorID uuid.UUID) (*transcribe.AIContext, error) {
	start := time.Now()
	aiCtx, err := s.builder.Build(ctx, authorID)
	if err != nil {
		s.metrics.ObserveTranscription(TranscriptionOutcome(err), time.Since(start))
		s.logger.Error("build transcription context failed",
			zap.String("author_id", authorID.String()),
			zap.Error(err),
		)
		return nil, err
	}
	return aiCtx, nil
}

func (s *transcriptionService) Parse(ctx context.Context, images []string, aiCtx *transcribe.AIContext) (*transcribe.ParseOutput, error) {
	start := time.Now()
	out, err := s.client.Parse(ctx, images, aiCtx)
	elapsed := time.Since(start)
	s.metrics.ObserveTranscription(TranscriptionOutcome(err), elapsed)

	if err != nil {
		s.logger.Warn("transcription failed",
			zap.Int("images", len(images)),
			zap.String("outcome", TranscriptionOutcome(err)),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("transcription completed",
		zap.Int("images", len(images)),
		zap.Int("players_matched", len(out.Selected)),
		zap.Int("key_points", len(out.Result.KeyPoints)),
		zap.Duration("elapsed", elapsed),
	)
	return out, nil
}

// TranscriptionOutcome label cho metrics và log
func TranscriptionOutcome(err error) string {
	var (
		upstream *transcribe.UpstreamError
		decode   *transcribe.DecodeError
		ctxErr   *transcribe.ContextError
	)
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, transcribe.ErrNotConfigured):
		return "not_configured"
	case errors.Is(err, transcribe.ErrNoJSON):
		return "no_json"
	case errors.As(err, &upstream):
		return "upstream_error"
	case errors.As(err, &decode):
		return "decode_error"
	case errors.As(err, &ctxErr):
		return "context_error"
	default:
		return "error"
	}
}

// ===========================================================================
// Repository-backed context source
// ===========================================================================

type repoContextSource struct {
	players repositories.PlayerRepository
	events  repositories.EventRepository
	notes   repositories.NoteRepository
}

// NewContextSource adapts the repositories to transcribe.Source
func NewContextSource(
	players repositories.PlayerRepository,
	events repositories.EventRepository,
	notes repositories.NoteRepository,
) transcribe.Source {
	return &repoContextSource{players: players, events: events, notes: notes}
}

func (s *repoContextSource) ActivePlayers(ctx context.Context) ([]transcribe.PlayerRef, error) {
	players, err := s.players.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]transcribe.PlayerRef, 0, len(players))
	for _, p := range players {
		ref := transcribe.PlayerRef{
			ID:        p.ID,
			FirstName: p.FirstName,
			LastName:  p.LastName,
			Gender:    string(p.Gender),
		}
		if p.ClassYear != nil {
			cy := string(*p.ClassYear)
			ref.ClassYear = &cy
		}
		out = append(out, ref)
	}
	return out, nil
}

func (s *repoContextSource) EventsOnOrBefore(ctx context.Context, day time.Time, limit int) ([]transcribe.EventRef, error) {
	events, err := s.events.ListOnOrBefore(ctx, day, limit)
	if err != nil {
		return nil, err
	}
	out := make([]transcribe.EventRef, 0, len(events))
	for _, e := range events {
		out = append(out, transcribe.EventRef{
			ID:        e.ID,
			Title:     e.Title,
			EventType: string(e.EventType),
			EventDate: e.EventDate,
		})
	}
	return out, nil
}

func (s *repoContextSource) NotesByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]transcribe.NoteRef, error) {
	notes, err := s.notes.ListByAuthor(ctx, authorID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]transcribe.NoteRef, 0, len(notes))
	for _, n := range notes {
		out = append(out, noteRef(n))
	}
	return out, nil
}

func noteRef(n models.Note) transcribe.NoteRef {
	keyPoints := []string(n.KeyPoints)
	if keyPoints == nil {
		keyPoints = []string{}
	}
	return transcribe.NoteRef{
		ID:        n.ID,
		Title:     n.Title,
		NoteType:  string(n.NoteType),
		KeyPoints: keyPoints,
		CreatedAt: n.CreatedAt,
	}
}
