package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "teamhub/internal/errors"
	"teamhub/internal/metrics"
	"teamhub/internal/models"
	"teamhub/internal/realtime"
	"teamhub/internal/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// noteService triển khai NoteService
type noteService struct {
	noteRepo  repositories.NoteRepository
	publisher realtime.Publisher
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewNoteService tạo instance mới của NoteService
func NewNoteService(
	noteRepo repositories.NoteRepository,
	publisher realtime.Publisher,
	m *metrics.Metrics,
	logger *zap.Logger,
) NoteService {
	return &noteService{
		noteRepo:  noteRepo,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

// validateNote kiểm tra field bắt buộc và enum
func validateNote(note *models.Note) error {
	if strings.TrimSpace(note.Title) == "" {
		return apperrors.New(apperrors.ErrInvalidInput, "Title is required")
	}
	if !note.NoteType.Valid() {
		return apperrors.New(apperrors.ErrInvalidInput, "Invalid note type")
	}
	if !note.Visibility.Valid() {
		return apperrors.New(apperrors.ErrInvalidInput, "Invalid visibility")
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrNotFound
	}
	return err
}

// Create luôn insert row mới (append-only)
func (s *noteService) Create(ctx context.Context, note *models.Note) error {
	note.Normalize()
	if err := validateNote(note); err != nil {
		return err
	}

	if err := s.noteRepo.Create(ctx, note); err != nil {
		s.logger.Error("create note failed",
			zap.String("author_id", note.AuthorID.String()),
			zap.Error(err),
		)
		return fmt.Errorf("create note: %w", err)
	}

	source := "manual"
	if note.FromTranscription() {
		source = "transcription"
	}
	s.metrics.NoteCreated(source)

	s.logger.Info("note created",
		zap.Int64("note_id", note.ID),
		zap.String("source", source),
		zap.Int("player_mentions", len(note.PlayerMentions)),
	)

	if note.Visibility == models.VisibilityTeam && s.publisher != nil {
		event := &realtime.NoteEvent{
			NoteID:            note.ID,
			AuthorID:          note.AuthorID,
			NoteType:          string(note.NoteType),
			Title:             note.Title,
			EventID:           note.EventID,
			CreatedAt:         note.CreatedAt,
			FromTranscription: note.FromTranscription(),
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.publisher.PublishNoteCreated(ctx, event); err != nil {
				s.logger.Warn("failed to publish note created event", zap.Error(err))
			}
		}()
	}

	return nil
}

func (s *noteService) Get(ctx context.Context, id int64, viewer repositories.NoteViewer) (*models.Note, error) {
	note, err := s.noteRepo.FindVisible(ctx, id, viewer)
	if err != nil {
		return nil, notFound(err)
	}
	return note, nil
}

func (s *noteService) List(ctx context.Context, filter repositories.NoteFilter) ([]models.Note, int64, error) {
	return s.noteRepo.List(ctx, filter)
}

// editable tìm note và kiểm tra actor là author hoặc admin
func (s *noteService) editable(ctx context.Context, id int64, actor repositories.NoteViewer) (*models.Note, error) {
	note, err := s.noteRepo.FindVisible(ctx, id, actor)
	if err != nil {
		return nil, notFound(err)
	}
	if note.AuthorID != actor.UserID && !actor.IsAdmin {
		return nil, apperrors.ErrForbidden
	}
	return note, nil
}

func (s *noteService) Update(ctx context.Context, id int64, actor repositories.NoteViewer, input NoteUpdate) (*models.Note, error) {
	note, err := s.editable(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		note.Title = *input.Title
	}
	if input.Content != nil {
		note.Content = *input.Content
	}
	if input.NoteType != nil {
		note.NoteType = *input.NoteType
	}
	if input.Visibility != nil {
		note.Visibility = *input.Visibility
	}
	if input.EventID != nil {
		note.EventID = input.EventID
	}
	if input.ClearEvent {
		note.EventID = nil
	}
	if input.PlayerMentions != nil {
		note.PlayerMentions = models.Int64List(*input.PlayerMentions)
	}
	if input.KeyPoints != nil {
		note.KeyPoints = models.StringList(*input.KeyPoints)
	}

	note.Normalize()
	if err := validateNote(note); err != nil {
		return nil, err
	}

	// Relation đã load có thể lệch với EventID mới
	note.Event = nil
	if err := s.noteRepo.Update(ctx, note); err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	return note, nil
}

func (s *noteService) Delete(ctx context.Context, id int64, actor repositories.NoteViewer) error {
	if _, err := s.editable(ctx, id, actor); err != nil {
		return err
	}
	if err := s.noteRepo.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	s.logger.Info("note deleted",
		zap.Int64("note_id", id),
		zap.String("by", actor.UserID.String()),
	)
	return nil
}

func (s *noteService) ReplaceShares(ctx context.Context, id int64, actor repositories.NoteViewer, playerIDs []int64) error {
	if _, err := s.editable(ctx, id, actor); err != nil {
		return err
	}
	return s.noteRepo.ReplaceShares(ctx, id, playerIDs)
}

func (s *noteService) CountMentioning(ctx context.Context, playerID int64, viewer repositories.NoteViewer) (int64, error) {
	return s.noteRepo.CountMentioning(ctx, playerID, viewer)
}
