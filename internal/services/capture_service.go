package services

import (
	"context"
	"errors"
	"fmt"

	"teamhub/internal/capture"
	apperrors "teamhub/internal/errors"
	"teamhub/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ===========================================================================
// Capture Service
// Luồng tạo note: nhập tay hoặc chụp ảnh -> AI parse -> review -> save
// Mỗi user tối đa một parse/save đang chạy, không hủy giữa chừng
// ===========================================================================

// ParseFailedMessage thông báo chung cho mọi lỗi parse
const ParseFailedMessage = "Failed to parse images. Please try again or enter text manually."

// ErrParseFailed wraps every transcription failure (config, upstream,
// no JSON, decode, context). The cause stays in the chain for logging.
var ErrParseFailed = apperrors.New(apperrors.ErrExternal, ParseFailedMessage).WithCode("PARSE_FAILED")

// CaptureInput field của draft (nil = giữ nguyên)
type CaptureInput struct {
	NoteType   *models.NoteType
	Title      *string
	Content    *string
	Visibility *models.Visibility
	EventID    *int64
	ClearEvent bool
}

// KeyPointEdit sửa key point tại Index
type KeyPointEdit struct {
	Index int
	Text  string
}

// ReviewEdit một lần chỉnh sửa ở step review
type ReviewEdit struct {
	Transcript     *string
	AddKeyPoint    *string
	SetKeyPoint    *KeyPointEdit
	RemoveKeyPoint *int
	TogglePlayerID *int64

	// Input field của draft sửa cùng lúc (nil = không đổi)
	Input *CaptureInput
}

//go:generate mockgen -destination=../mocks/mock_services.go -package=mocks teamhub/internal/services Transcriber,NoteCreator

// CaptureService interface cho capture workflow
type CaptureService interface {
	View(ctx context.Context, userID uuid.UUID) *capture.Draft
	UpdateInput(ctx context.Context, userID uuid.UUID, input CaptureInput) (*capture.Draft, error)
	AttachImages(ctx context.Context, userID uuid.UUID, images []string) (*capture.Draft, int, error)
	RemoveImage(ctx context.Context, userID uuid.UUID, index int) (*capture.Draft, error)
	Parse(ctx context.Context, userID uuid.UUID) (*capture.Draft, error)
	EditReview(ctx context.Context, userID uuid.UUID, edit ReviewEdit) (*capture.Draft, error)
	Back(ctx context.Context, userID uuid.UUID) (*capture.Draft, error)
	Save(ctx context.Context, userID uuid.UUID) (*models.Note, error)
	Discard(ctx context.Context, userID uuid.UUID) error
}

type captureService struct {
	store       *capture.Store
	transcriber Transcriber
	notes       NoteCreator
	logger      *zap.Logger
}

// NewCaptureService tạo CaptureService
func NewCaptureService(
	store *capture.Store,
	transcriber Transcriber,
	notes NoteCreator,
	logger *zap.Logger,
) CaptureService {
	return &captureService{
		store:       store,
		transcriber: transcriber,
		notes:       notes,
		logger:      logger,
	}
}

// captureError map lỗi của capture package sang apperrors
func captureError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, capture.ErrBusy):
		return apperrors.New(apperrors.ErrBusy, "Another parse or save is already in progress")
	case errors.Is(err, capture.ErrNoImages),
		errors.Is(err, capture.ErrWrongStep),
		errors.Is(err, capture.ErrTitleRequired),
		errors.Is(err, capture.ErrImageIndex),
		errors.Is(err, capture.ErrKeyPointIndex),
		errors.Is(err, capture.ErrUnknownPlayer):
		return apperrors.New(fmt.Errorf("%w: %w", apperrors.ErrInvalidInput, err), err.Error())
	default:
		return err
	}
}

func (s *captureService) View(ctx context.Context, userID uuid.UUID) *capture.Draft {
	return s.store.View(userID)
}

// validate kiểm tra enum trước khi đụng vào draft
func (in CaptureInput) validate() error {
	if in.NoteType != nil && !in.NoteType.Valid() {
		return apperrors.New(apperrors.ErrInvalidInput, "Invalid note type")
	}
	if in.Visibility != nil && !in.Visibility.Valid() {
		return apperrors.New(apperrors.ErrInvalidInput, "Invalid visibility")
	}
	return nil
}

func (in CaptureInput) apply(d *capture.Draft) {
	if in.NoteType != nil {
		d.NoteType = *in.NoteType
	}
	if in.Title != nil {
		d.Title = *in.Title
	}
	if in.Content != nil {
		d.Content = *in.Content
	}
	if in.Visibility != nil {
		d.Visibility = *in.Visibility
	}
	if in.EventID != nil {
		id := *in.EventID
		d.EventID = &id
	}
	if in.ClearEvent {
		d.EventID = nil
	}
}

func (s *captureService) UpdateInput(ctx context.Context, userID uuid.UUID, input CaptureInput) (*capture.Draft, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	d, err := s.store.Update(userID, func(d *capture.Draft) error {
		input.apply(d)
		return nil
	})
	return d, captureError(err)
}

func (s *captureService) AttachImages(ctx context.Context, userID uuid.UUID, images []string) (*capture.Draft, int, error) {
	var added int
	d, err := s.store.Update(userID, func(d *capture.Draft) error {
		var err error
		added, err = d.AttachImages(images)
		return err
	})
	return d, added, captureError(err)
}

func (s *captureService) RemoveImage(ctx context.Context, userID uuid.UUID, index int) (*capture.Draft, error) {
	d, err := s.store.Update(userID, func(d *capture.Draft) error {
		return d.RemoveImage(index)
	})
	return d, captureError(err)
}

// Parse input -> review. Lỗi ở bất kỳ bước nào giữ nguyên draft ở input.
func (s *captureService) Parse(ctx context.Context, userID uuid.UUID) (*capture.Draft, error) {
	draft, err := s.store.Begin(userID)
	if err != nil {
		return nil, captureError(err)
	}

	if err := draft.CanParse(); err != nil {
		s.store.Finish(userID, nil)
		return nil, captureError(err)
	}

	aiCtx, err := s.transcriber.BuildContext(ctx, userID)
	if err != nil {
		s.store.Finish(userID, nil)
		return nil, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}

	out, err := s.transcriber.Parse(ctx, draft.Images, aiCtx)
	if err != nil {
		s.store.Finish(userID, nil)
		return nil, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}

	if err := draft.EnterReview(out.Result, out.Selected, aiCtx.Players); err != nil {
		s.store.Finish(userID, nil)
		return nil, captureError(err)
	}

	s.store.Finish(userID, draft)
	return draft, nil
}

// EditReview áp dụng toàn bộ edit trong một lần Update: lỗi ở bất kỳ
// bước nào thì draft giữ nguyên.
func (s *captureService) EditReview(ctx context.Context, userID uuid.UUID, edit ReviewEdit) (*capture.Draft, error) {
	if edit.Input != nil {
		if err := edit.Input.validate(); err != nil {
			return nil, err
		}
	}

	d, err := s.store.Update(userID, func(d *capture.Draft) error {
		if _, ok := d.Review(); !ok {
			return capture.ErrWrongStep
		}
		if edit.Transcript != nil {
			if err := d.SetTranscript(*edit.Transcript); err != nil {
				return err
			}
		}
		if edit.SetKeyPoint != nil {
			if err := d.SetKeyPoint(edit.SetKeyPoint.Index, edit.SetKeyPoint.Text); err != nil {
				return err
			}
		}
		if edit.RemoveKeyPoint != nil {
			if err := d.RemoveKeyPoint(*edit.RemoveKeyPoint); err != nil {
				return err
			}
		}
		if edit.AddKeyPoint != nil {
			if err := d.AddKeyPoint(*edit.AddKeyPoint); err != nil {
				return err
			}
		}
		if edit.TogglePlayerID != nil {
			if err := d.TogglePlayer(*edit.TogglePlayerID); err != nil {
				return err
			}
		}
		if edit.Input != nil {
			edit.Input.apply(d)
		}
		return nil
	})
	return d, captureError(err)
}

func (s *captureService) Back(ctx context.Context, userID uuid.UUID) (*capture.Draft, error) {
	d, err := s.store.Update(userID, func(d *capture.Draft) error {
		return d.Back()
	})
	return d, captureError(err)
}

// Save lưu note từ step hiện tại. Thành công thì xóa draft,
// thất bại thì giữ nguyên để user thử lại.
func (s *captureService) Save(ctx context.Context, userID uuid.UUID) (*models.Note, error) {
	draft, err := s.store.Begin(userID)
	if err != nil {
		return nil, captureError(err)
	}

	note, err := draft.Finalize(userID)
	if err != nil {
		s.store.Finish(userID, nil)
		return nil, captureError(err)
	}

	if err := s.notes.Create(ctx, note); err != nil {
		s.store.Finish(userID, nil)
		s.logger.Warn("save captured note failed, draft kept",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	s.store.FinishAndDiscard(userID)
	return note, nil
}

func (s *captureService) Discard(ctx context.Context, userID uuid.UUID) error {
	return captureError(s.store.Discard(userID))
}
