package transcribe

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	// RecentEventLimit số event tối đa trong snapshot
	RecentEventLimit = 20
	// RecentNoteLimit số note gần nhất của author
	RecentNoteLimit = 10
)

// PlayerRef một player active, đúng như model nhìn thấy
type PlayerRef struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Gender    string  `json:"gender"`
	ClassYear *string `json:"class_year"`
}

// FullName dạng "First Last", model được yêu cầu trả về đúng dạng này
func (p PlayerRef) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// EventRef một event gần đây
type EventRef struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	EventType string    `json:"event_type"`
	EventDate time.Time `json:"event_date"`
}

// NoteRef một note gần đây của author
type NoteRef struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	NoteType  string    `json:"note_type"`
	KeyPoints []string  `json:"key_points"`
	CreatedAt time.Time `json:"created_at"`
}

// AIContext snapshot gửi kèm một request transcription. Model không có
// nguồn nào khác, reconcile cũng chỉ resolve id trong snapshot này.
type AIContext struct {
	Players      []PlayerRef `json:"players"`
	RecentEvents []EventRef  `json:"recent_events"`
	RecentNotes  []NoteRef   `json:"recent_notes"`
}

// Source đọc ba snapshot, implementation phải an toàn khi gọi song song
type Source interface {
	ActivePlayers(ctx context.Context) ([]PlayerRef, error)
	EventsOnOrBefore(ctx context.Context, day time.Time, limit int) ([]EventRef, error)
	NotesByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]NoteRef, error)
}

// ContextBuilder dựng AIContext từ Source
type ContextBuilder struct {
	source Source
	now    func() time.Time
}

func NewContextBuilder(source Source) *ContextBuilder {
	return &ContextBuilder{source: source, now: time.Now}
}

// Build chạy ba lần đọc song song. Lỗi đầu tiên hủy các lần đọc còn lại
// và được trả về dạng *ContextError.
func (b *ContextBuilder) Build(ctx context.Context, authorID uuid.UUID) (*AIContext, error) {
	today := b.now().UTC()
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	var out AIContext
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		players, err := b.source.ActivePlayers(gctx)
		if err != nil {
			return &ContextError{Snapshot: "players", Err: err}
		}
		out.Players = players
		return nil
	})

	g.Go(func() error {
		events, err := b.source.EventsOnOrBefore(gctx, today, RecentEventLimit)
		if err != nil {
			return &ContextError{Snapshot: "events", Err: err}
		}
		out.RecentEvents = events
		return nil
	})

	g.Go(func() error {
		notes, err := b.source.NotesByAuthor(gctx, authorID, RecentNoteLimit)
		if err != nil {
			return &ContextError{Snapshot: "notes", Err: err}
		}
		out.RecentNotes = notes
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if out.Players == nil {
		out.Players = []PlayerRef{}
	}
	if out.RecentEvents == nil {
		out.RecentEvents = []EventRef{}
	}
	if out.RecentNotes == nil {
		out.RecentNotes = []NoteRef{}
	}

	return &out, nil
}
