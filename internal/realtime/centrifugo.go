package realtime

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ===========================================================================
// Centrifugo Client
// Publish realtime events to Centrifugo server
// ===========================================================================

const (
	// ChannelNotes nhận note_created của các note visibility team
	ChannelNotes = "team:notes"

	// ChannelAnnouncements nhận announcement_published
	ChannelAnnouncements = "team:announcements"
)

// Publisher interface for realtime events
type Publisher interface {
	// PublishNoteCreated publishes note created event
	PublishNoteCreated(ctx context.Context, event *NoteEvent) error

	// PublishAnnouncement publishes announcement event
	PublishAnnouncement(ctx context.Context, event *AnnouncementEvent) error
}

// NoteEvent event khi có note mới
type NoteEvent struct {
	Type      string    `json:"type"`
	NoteID    int64     `json:"note_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	NoteType  string    `json:"note_type"`
	Title     string    `json:"title"`
	EventID   *int64    `json:"event_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	// FromTranscription note được tạo từ ảnh viết tay
	FromTranscription bool `json:"from_transcription"`
}

// AnnouncementEvent event khi announcement được tạo
type AnnouncementEvent struct {
	Type           string    `json:"type"`
	AnnouncementID int64     `json:"announcement_id"`
	Title          string    `json:"title"`
	Priority       string    `json:"priority"`
	ForMens        bool      `json:"for_mens"`
	ForWomens      bool      `json:"for_womens"`
	PublishAt      time.Time `json:"publish_at"`
}

// CentrifugoClient implements Publisher
type CentrifugoClient struct {
	url    string
	apiKey string
	client *http.Client
	log    *zap.Logger
}

// NewCentrifugoClient creates a new Centrifugo client
func NewCentrifugoClient(url, apiKey string, log *zap.Logger) *CentrifugoClient {
	return &CentrifugoClient{
		url:    url,
		apiKey: apiKey,
		client: &http.Client{Timeout: 5 * time.Second},
		log:    log,
	}
}

// publishRequest sends a request to Centrifugo API
type publishRequest struct {
	Method string      `json:"method"`
	Params interface{} `json:"params"`
}

type publishParams struct {
	Channel string      `json:"channel"`
	Data    interface{} `json:"data"`
}

func (c *CentrifugoClient) publish(ctx context.Context, channel string, data interface{}) error {
	body, err := json.Marshal(publishRequest{
		Method: "publish",
		Params: publishParams{Channel: channel, Data: data},
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/api", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "apikey "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.log.Warn("centrifugo publish failed", zap.Error(err))
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("centrifugo publish bad status",
			zap.Int("status", resp.StatusCode),
			zap.String("channel", channel),
		)
		return fmt.Errorf("bad status: %d", resp.StatusCode)
	}

	c.log.Debug("published to centrifugo", zap.String("channel", channel))
	return nil
}

// PublishNoteCreated publishes note_created to the team notes channel
func (c *CentrifugoClient) PublishNoteCreated(ctx context.Context, event *NoteEvent) error {
	event.Type = "note_created"
	return c.publish(ctx, ChannelNotes, event)
}

// PublishAnnouncement publishes announcement_published
func (c *CentrifugoClient) PublishAnnouncement(ctx context.Context, event *AnnouncementEvent) error {
	event.Type = "announcement_published"
	return c.publish(ctx, ChannelAnnouncements, event)
}

// ===========================================================================
// Noop Publisher (for when Centrifugo is not configured)
// ===========================================================================

// NoopPublisher does nothing (used when realtime is disabled)
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

func (n *NoopPublisher) PublishNoteCreated(ctx context.Context, event *NoteEvent) error {
	return nil
}

func (n *NoopPublisher) PublishAnnouncement(ctx context.Context, event *AnnouncementEvent) error {
	return nil
}
