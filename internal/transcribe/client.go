package transcribe

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"teamhub/internal/models"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// MaxImages số ảnh tối đa cho một request transcription
const MaxImages = 5

// Config cho endpoint chat completion (OpenAI-compatible)
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	// Referer, Title gửi qua header HTTP-Referer / X-Title của OpenRouter (optional)
	Referer string
	Title   string
	Timeout time.Duration
	// HTTPClient thay transport (dùng trong test)
	HTTPClient *http.Client
}

// Client gửi đúng một chat completion multimodal mỗi lần Parse, không retry
type Client struct {
	api    *openai.Client
	cfg    Config
	logger *zap.Logger
}

// NewClient tạo client. Thiếu API key không lỗi ở đây, Parse sẽ báo lỗi
// ở mỗi lần gọi.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	base := httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	wrapped := *httpClient
	wrapped.Transport = &apiTransport{base: base, referer: cfg.Referer, title: cfg.Title}
	oc.HTTPClient = &wrapped

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		api:    openai.NewClientWithConfig(oc),
		cfg:    cfg,
		logger: logger,
	}
}

// Configured có API key hay không
func (c *Client) Configured() bool {
	return c.cfg.APIKey != ""
}

// Parse transcribe 1-5 ảnh theo snapshot aiCtx và trả về kết quả đã chuẩn hóa.
// Id event/note chỉ được resolve trong aiCtx.
func (c *Client) Parse(ctx context.Context, images []string, aiCtx *AIContext) (*ParseOutput, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	if len(images) == 0 || len(images) > MaxImages {
		return nil, ErrImageCount
	}
	if aiCtx == nil {
		aiCtx = &AIContext{}
	}

	parts := make([]openai.ChatMessagePart, 0, len(images)+1)
	parts = append(parts, openai.ChatMessagePart{
		Type: openai.ChatMessagePartTypeText,
		Text: userInstruction,
	})
	for _, img := range images {
		parts = append(parts, openai.ChatMessagePart{
			Type:     openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{URL: NormalizeImageURL(img)},
		})
	}

	req := openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: BuildSystemPrompt(aiCtx)},
			{Role: openai.ChatMessageRoleUser, MultiContent: parts},
		},
	}

	rec := &bodyRecorder{}
	resp, err := c.api.CreateChatCompletion(context.WithValue(ctx, bodyRecorderKey{}, rec), req)
	if err != nil {
		return nil, upstreamError(err, rec.body)
	}

	var content string
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}

	out, err := decodeOutput(content)
	if err != nil {
		c.logger.Debug("Unusable model reply",
			zap.Int("content_length", len(content)),
			zap.Error(err),
		)
		return nil, err
	}

	result := normalize(out, aiCtx)
	selected := MatchPlayers(result.PlayersMentioned, aiCtx.Players)
	if dropped := len(result.PlayersMentioned) - len(selected); dropped > 0 {
		c.logger.Debug("Mentioned names without roster match",
			zap.Int("mentioned", len(result.PlayersMentioned)),
			zap.Int("matched", len(selected)),
		)
	}

	return &ParseOutput{Result: result, Selected: selected}, nil
}

// ParseOutput kết quả chuẩn hóa kèm các player match được trong roster
type ParseOutput struct {
	Result   *models.AIParsedResult
	Selected []SelectedPlayer
}

// upstreamError chuyển lỗi non-2xx của go-openai thành *UpstreamError
// với body gốc của response. Lỗi transport giữ nguyên.
func upstreamError(err error, rawBody []byte) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		body := string(rawBody)
		if body == "" {
			body = apiErr.Message
		}
		return &UpstreamError{StatusCode: apiErr.HTTPStatusCode, Body: body}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		body := string(rawBody)
		if body == "" {
			body = string(reqErr.Body)
		}
		if body == "" && reqErr.Err != nil {
			body = reqErr.Err.Error()
		}
		return &UpstreamError{StatusCode: reqErr.HTTPStatusCode, Body: body}
	}

	return err
}

// maxErrorBody giới hạn body lỗi được giữ lại
const maxErrorBody = 64 << 10

type bodyRecorderKey struct{}

// bodyRecorder giữ body của response non-2xx cho một lần Parse
type bodyRecorder struct {
	body []byte
}

// apiTransport gắn header attribution của OpenRouter và ghi lại body lỗi
// trước khi go-openai parse nó.
type apiTransport struct {
	base    http.RoundTripper
	referer string
	title   string
}

func (t *apiTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.referer != "" || t.title != "" {
		req = req.Clone(req.Context())
		if t.referer != "" {
			req.Header.Set("HTTP-Referer", t.referer)
		}
		if t.title != "" {
			req.Header.Set("X-Title", t.title)
		}
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil || resp.StatusCode < 300 {
		return resp, err
	}

	rec, ok := req.Context().Value(bodyRecorderKey{}).(*bodyRecorder)
	if !ok {
		return resp, nil
	}
	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	resp.Body.Close()
	if readErr != nil {
		return nil, readErr
	}
	rec.body = body
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}
