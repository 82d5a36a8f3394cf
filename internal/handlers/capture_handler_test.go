package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"teamhub/internal/capture"
	"teamhub/internal/mocks"
	"teamhub/internal/models"
	"teamhub/internal/realtime"
	"teamhub/internal/repositories"
	"teamhub/internal/services"
	"teamhub/internal/transcribe"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type captureEnv struct {
	*testEnv
	transcriber *mocks.MockTranscriber
	token       string
}

func newCaptureEnv(t *testing.T) *captureEnv {
	env := newTestEnv(t)
	transcriber := mocks.NewMockTranscriber(gomock.NewController(t))
	noteService := services.NewNoteService(repositories.NewNoteRepository(env.db), realtime.NewNoopPublisher(), nil, zap.NewNop())
	captureService := services.NewCaptureService(capture.NewStore(time.Minute, 0), transcriber, noteService, zap.NewNop())
	NewCaptureHandler(captureService, zap.NewNop()).RegisterRoutes(env.api, env.authMW)

	_, token := env.account(models.RoleCoach, nil)
	return &captureEnv{testEnv: env, transcriber: transcriber, token: token}
}

type draftView struct {
	Step    string   `json:"step"`
	Title   string   `json:"title"`
	Images  []string `json:"images"`
	EventID *int64   `json:"event_id"`
	Review  *struct {
		Transcript string   `json:"transcript"`
		KeyPoints  []string `json:"key_points"`
	} `json:"review"`
}

func (e *captureEnv) attach(t *testing.T, images ...string) {
	t.Helper()
	w := e.do(http.MethodPut, "/api/v1/capture", e.token, map[string]interface{}{"title": "Practice 3/4"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = e.do(http.MethodPost, "/api/v1/capture/images", e.token, map[string]interface{}{"images": images})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestCaptureHandler_ParseFailure(t *testing.T) {
	env := newCaptureEnv(t)
	env.attach(t, "data:image/png;base64,AAAA")

	env.transcriber.EXPECT().BuildContext(gomock.Any(), gomock.Any()).
		Return(&transcribe.AIContext{}, nil)
	env.transcriber.EXPECT().Parse(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("upstream 500: secret details"))

	w := env.do(http.MethodPost, "/api/v1/capture/parse", env.token, nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	resp := decode(t, w, nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "PARSE_FAILED", resp.Error.Code)
	assert.Equal(t, services.ParseFailedMessage, resp.Error.Message)
	assert.NotContains(t, w.Body.String(), "secret details")

	// draft vẫn ở input, ảnh còn nguyên
	var draft draftView
	decode(t, env.do(http.MethodGet, "/api/v1/capture", env.token, nil), &draft)
	assert.Equal(t, "input", draft.Step)
	assert.Len(t, draft.Images, 1)
}

func TestCaptureHandler_ParseReviewSave(t *testing.T) {
	env := newCaptureEnv(t)

	w := env.do(http.MethodPost, "/api/v1/capture/parse", env.token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "parse without images")

	env.attach(t, "data:image/png;base64,AAAA")

	aiCtx := &transcribe.AIContext{
		Players:      []transcribe.PlayerRef{{ID: 7, FirstName: "Ana", LastName: "Lee"}},
		RecentEvents: []transcribe.EventRef{{ID: 3, Title: "Scrimmage"}},
	}
	env.transcriber.EXPECT().BuildContext(gomock.Any(), gomock.Any()).Return(aiCtx, nil)
	env.transcriber.EXPECT().Parse(gomock.Any(), gomock.Any(), aiCtx).Return(&transcribe.ParseOutput{
		Result: &models.AIParsedResult{
			ExtractedText:    "Footwork drills",
			PlayersMentioned: []string{"Ana Lee"},
			KeyPoints:        []string{"split step"},
			RelatedEvents:    []models.RelatedRef{{ID: 3, Title: "Scrimmage"}},
		},
		Selected: []transcribe.SelectedPlayer{{ID: 7, Name: "Ana Lee"}},
	}, nil)

	var draft draftView
	w = env.do(http.MethodPost, "/api/v1/capture/parse", env.token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &draft)
	require.Equal(t, "review", draft.Step)
	require.NotNil(t, draft.Review)
	assert.Equal(t, "Footwork drills", draft.Review.Transcript)
	require.NotNil(t, draft.EventID)
	assert.Equal(t, int64(3), *draft.EventID)

	w = env.do(http.MethodPatch, "/api/v1/capture/review", env.token, map[string]interface{}{
		"add_key_point": "recovery",
		"title":         "Practice notes",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &draft)
	assert.Equal(t, []string{"split step", "recovery"}, draft.Review.KeyPoints)
	assert.Equal(t, "Practice notes", draft.Title)

	w = env.do(http.MethodPost, "/api/v1/capture/save", env.token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var note models.Note
	decode(t, w, &note)
	assert.Equal(t, "Practice notes", note.Title)
	assert.Equal(t, "Footwork drills", note.Content)
	assert.Equal(t, models.Int64List{7}, note.PlayerMentions)

	// draft đã được xóa sau khi save
	decode(t, env.do(http.MethodGet, "/api/v1/capture", env.token, nil), &draft)
	assert.Equal(t, "input", draft.Step)
	assert.Empty(t, draft.Images)
}

func TestCaptureHandler_ParseSurvivesClientDisconnect(t *testing.T) {
	env := newCaptureEnv(t)
	env.attach(t, "data:image/png;base64,AAAA")

	env.transcriber.EXPECT().BuildContext(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ uuid.UUID) (*transcribe.AIContext, error) {
			assert.NoError(t, ctx.Err())
			return &transcribe.AIContext{}, nil
		})
	env.transcriber.EXPECT().Parse(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ []string, _ *transcribe.AIContext) (*transcribe.ParseOutput, error) {
			assert.NoError(t, ctx.Err())
			return &transcribe.ParseOutput{Result: &models.AIParsedResult{ExtractedText: "Drills"}}, nil
		})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/capture/parse", nil).WithContext(ctx)
	req.Header.Set("Authorization", "Bearer "+env.token)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var draft draftView
	decode(t, env.do(http.MethodGet, "/api/v1/capture", env.token, nil), &draft)
	assert.Equal(t, "review", draft.Step)
}

func TestCaptureHandler_ReviewEditIsAtomic(t *testing.T) {
	env := newCaptureEnv(t)
	env.attach(t, "data:image/png;base64,AAAA")

	env.transcriber.EXPECT().BuildContext(gomock.Any(), gomock.Any()).Return(&transcribe.AIContext{}, nil)
	env.transcriber.EXPECT().Parse(gomock.Any(), gomock.Any(), gomock.Any()).Return(&transcribe.ParseOutput{
		Result: &models.AIParsedResult{ExtractedText: "Drills", KeyPoints: []string{"serve"}},
	}, nil)
	require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/v1/capture/parse", env.token, nil).Code)

	w := env.do(http.MethodPatch, "/api/v1/capture/review", env.token, map[string]interface{}{
		"remove_key_point": 5,
		"title":            "Renamed",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var draft draftView
	decode(t, env.do(http.MethodGet, "/api/v1/capture", env.token, nil), &draft)
	assert.Equal(t, "Practice 3/4", draft.Title)
	require.NotNil(t, draft.Review)
	assert.Equal(t, []string{"serve"}, draft.Review.KeyPoints)
}
