package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"teamhub/internal/auth"
	"teamhub/internal/config"
	"teamhub/internal/database"
	"teamhub/internal/dto"
	"teamhub/internal/middleware"
	"teamhub/internal/models"
	"teamhub/internal/repositories"
	"teamhub/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testEnv router thật với sqlite in-memory, JWT và session manager
type testEnv struct {
	t        *testing.T
	db       *gorm.DB
	jwt      *auth.JWTService
	sessions *session.Manager
	router   *gin.Engine
	api      *gin.RouterGroup
	authMW   gin.HandlerFunc
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.OpenTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:            "test-secret",
		AccessDuration:    time.Minute,
		RefreshDuration:   time.Hour,
		MagicLinkDuration: time.Minute,
		ResetDuration:     time.Minute,
	})
	sessions := session.NewManager(repositories.NewUserRepository(db), time.Minute, zap.NewNop())

	router := gin.New()
	router.Use(middleware.RequestID())

	return &testEnv{
		t:        t,
		db:       db,
		jwt:      jwtService,
		sessions: sessions,
		router:   router,
		api:      router.Group("/api/v1"),
		authMW:   middleware.AuthMiddleware(jwtService, sessions),
	}
}

func (e *testEnv) player(first string, gender models.Gender) *models.Player {
	e.t.Helper()
	p := &models.Player{
		FirstName: first,
		LastName:  "Test",
		Email:     strings.ToLower(first) + "@roster.local",
		Gender:    gender,
		IsActive:  true,
	}
	require.NoError(e.t, e.db.Create(p).Error)
	return p
}

// account tạo user với role, trả về user và access token
func (e *testEnv) account(role models.UserRole, player *models.Player) (*models.User, string) {
	e.t.Helper()
	u := &models.User{
		Email:    uuid.NewString() + "@test.local",
		Name:     string(role),
		Role:     role,
		IsActive: true,
	}
	if player != nil {
		u.PlayerID = &player.ID
	}
	require.NoError(e.t, e.db.Create(u).Error)

	pair, err := e.jwt.GenerateTokenPair(u)
	require.NoError(e.t, err)
	return u, pair.AccessToken
}

func (e *testEnv) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	e.t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.APIError   `json:"error"`
	Meta    *dto.Meta       `json:"meta"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	env := decode(t, w, nil)
	require.NotNil(t, env.Error, w.Body.String())
	return env.Error.Code
}
