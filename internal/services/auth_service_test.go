package services

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"teamhub/internal/auth"
	"teamhub/internal/config"
	apperrors "teamhub/internal/errors"
	"teamhub/internal/models"
	"teamhub/internal/repositories"
	"teamhub/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type authFixture struct {
	svc    AuthService
	mailer *recordingMailer
	events *recordingEvents
	users  repositories.UserRepository
}

func newAuthFixture(t *testing.T) *authFixture {
	db := newTestDB(t)
	ctx := context.Background()

	players := repositories.NewPlayerRepository(db)
	require.NoError(t, players.Create(ctx, &models.Player{
		FirstName: "Ana", LastName: "Lee", Email: "ana@team.edu", Gender: models.GenderFemale, IsActive: true, IsCaptain: true,
	}))
	staff := repositories.NewStaffRepository(db)
	require.NoError(t, staff.Create(ctx, &models.Staff{
		FirstName: "Kim", LastName: "Cole", Email: "coach@team.edu", Role: models.StaffHeadCoach,
	}))

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:          "test-secret",
		AccessDuration:  15 * time.Minute,
		RefreshDuration: time.Hour,
	})

	f := &authFixture{
		mailer: &recordingMailer{},
		events: &recordingEvents{},
		users:  repositories.NewUserRepository(db),
	}
	f.svc = NewAuthService(f.users, jwtService, f.mailer, f.events, "https://team.test/", zap.NewNop())
	return f
}

func tokenFromMail(t *testing.T, body string) string {
	t.Helper()
	idx := strings.Index(body, "https://")
	require.GreaterOrEqual(t, idx, 0)
	u, err := url.Parse(strings.TrimSpace(body[idx:]))
	require.NoError(t, err)
	return u.Query().Get("token")
}

func TestAuthService_SignupWhitelist(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	res, err := f.svc.Signup(ctx, SignupInput{Email: " ANA@team.edu ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, models.RolePlayer, res.User.Role)
	require.NotNil(t, res.User.Player)
	assert.True(t, res.User.Player.IsCaptain)
	assert.Equal(t, "ana", res.User.Name)
	assert.NotEmpty(t, res.Tokens.AccessToken)

	res, err = f.svc.Signup(ctx, SignupInput{Email: "coach@team.edu", Password: "secret1", Name: "Coach Cole"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, res.User.Role)

	_, err = f.svc.Signup(ctx, SignupInput{Email: "stranger@else.com", Password: "secret1"})
	assert.ErrorIs(t, err, apperrors.ErrNotWhitelisted)

	_, err = f.svc.Signup(ctx, SignupInput{Email: "ana@team.edu", Password: "secret1"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateEntry)

	_, err = f.svc.Signup(ctx, SignupInput{Email: "ana@team.edu", Password: "123"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	assert.Equal(t, []session.EventType{session.EventSignedIn, session.EventSignedIn}, f.events.types())
}

func TestAuthService_LoginRefreshLogout(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, SignupInput{Email: "ana@team.edu", Password: "secret1"})
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, "ana@team.edu", "wrong-password")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, "nobody@team.edu", "secret1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	login, err := f.svc.Login(ctx, "Ana@Team.edu", "secret1")
	require.NoError(t, err)
	assert.Equal(t, 900, login.Tokens.ExpiresIn)

	claims, err := f.svc.ValidateAccessToken(login.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, login.User.ID, claims.UserID)

	refreshed, err := f.svc.RefreshTokens(ctx, login.Tokens.RefreshToken)
	require.NoError(t, err)

	// rotated: the old refresh token no longer works
	_, err = f.svc.RefreshTokens(ctx, login.Tokens.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	require.NoError(t, f.svc.RevokeRefreshToken(ctx, login.User.ID))
	_, err = f.svc.RefreshTokens(ctx, refreshed.Tokens.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	assert.Contains(t, f.events.types(), session.EventTokenRefreshed)
	assert.Contains(t, f.events.types(), session.EventSignedOut)
}

func TestAuthService_MagicLink(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, SignupInput{Email: "ana@team.edu", Password: "secret1"})
	require.NoError(t, err)

	require.NoError(t, f.svc.SendMagicLink(ctx, "nobody@team.edu"))
	assert.Empty(t, f.mailer.sent)

	require.NoError(t, f.svc.SendMagicLink(ctx, "ana@team.edu"))
	msg := f.mailer.last()
	assert.Equal(t, "ana@team.edu", msg.To)
	assert.Contains(t, msg.Body, "https://team.test/auth/callback?token=")

	token := tokenFromMail(t, msg.Body)
	res, err := f.svc.VerifyMagicLink(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "ana@team.edu", res.User.Email)

	_, err = f.svc.VerifyMagicLink(ctx, token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestAuthService_PasswordReset(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, SignupInput{Email: "ana@team.edu", Password: "secret1"})
	require.NoError(t, err)

	require.NoError(t, f.svc.RequestPasswordReset(ctx, "ana@team.edu"))
	token := tokenFromMail(t, f.mailer.last().Body)

	assert.ErrorIs(t, f.svc.UpdatePassword(ctx, token, "123"), apperrors.ErrInvalidInput)
	require.NoError(t, f.svc.UpdatePassword(ctx, token, "newsecret"))

	// the token is bound to the old password hash
	assert.ErrorIs(t, f.svc.UpdatePassword(ctx, token, "another1"), apperrors.ErrInvalidToken)

	_, err = f.svc.Login(ctx, "ana@team.edu", "secret1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	_, err = f.svc.Login(ctx, "ana@team.edu", "newsecret")
	assert.NoError(t, err)
}
