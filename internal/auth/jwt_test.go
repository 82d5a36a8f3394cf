package auth

import (
	"testing"
	"time"

	"teamhub/internal/config"
	"teamhub/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(access time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:            "test-secret",
		AccessDuration:    access,
		RefreshDuration:   time.Hour,
		MagicLinkDuration: 15 * time.Minute,
		ResetDuration:     30 * time.Minute,
	})
}

func testUser() *models.User {
	u := &models.User{Email: "coach@team.edu", Role: models.RoleCoach, PasswordHash: "hash-1"}
	u.ID = uuid.New()
	return u
}

func TestGenerateTokenPair_RoundTrip(t *testing.T) {
	svc := newTestService(15 * time.Minute)
	user := testUser()

	pair, err := svc.GenerateTokenPair(user)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleCoach, claims.Role)

	_, err = svc.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateRefreshToken(pair.RefreshToken)
	assert.NoError(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	svc := newTestService(-time.Minute)

	pair, err := svc.GenerateTokenPair(testUser())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	pair, err := newTestService(time.Minute).GenerateTokenPair(testUser())
	require.NoError(t, err)

	other := NewJWTService(config.JWTConfig{Secret: "other", AccessDuration: time.Minute})
	_, err = other.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestActionTokens(t *testing.T) {
	svc := newTestService(time.Minute)
	user := testUser()

	magic, err := svc.GenerateMagicLinkToken(user)
	require.NoError(t, err)
	claims, err := svc.ValidateTyped(magic, TokenMagicLink)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	_, err = svc.ValidateTyped(magic, TokenPasswordReset)
	assert.ErrorIs(t, err, ErrInvalidToken)

	reset, err := svc.GeneratePasswordResetToken(user)
	require.NoError(t, err)
	claims, err = svc.ValidateTyped(reset, TokenPasswordReset)
	require.NoError(t, err)
	assert.Equal(t, PasswordFingerprint("hash-1"), claims.Fingerprint)
	assert.NotEqual(t, PasswordFingerprint("hash-2"), claims.Fingerprint)
}
