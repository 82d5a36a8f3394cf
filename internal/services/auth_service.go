package services

import (
	"context"

	"teamhub/internal/models"
	"teamhub/internal/session"

	"github.com/google/uuid"
)

// ===========================================================================
// Auth Service Interface
// Handle authentication: login, refresh, signup, magic link, password reset
// ===========================================================================

// TokenPair contains access and refresh tokens
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int // seconds
	RefreshIn    int // seconds
}

// LoginResult result of login operation
type LoginResult struct {
	User   *models.User
	Tokens *TokenPair
}

// Claims extracted token claims
type Claims struct {
	UserID uuid.UUID
	Email  string
	Role   models.UserRole
}

// SignupInput data for self-registration
type SignupInput struct {
	Email    string
	Password string
	Name     string
}

// SessionEvents receives auth-change events (session.Manager)
type SessionEvents interface {
	Publish(ev session.Event)
}

// AuthService interface for authentication operations
type AuthService interface {
	// Login authenticates user with email and password
	Login(ctx context.Context, email, password string) (*LoginResult, error)

	// RefreshTokens generate new token pair using refresh token (rotation)
	RefreshTokens(ctx context.Context, refreshToken string) (*LoginResult, error)

	// ValidateAccessToken validates access token and returns claims
	ValidateAccessToken(token string) (*Claims, error)

	// GetUserByID gets user by ID
	GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error)

	// RevokeRefreshToken invalidates refresh token (for logout)
	RevokeRefreshToken(ctx context.Context, userID uuid.UUID) error

	// Signup creates an account for an email on the player or staff roster
	Signup(ctx context.Context, input SignupInput) (*LoginResult, error)

	// SendMagicLink mails a one-time sign-in link. Unknown emails are ignored.
	SendMagicLink(ctx context.Context, email string) error

	// VerifyMagicLink exchanges a magic link token for a session
	VerifyMagicLink(ctx context.Context, token string) (*LoginResult, error)

	// RequestPasswordReset mails a reset link. Unknown emails are ignored.
	RequestPasswordReset(ctx context.Context, email string) error

	// UpdatePassword sets a new password using a reset token
	UpdatePassword(ctx context.Context, token, newPassword string) error
}
