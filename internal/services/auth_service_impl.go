package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"teamhub/internal/auth"
	apperrors "teamhub/internal/errors"
	"teamhub/internal/models"
	"teamhub/internal/notify"
	"teamhub/internal/repositories"
	"teamhub/internal/session"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ===========================================================================
// Auth Service Implementation
// ===========================================================================

// MinPasswordLength độ dài password tối thiểu
const MinPasswordLength = 6

// authServiceImpl implements AuthService
type authServiceImpl struct {
	userRepo   repositories.UserRepository
	jwtService *auth.JWTService
	mailer     notify.Mailer
	events     SessionEvents
	publicURL  string
	// usedLinks jti của magic link đã dùng, giữ tới khi token hết hạn
	usedLinks *cache.Cache
	logger    *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repositories.UserRepository,
	jwtService *auth.JWTService,
	mailer notify.Mailer,
	events SessionEvents,
	publicURL string,
	logger *zap.Logger,
) AuthService {
	return &authServiceImpl{
		userRepo:   userRepo,
		jwtService: jwtService,
		mailer:     mailer,
		events:     events,
		publicURL:  strings.TrimRight(publicURL, "/"),
		usedLinks:  cache.New(jwtService.MagicLinkDuration(), jwtService.MagicLinkDuration()),
		logger:     logger,
	}
}

// hashToken creates SHA256 hash of token for storage
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

func (s *authServiceImpl) publish(typ session.EventType, userID uuid.UUID) {
	if s.events != nil {
		s.events.Publish(session.Event{Type: typ, UserID: userID})
	}
}

// tokenError maps JWT validation errors
func tokenError(err error) error {
	if errors.Is(err, auth.ErrExpiredToken) {
		return apperrors.ErrTokenExpired
	}
	return apperrors.ErrInvalidToken
}

// issueSession generates tokens, stores the refresh hash and emits signed_in
func (s *authServiceImpl) issueSession(ctx context.Context, user *models.User, event session.EventType) (*LoginResult, error) {
	tokens, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		s.logger.Error("generate token failed",
			zap.Error(err),
			zap.String("user_id", user.ID.String()),
		)
		return nil, fmt.Errorf("generate token: %w", err)
	}

	tokenHash := hashToken(tokens.RefreshToken)
	user.RefreshTokenHash = &tokenHash
	user.UpdateLastSeen()

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("save refresh token hash failed",
			zap.Error(err),
			zap.String("user_id", user.ID.String()),
		)
		return nil, fmt.Errorf("save refresh token: %w", err)
	}

	s.publish(event, user.ID)

	return &LoginResult{
		User: user,
		Tokens: &TokenPair{
			AccessToken:  tokens.AccessToken,
			RefreshToken: tokens.RefreshToken,
			ExpiresIn:    int(s.jwtService.AccessDuration().Seconds()),
			RefreshIn:    int(s.jwtService.RefreshDuration().Seconds()),
		},
	}, nil
}

// Login authenticates user with email and password
func (s *authServiceImpl) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		s.logger.Error("find user by email failed", zap.Error(err))
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	if !user.CheckPassword(password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	result, err := s.issueSession(ctx, user, session.EventSignedIn)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)
	return result, nil
}

// RefreshTokens generates new token pair using refresh token
func (s *authServiceImpl) RefreshTokens(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, tokenError(err)
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil || !user.IsActive {
		return nil, apperrors.ErrInvalidToken
	}

	// Validate refresh token hash với DB
	if user.RefreshTokenHash == nil || *user.RefreshTokenHash != hashToken(refreshToken) {
		s.logger.Warn("refresh token hash mismatch - token possibly revoked",
			zap.String("user_id", user.ID.String()),
		)
		return nil, apperrors.ErrInvalidToken
	}

	return s.issueSession(ctx, user, session.EventTokenRefreshed)
}

// ValidateAccessToken validates access token and returns claims
func (s *authServiceImpl) ValidateAccessToken(token string) (*Claims, error) {
	jwtClaims, err := s.jwtService.ValidateAccessToken(token)
	if err != nil {
		return nil, tokenError(err)
	}

	return &Claims{
		UserID: jwtClaims.UserID,
		Email:  jwtClaims.Email,
		Role:   jwtClaims.Role,
	}, nil
}

// GetUserByID gets user by ID
func (s *authServiceImpl) GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return user, nil
}

// RevokeRefreshToken invalidates refresh token (for logout)
func (s *authServiceImpl) RevokeRefreshToken(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return apperrors.ErrNotFound
	}

	user.RefreshTokenHash = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}

	s.publish(session.EventSignedOut, userID)
	s.logger.Info("refresh token revoked", zap.String("user_id", userID.String()))
	return nil
}

// Signup checks the roster whitelist and creates the account in one transaction
func (s *authServiceImpl) Signup(ctx context.Context, input SignupInput) (*LoginResult, error) {
	email := repositories.NormalizeEmail(input.Email)
	if !strings.Contains(email, "@") {
		return nil, apperrors.New(apperrors.ErrInvalidInput, "A valid email is required")
	}
	if len(input.Password) < MinPasswordLength {
		return nil, apperrors.New(apperrors.ErrInvalidInput, "Password must be at least 6 characters")
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = email[:strings.Index(email, "@")]
	}

	user := &models.User{Email: email, Name: name}
	if err := user.SetPassword(input.Password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if err := s.userRepo.RegisterFromRoster(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrNotWhitelisted) || errors.Is(err, apperrors.ErrDuplicateEntry) {
			s.logger.Info("signup rejected", zap.Error(err))
			return nil, err
		}
		return nil, fmt.Errorf("register user: %w", err)
	}

	// Load lại để có Player/Staff
	created, err := s.userRepo.FindByID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load new user: %w", err)
	}

	s.logger.Info("user signed up",
		zap.String("user_id", created.ID.String()),
		zap.String("role", string(created.Role)),
	)
	return s.issueSession(ctx, created, session.EventSignedIn)
}

// SendMagicLink mails a sign-in link
func (s *authServiceImpl) SendMagicLink(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Debug("magic link requested for unknown email")
			return nil
		}
		return fmt.Errorf("find user by email: %w", err)
	}

	token, err := s.jwtService.GenerateMagicLinkToken(user)
	if err != nil {
		return fmt.Errorf("generate magic link: %w", err)
	}

	msg := notify.Message{
		To:      user.Email,
		Subject: "Your sign-in link",
		Body: fmt.Sprintf("Use this link to sign in. It expires in %d minutes.\n\n%s/auth/callback?token=%s",
			int(s.jwtService.MagicLinkDuration().Minutes()), s.publicURL, token),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Error("send magic link failed",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
	}
	return nil
}

// VerifyMagicLink exchanges a magic link token for a session. Each link
// works once.
func (s *authServiceImpl) VerifyMagicLink(ctx context.Context, token string) (*LoginResult, error) {
	claims, err := s.jwtService.ValidateTyped(token, auth.TokenMagicLink)
	if err != nil {
		return nil, tokenError(err)
	}

	if err := s.usedLinks.Add(claims.ID, struct{}{}, cache.DefaultExpiration); err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil || !user.IsActive {
		return nil, apperrors.ErrInvalidToken
	}

	return s.issueSession(ctx, user, session.EventSignedIn)
}

// RequestPasswordReset mails a password reset link
func (s *authServiceImpl) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Debug("password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("find user by email: %w", err)
	}

	token, err := s.jwtService.GeneratePasswordResetToken(user)
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	msg := notify.Message{
		To:      user.Email,
		Subject: "Reset your password",
		Body:    fmt.Sprintf("Use this link to choose a new password.\n\n%s/update-password?token=%s", s.publicURL, token),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Error("send password reset failed",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
	}
	return nil
}

// UpdatePassword sets a new password. The token stops working once the
// password changes. All refresh tokens are revoked.
func (s *authServiceImpl) UpdatePassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return apperrors.New(apperrors.ErrInvalidInput, "Password must be at least 6 characters")
	}

	claims, err := s.jwtService.ValidateTyped(token, auth.TokenPasswordReset)
	if err != nil {
		return tokenError(err)
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return apperrors.ErrInvalidToken
	}
	if claims.Fingerprint != auth.PasswordFingerprint(user.PasswordHash) {
		return apperrors.ErrInvalidToken
	}

	if err := user.SetPassword(newPassword); err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.RefreshTokenHash = nil

	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	s.publish(session.EventProfileUpdated, user.ID)
	s.logger.Info("password updated", zap.String("user_id", user.ID.String()))
	return nil
}
