package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"teamhub/internal/config"
	"teamhub/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ===========================================================================
// JWT Service
// Generate and validate JWT tokens for authentication
// Ngoài access/refresh còn có token một-lần cho magic link và reset password
// ===========================================================================

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// TokenType phân loại token theo mục đích
type TokenType string

const (
	TokenAccess        TokenType = "access"
	TokenRefresh       TokenType = "refresh"
	TokenMagicLink     TokenType = "magic_link"
	TokenPasswordReset TokenType = "password_reset"
)

// Claims custom JWT claims
type Claims struct {
	UserID    uuid.UUID       `json:"user_id"`
	Email     string          `json:"email"`
	Role      models.UserRole `json:"role"`
	TokenType TokenType       `json:"token_type"`
	// Fingerprint ràng buộc reset token với password hash hiện tại,
	// đổi password xong thì token cũ hết hiệu lực
	Fingerprint string `json:"fp,omitempty"`
	jwt.RegisteredClaims
}

// TokenPair access và refresh tokens
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// JWTService xử lý JWT tokens
type JWTService struct {
	secret            []byte
	accessDuration    time.Duration
	refreshDuration   time.Duration
	magicLinkDuration time.Duration
	resetDuration     time.Duration
}

// NewJWTService tạo JWT service mới
func NewJWTService(cfg config.JWTConfig) *JWTService {
	if cfg.MagicLinkDuration <= 0 {
		cfg.MagicLinkDuration = 15 * time.Minute
	}
	if cfg.ResetDuration <= 0 {
		cfg.ResetDuration = 30 * time.Minute
	}
	return &JWTService{
		secret:            []byte(cfg.Secret),
		accessDuration:    cfg.AccessDuration,
		refreshDuration:   cfg.RefreshDuration,
		magicLinkDuration: cfg.MagicLinkDuration,
		resetDuration:     cfg.ResetDuration,
	}
}

// AccessDuration thời hạn access token
func (s *JWTService) AccessDuration() time.Duration {
	return s.accessDuration
}

// RefreshDuration thời hạn refresh token
func (s *JWTService) RefreshDuration() time.Duration {
	return s.refreshDuration
}

// MagicLinkDuration thời hạn magic link token
func (s *JWTService) MagicLinkDuration() time.Duration {
	return s.magicLinkDuration
}

func (s *JWTService) sign(user *models.User, typ TokenType, ttl time.Duration, fingerprint string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(ttl)

	claims := Claims{
		UserID:      user.ID,
		Email:       user.Email,
		Role:        user.Role,
		TokenType:   typ,
		Fingerprint: fingerprint,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   user.ID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// GenerateTokenPair tạo cặp access + refresh token cho user
func (s *JWTService) GenerateTokenPair(user *models.User) (*TokenPair, error) {
	access, accessExp, err := s.sign(user, TokenAccess, s.accessDuration, "")
	if err != nil {
		return nil, err
	}

	refresh, _, err := s.sign(user, TokenRefresh, s.refreshDuration, "")
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    accessExp,
	}, nil
}

// GenerateMagicLinkToken token đăng nhập qua email
func (s *JWTService) GenerateMagicLinkToken(user *models.User) (string, error) {
	token, _, err := s.sign(user, TokenMagicLink, s.magicLinkDuration, "")
	return token, err
}

// GeneratePasswordResetToken token đặt lại mật khẩu
func (s *JWTService) GeneratePasswordResetToken(user *models.User) (string, error) {
	token, _, err := s.sign(user, TokenPasswordReset, s.resetDuration, PasswordFingerprint(user.PasswordHash))
	return token, err
}

// ValidateToken validates token và trả về claims
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// ValidateTyped validates token và kiểm tra token type
func (s *JWTService) ValidateTyped(tokenString string, typ TokenType) (*Claims, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.TokenType != typ {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// ValidateAccessToken validates access token
func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.ValidateTyped(tokenString, TokenAccess)
}

// ValidateRefreshToken validates refresh token
func (s *JWTService) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return s.ValidateTyped(tokenString, TokenRefresh)
}

// PasswordFingerprint short hash of the stored password hash
func PasswordFingerprint(passwordHash string) string {
	sum := sha256.Sum256([]byte(passwordHash))
	return hex.EncodeToString(sum[:8])
}
