package handlers

import (
	"errors"
	"net/http"

	"teamhub/internal/dto"
	apperrors "teamhub/internal/errors"
	"teamhub/internal/middleware"
	"teamhub/internal/models"
	"teamhub/internal/services"
	"teamhub/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ===========================================================================
// Auth Handler
// Handle authentication endpoints: login, refresh, me, logout,
// signup, magic link, password reset
// ===========================================================================

// AuthHandler xử lý các endpoint auth
type AuthHandler struct {
	authService  services.AuthService
	secureCookie bool
	logger       *zap.Logger
}

// NewAuthHandler tạo auth handler mới
// secureCookie = true khi chạy production (HTTPS)
func NewAuthHandler(
	authService services.AuthService,
	secureCookie bool,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

// UserResponse user data (không có password)
type UserResponse struct {
	ID       string          `json:"id"`
	Email    string          `json:"email"`
	Name     string          `json:"name"`
	Role     models.UserRole `json:"role"`
	PlayerID *int64          `json:"player_id,omitempty"`
	StaffID  *int64          `json:"staff_id,omitempty"`
}

func newUserResponse(u *models.User) *UserResponse {
	return &UserResponse{
		ID:       u.ID.String(),
		Email:    u.Email,
		Name:     u.Name,
		Role:     u.Role,
		PlayerID: u.PlayerID,
		StaffID:  u.StaffID,
	}
}

// MeResponse session state của user hiện tại
type MeResponse struct {
	User         *UserResponse        `json:"user"`
	Role         models.UserRole      `json:"role"`
	Player       *models.Player       `json:"player"`
	Capabilities session.Capabilities `json:"capabilities"`
}

// ===========================================================================
// Cookie helpers
// ===========================================================================

// setSession set httpOnly cookies (SameSite=Lax) và CSRF token mới
func (h *AuthHandler) setSession(c *gin.Context, tokens *services.TokenPair) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("access_token", tokens.AccessToken, tokens.ExpiresIn, "/", "", h.secureCookie, true)
	c.SetCookie("refresh_token", tokens.RefreshToken, tokens.RefreshIn, "/", "", h.secureCookie, true)

	csrfToken, err := middleware.GenerateCSRFToken()
	if err != nil {
		h.logger.Error("generate csrf token failed", zap.Error(err))
		return
	}
	middleware.SetCSRFCookie(c, csrfToken, tokens.RefreshIn, h.secureCookie)
}

func (h *AuthHandler) clearSession(c *gin.Context) {
	c.SetCookie("access_token", "", -1, "/", "", h.secureCookie, true)
	c.SetCookie("refresh_token", "", -1, "/", "", h.secureCookie, true)
	c.SetCookie(middleware.CSRFCookieName, "", -1, "/", "", h.secureCookie, false)
}

func (h *AuthHandler) respondSession(c *gin.Context, status int, result *services.LoginResult) {
	h.setSession(c, result.Tokens)
	c.JSON(status, dto.Success(newUserResponse(result.User)))
}

// ===========================================================================
// Handlers
// ===========================================================================

// Login đăng nhập bằng email + password
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, dto.Error("INVALID_CREDENTIALS", "Invalid email or password"))
			return
		}
		handleError(c, h.logger, err, "user")
		return
	}

	h.respondSession(c, http.StatusOK, result)
}

// Refresh làm mới tokens (rotation)
// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie("refresh_token")
	if err != nil || refreshToken == "" {
		c.JSON(http.StatusUnauthorized, dto.Error("NO_TOKEN", "Refresh token missing"))
		return
	}

	result, err := h.authService.RefreshTokens(c.Request.Context(), refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrTokenExpired):
			h.clearSession(c)
			c.JSON(http.StatusUnauthorized, dto.Error("TOKEN_EXPIRED", "Refresh token has expired"))
		case errors.Is(err, apperrors.ErrInvalidToken):
			c.JSON(http.StatusUnauthorized, dto.Error("INVALID_TOKEN", "Invalid refresh token"))
		default:
			handleError(c, h.logger, err, "session")
		}
		return
	}

	h.respondSession(c, http.StatusOK, result)
}

// Me trả về session state hiện tại
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	state, ok := middleware.GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Error("UNAUTHORIZED", "Authentication required"))
		return
	}

	c.JSON(http.StatusOK, dto.Success(&MeResponse{
		User:         newUserResponse(state.User),
		Role:         state.Role,
		Player:       state.Player,
		Capabilities: state.Capabilities,
	}))
}

// Logout đăng xuất - Revoke token và clear cookies
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if userID, ok := middleware.GetUserID(c); ok {
		if err := h.authService.RevokeRefreshToken(c.Request.Context(), userID); err != nil {
			h.logger.Warn("revoke refresh token failed", zap.Error(err))
		}
	}

	h.clearSession(c)
	c.JSON(http.StatusOK, dto.Success(gin.H{"message": "Signed out"}))
}

// Signup tạo account cho email có trên roster
// POST /api/v1/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.authService.Signup(c.Request.Context(), services.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotWhitelisted):
			c.JSON(http.StatusForbidden, dto.Error("NOT_WHITELISTED",
				"This email is not on the team roster. Contact your coach to be added."))
		case errors.Is(err, apperrors.ErrDuplicateEntry):
			c.JSON(http.StatusConflict, dto.Error("DUPLICATE_ENTRY", "An account with this email already exists"))
		default:
			handleError(c, h.logger, err, "account")
		}
		return
	}

	h.respondSession(c, http.StatusCreated, result)
}

// MagicLink gửi link đăng nhập qua email.
// Luôn trả 200 để không lộ email nào có account.
// POST /api/v1/auth/magic-link
func (h *AuthHandler) MagicLink(c *gin.Context) {
	var req dto.EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.authService.SendMagicLink(c.Request.Context(), req.Email); err != nil {
		h.logger.Warn("send magic link failed", zap.Error(err))
	}

	c.JSON(http.StatusOK, dto.Success(gin.H{"message": "Check your email for a sign-in link"}))
}

// VerifyMagicLink đổi magic link token lấy session
// POST /api/v1/auth/magic-link/verify
func (h *AuthHandler) VerifyMagicLink(c *gin.Context) {
	var req dto.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.authService.VerifyMagicLink(c.Request.Context(), req.Token)
	if err != nil {
		handleError(c, h.logger, err, "magic link")
		return
	}

	h.respondSession(c, http.StatusOK, result)
}

// ResetPassword gửi email đặt lại mật khẩu (luôn 200)
// POST /api/v1/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.authService.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		h.logger.Warn("request password reset failed", zap.Error(err))
	}

	c.JSON(http.StatusOK, dto.Success(gin.H{"message": "Check your email for a reset link"}))
}

// UpdatePassword đặt mật khẩu mới bằng reset token
// POST /api/v1/auth/update-password
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	var req dto.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.authService.UpdatePassword(c.Request.Context(), req.Token, req.Password); err != nil {
		handleError(c, h.logger, err, "password reset")
		return
	}

	h.clearSession(c)
	c.JSON(http.StatusOK, dto.Success(gin.H{"message": "Password updated. Please sign in again."}))
}

// ===========================================================================
// Route Registration
// ===========================================================================

// RegisterRoutes đăng ký routes cho auth
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	auth := rg.Group("/auth")
	{
		// Public routes (không cần auth)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/signup", h.Signup)
		auth.POST("/magic-link", h.MagicLink)
		auth.POST("/magic-link/verify", h.VerifyMagicLink)
		auth.POST("/reset-password", h.ResetPassword)
		auth.POST("/update-password", h.UpdatePassword)

		// Protected routes (cần auth)
		auth.GET("/me", authMiddleware, h.Me)
		auth.POST("/logout", authMiddleware, h.Logout)
	}
}
