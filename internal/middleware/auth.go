package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"teamhub/internal/auth"
	"teamhub/internal/dto"
	"teamhub/internal/models"
	"teamhub/internal/repositories"
	"teamhub/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ===========================================================================
// Auth Middleware
// Protect routes với JWT authentication
// Sau khi verify token, session state (profile + capabilities) lấy từ cache
// của session manager, không đọc lại DB mỗi request
// ===========================================================================

// Context keys cho auth data
const (
	ContextKeyUserID   = "user_id"
	ContextKeyUserRole = "user_role"
	ContextKeyClaims   = "claims"
	ContextKeySession  = "session"
)

// SessionStore trả về session state của user (session.Manager)
type SessionStore interface {
	Get(ctx context.Context, userID uuid.UUID) (*session.State, error)
}

// tokenFromRequest lấy token từ cookie, fallback sang Authorization header
func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie("access_token"); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return parts[1]
		}
	}
	return ""
}

// AuthMiddleware tạo middleware để verify JWT from cookie or header
func AuthMiddleware(jwtService *auth.JWTService, sessions SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, dto.Error("UNAUTHORIZED", "Authentication required"))
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateAccessToken(tokenString)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				c.JSON(http.StatusUnauthorized, dto.Error("TOKEN_EXPIRED", "Token has expired"))
			} else {
				c.JSON(http.StatusUnauthorized, dto.Error("INVALID_TOKEN", "Invalid token"))
			}
			c.Abort()
			return
		}

		state, err := sessions.Get(c.Request.Context(), claims.UserID)
		if err != nil || !state.User.IsActive {
			c.JSON(http.StatusUnauthorized, dto.Error("SESSION_INVALID", "Account not available"))
			c.Abort()
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyUserRole, state.Role)
		c.Set(ContextKeyClaims, claims)
		c.Set(ContextKeySession, state)

		c.Next()
	}
}

// RequireRole middleware yêu cầu role cụ thể
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := GetUserRole(c)
		if !exists {
			c.JSON(http.StatusForbidden, dto.Error("FORBIDDEN", "Access denied"))
			c.Abort()
			return
		}

		for _, r := range roles {
			if userRole == r {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, dto.Error("FORBIDDEN", "Insufficient permissions"))
		c.Abort()
	}
}

// requireCapability chặn request nếu state không có capability
func requireCapability(allowed func(session.Capabilities) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		state, ok := GetSession(c)
		if !ok || !allowed(state.Capabilities) {
			c.JSON(http.StatusForbidden, dto.Error("FORBIDDEN", "Insufficient permissions"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin yêu cầu admin
func RequireAdmin() gin.HandlerFunc {
	return requireCapability(func(caps session.Capabilities) bool { return caps.IsAdmin })
}

// RequireCoach yêu cầu coach, admin hoặc captain
func RequireCoach() gin.HandlerFunc {
	return requireCapability(func(caps session.Capabilities) bool { return caps.IsCoach })
}

// ===========================================================================
// Helper functions để lấy data từ context
// ===========================================================================

// GetUserID lấy user ID từ context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	id, exists := c.Get(ContextKeyUserID)
	if !exists {
		return uuid.Nil, false
	}
	return id.(uuid.UUID), true
}

// GetUserRole lấy user role từ context
func GetUserRole(c *gin.Context) (models.UserRole, bool) {
	role, exists := c.Get(ContextKeyUserRole)
	if !exists {
		return "", false
	}
	return role.(models.UserRole), true
}

// GetClaims lấy toàn bộ claims từ context
func GetClaims(c *gin.Context) (*auth.Claims, bool) {
	claims, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil, false
	}
	return claims.(*auth.Claims), true
}

// GetSession lấy session state từ context
func GetSession(c *gin.Context) (*session.State, bool) {
	st, exists := c.Get(ContextKeySession)
	if !exists {
		return nil, false
	}
	return st.(*session.State), true
}

// GetViewer dựng NoteViewer từ session state
func GetViewer(c *gin.Context) repositories.NoteViewer {
	state, ok := GetSession(c)
	if !ok {
		return repositories.NoteViewer{}
	}
	return repositories.NoteViewer{
		UserID:   state.User.ID,
		PlayerID: state.PlayerID(),
		IsStaff:  state.User.IsStaff(),
		IsAdmin:  state.Capabilities.IsAdmin,
	}
}
