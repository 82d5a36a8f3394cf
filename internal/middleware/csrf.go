package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"

	"teamhub/internal/dto"

	"github.com/gin-gonic/gin"
)

// ===========================================================================
// CSRF Middleware
// Double Submit Cookie pattern cho CSRF protection
// Token được set trong cookie (readable) và phải match với header.
// Request xác thực bằng Bearer header (mobile, CLI) không mang cookie
// nên không cần check.
// ===========================================================================

const (
	CSRFCookieName  = "csrf_token"
	CSRFHeaderName  = "X-CSRF-Token"
	CSRFTokenLength = 32
)

// GenerateCSRFToken tạo random CSRF token
func GenerateCSRFToken() (string, error) {
	bytes := make([]byte, CSRFTokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}

// SetCSRFCookie set CSRF token cookie (readable bởi JS), sống cùng refresh token
func SetCSRFCookie(c *gin.Context, token string, maxAge int, secure bool) {
	c.SetCookie(CSRFCookieName, token, maxAge, "/", "", secure, false)
}

func safeMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions
}

func bearerOnly(c *gin.Context) bool {
	if !strings.HasPrefix(c.GetHeader("Authorization"), "Bearer ") {
		return false
	}
	_, err := c.Cookie("access_token")
	return err != nil
}

// CSRFMiddlewareWithExempt validate CSRF token cho state-changing requests,
// bỏ qua các path prefix exempt
func CSRFMiddlewareWithExempt(exemptPaths []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if safeMethod(c.Request.Method) || bearerOnly(c) {
			c.Next()
			return
		}

		path := c.Request.URL.Path
		for _, exempt := range exemptPaths {
			if strings.HasPrefix(path, exempt) {
				c.Next()
				return
			}
		}

		cookieToken, err := c.Cookie(CSRFCookieName)
		if err != nil || cookieToken == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.Error("CSRF_MISSING", "CSRF token required"))
			return
		}

		headerToken := c.GetHeader(CSRFHeaderName)
		if headerToken == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.Error("CSRF_MISSING", "CSRF token header required"))
			return
		}

		if subtle.ConstantTimeCompare([]byte(cookieToken), []byte(headerToken)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.Error("CSRF_INVALID", "CSRF token mismatch"))
			return
		}

		c.Next()
	}
}
