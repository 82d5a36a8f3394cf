package middleware

import (
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ===========================================================================
// Request ID Middleware
// Mỗi request có một ID, trả về trong header X-Request-ID và gắn vào log.
// ID do client gửi chỉ được dùng lại khi đúng định dạng.
// ===========================================================================

const (
	// RequestIDKey key để lưu request ID trong gin context
	RequestIDKey = "request_id"

	// RequestIDHeader tên header chứa request ID
	RequestIDHeader = "X-Request-ID"
)

var validRequestID = regexp.MustCompile(`^[A-Za-z0-9._-]{8,64}$`)

// RequestID middleware thêm unique ID cho mỗi request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if !validRequestID.MatchString(requestID) {
			requestID = uuid.New().String()
		}

		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}

// GetRequestID lấy request ID từ gin context ("" nếu không có)
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}
