package middleware

import (
	"net/http"
	"runtime/debug"

	"teamhub/internal/dto"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Recovery bắt panic trong handler, log stack trace và trả 500.
// Response đã ghi một phần thì chỉ abort.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			fields := []zap.Field{
				zap.String("request_id", GetRequestID(c)),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Any("panic", rec),
				zap.ByteString("stack", debug.Stack()),
			}
			if userID, ok := GetUserID(c); ok {
				fields = append(fields, zap.String("user_id", userID.String()))
			}
			logger.Error("panic recovered", fields...)

			if c.Writer.Written() {
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.Error(
				"INTERNAL_ERROR",
				"Something went wrong. Please try again later.",
			))
		}()

		c.Next()
	}
}
