package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"teamhub/internal/dto"
	apperrors "teamhub/internal/errors"
	"teamhub/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ===========================================================================
// Error Helper
// Map lỗi từ service/repository sang response envelope
// Lỗi 5xx được log chi tiết, user chỉ thấy message chung
// ===========================================================================

// handleError ghi response lỗi phù hợp với err
func handleError(c *gin.Context, logger *zap.Logger, err error, entity string) {
	requestID := middleware.GetRequestID(c)

	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		status := appErr.StatusCode
		if status == 0 {
			status = apperrors.StatusCode(appErr.Err)
		}
		code := appErr.Code
		if code == "" {
			code = apperrors.ErrorCode(appErr.Err)
		}
		if status >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("request_id", requestID),
				zap.String("entity", entity),
				zap.Error(err),
			)
		}
		c.JSON(status, dto.Error(code, appErr.Message))

	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.Error("NOT_FOUND", entity+" not found"))

	case errors.Is(err, gorm.ErrDuplicatedKey):
		c.JSON(http.StatusConflict, dto.Error("DUPLICATE_ENTRY", entity+" already exists"))

	default:
		status := apperrors.StatusCode(err)
		if status >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("request_id", requestID),
				zap.String("entity", entity),
				zap.Error(err),
			)
			c.JSON(status, dto.Error(apperrors.ErrorCode(err), "Something went wrong. Please try again later."))
			return
		}
		c.JSON(status, dto.Error(apperrors.ErrorCode(err), err.Error()))
	}
}

// bindError response 400 cho lỗi binding/validation
func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, dto.Error("INVALID_REQUEST", "Malformed request body"))
		return
	}

	fields := make([]dto.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, dto.FieldError{Field: strings.ToLower(fe.Field()), Rule: fe.Tag()})
	}
	c.JSON(http.StatusBadRequest, dto.ValidationError("Request validation failed", fields))
}

// parseIDParam đọc path param số nguyên dương
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, dto.Error("INVALID_REQUEST", "Invalid "+name))
		return 0, false
	}
	return id, true
}

// parseDate đọc ngày dạng YYYY-MM-DD (UTC)
func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, time.UTC)
}
