package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusAndCode(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"wrapped", fmt.Errorf("load note: %w", ErrForbidden), http.StatusForbidden, "FORBIDDEN"},
		{"busy", ErrBusy, http.StatusConflict, "BUSY"},
		{"not whitelisted", ErrNotWhitelisted, http.StatusForbidden, "NOT_WHITELISTED"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, StatusCode(tt.err))
			assert.Equal(t, tt.code, ErrorCode(tt.err))
		})
	}
}

func TestAppError(t *testing.T) {
	err := New(ErrExternal, "Failed to parse images").WithCode("PARSE_FAILED")

	assert.Equal(t, http.StatusBadGateway, err.StatusCode)
	assert.Equal(t, "PARSE_FAILED", err.Code)
	assert.Equal(t, "Failed to parse images", err.Error())
	assert.ErrorIs(t, fmt.Errorf("parse: %w", err), ErrExternal)

	var target *AppError
	assert.True(t, errors.As(fmt.Errorf("outer: %w", err), &target))
}
