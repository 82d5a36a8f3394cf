package errors

import (
	"errors"
	"net/http"
)

// ===========================================================================
// Sentinel errors
// Service trả về (hoặc wrap bằng %w) các lỗi này, handler map sang HTTP
// ===========================================================================

var (
	// ErrNotFound resource không tồn tại
	ErrNotFound = errors.New("not found")

	// ErrForbidden không có quyền (VD: sửa note của coach khác)
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput dữ liệu đầu vào không hợp lệ
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateEntry vi phạm unique constraint
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrBusy draft đang parse, không nhận thao tác khác
	ErrBusy = errors.New("operation in progress")

	// ErrExternal lỗi từ model API hoặc mail
	ErrExternal = errors.New("external service error")

	// ErrNotWhitelisted email không có trên roster player/staff
	ErrNotWhitelisted = errors.New("email not on team roster")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrInvalidToken       = errors.New("invalid token")
)

type mapping struct {
	err    error
	status int
	code   string
}

// Thứ tự quan trọng: lỗi wrap nhiều sentinel lấy cái khớp đầu tiên
var mappings = []mapping{
	{ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT"},
	{ErrDuplicateEntry, http.StatusConflict, "DUPLICATE_ENTRY"},
	{ErrBusy, http.StatusConflict, "BUSY"},
	{ErrExternal, http.StatusBadGateway, "EXTERNAL_ERROR"},
	{ErrNotWhitelisted, http.StatusForbidden, "NOT_WHITELISTED"},
	{ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{ErrTokenExpired, http.StatusUnauthorized, "TOKEN_EXPIRED"},
	{ErrInvalidToken, http.StatusUnauthorized, "INVALID_TOKEN"},
}

func lookup(err error) (mapping, bool) {
	for _, m := range mappings {
		if errors.Is(err, m.err) {
			return m, true
		}
	}
	return mapping{}, false
}

// ===========================================================================
// AppError
// Sentinel kèm message hiển thị cho user và code riêng (VD: PARSE_FAILED)
// ===========================================================================

// AppError lỗi có message thân thiện
type AppError struct {
	Err        error
	Message    string
	Code       string
	StatusCode int
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New tạo AppError, status và code lấy theo sentinel
func New(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: StatusCode(err),
		Code:       ErrorCode(err),
	}
}

// WithCode ghi đè code trả về cho client
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// StatusCode HTTP status tương ứng, 500 nếu không khớp sentinel nào
func StatusCode(err error) int {
	if m, ok := lookup(err); ok {
		return m.status
	}
	return http.StatusInternalServerError
}

// ErrorCode mã lỗi tương ứng, INTERNAL_ERROR nếu không khớp
func ErrorCode(err error) string {
	if m, ok := lookup(err); ok {
		return m.code
	}
	return "INTERNAL_ERROR"
}
