package transcribe

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured thiếu API key, trả về trước khi gọi network
	ErrNotConfigured = errors.New("transcription API key is not configured")

	// ErrNoJSON reply của model không có vùng {...}
	ErrNoJSON = errors.New("model did not return a JSON object")

	// ErrImageCount không có ảnh hoặc quá nhiều ảnh
	ErrImageCount = fmt.Errorf("between 1 and %d images are required", MaxImages)
)

// UpstreamError response non-2xx từ endpoint model, giữ status và body gốc
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("model API error: %d - %s", e.StatusCode, e.Body)
}

// DecodeError tìm thấy JSON object nhưng không decode được
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "decode model JSON: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ContextError đọc snapshot thất bại. Một lỗi bất kỳ hủy cả request,
// không có context thiếu phần.
type ContextError struct {
	Snapshot string
	Err      error
}

func (e *ContextError) Error() string {
	return fmt.Sprintf("load %s context: %v", e.Snapshot, e.Err)
}

func (e *ContextError) Unwrap() error {
	return e.Err
}
