package dto

// ===========================================================================
// Response envelope
// Mọi endpoint JSON trả về {success, data | error, meta?}
// ===========================================================================

// Response envelope chung của API
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// APIError mã lỗi máy đọc được kèm thông báo cho người dùng
type APIError struct {
	// Code VD: "NOT_FOUND", "PARSE_FAILED", "FORM_CLOSED"
	Code    string `json:"code"`
	Message string `json:"message"`

	// Fields lỗi validation theo từng field của body
	Fields []FieldError `json:"fields,omitempty"`
}

// FieldError một field không qua validation
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// Meta phân trang cho list API (notes)
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// NewMeta tính số trang, limit <= 0 coi như một trang
func NewMeta(page, limit int, total int64) *Meta {
	pages := 1
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return &Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: pages,
	}
}

// Success response thành công
func Success(data interface{}) Response {
	return Response{Success: true, Data: data}
}

// SuccessWithMeta response thành công kèm phân trang
func SuccessWithMeta(data interface{}, meta *Meta) Response {
	return Response{Success: true, Data: data, Meta: meta}
}

// Error response lỗi
func Error(code, message string) Response {
	return Response{
		Success: false,
		Error:   &APIError{Code: code, Message: message},
	}
}

// ValidationError response lỗi kèm danh sách field sai
func ValidationError(message string, fields []FieldError) Response {
	return Response{
		Success: false,
		Error:   &APIError{Code: "INVALID_REQUEST", Message: message, Fields: fields},
	}
}
