package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// ===========================================================================
// JSON column types
// Lưu list dạng JSON (jsonb trên Postgres, text trên SQLite)
// Thứ tự phần tử được giữ nguyên khi đọc lại
// ===========================================================================

// Int64List danh sách ID số (VD: player_mentions)
type Int64List []int64

// Value implement driver.Valuer
func (l Int64List) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]int64(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implement sql.Scanner
func (l *Int64List) Scan(value interface{}) error {
	b, err := jsonBytes(value)
	if err != nil {
		return err
	}
	if len(b) == 0 {
		*l = Int64List{}
		return nil
	}
	out := Int64List{}
	if err := json.Unmarshal(b, &out); err != nil {
		return fmt.Errorf("scan int64 list: %w", err)
	}
	*l = out
	return nil
}

// Contains kiểm tra list có chứa id không
func (l Int64List) Contains(id int64) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// StringList danh sách string (VD: key_points, options)
type StringList []string

// Value implement driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implement sql.Scanner
func (l *StringList) Scan(value interface{}) error {
	b, err := jsonBytes(value)
	if err != nil {
		return err
	}
	if len(b) == 0 {
		*l = StringList{}
		return nil
	}
	out := StringList{}
	if err := json.Unmarshal(b, &out); err != nil {
		return fmt.Errorf("scan string list: %w", err)
	}
	*l = out
	return nil
}

// JSONMap object JSON tự do (VD: form responses)
type JSONMap map[string]interface{}

// Value implement driver.Valuer
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]interface{}(m))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implement sql.Scanner
func (m *JSONMap) Scan(value interface{}) error {
	b, err := jsonBytes(value)
	if err != nil {
		return err
	}
	out := JSONMap{}
	if len(b) > 0 {
		if err := json.Unmarshal(b, &out); err != nil {
			return fmt.Errorf("scan json map: %w", err)
		}
	}
	*m = out
	return nil
}

// jsonBytes chuẩn hóa giá trị từ driver (pgx trả []byte/string, sqlite trả string)
func jsonBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, errors.New("type assertion failed for JSON column")
	}
}
