package transcribe

import (
	"encoding/json"
	"regexp"
)

// jsonObject greedy: từ '{' đầu tiên tới '}' cuối cùng, nên reply có
// code fence hay object lồng nhau đều lấy được vùng ngoài cùng.
var jsonObject = regexp.MustCompile(`(?s)\{.*\}`)

// modelOutput shape thô model được yêu cầu trả về.
// Id để dạng raw: model hay trả "42" thay vì 42, id sai kiểu coi như
// không tìm thấy chứ không làm hỏng cả transcript.
type modelOutput struct {
	ExtractedText        string          `json:"extracted_text"`
	PlayersMentioned     []string        `json:"players_mentioned"`
	KeyPoints            []string        `json:"key_points"`
	SuggestedEventID     json.RawMessage `json:"suggested_event_id"`
	SuggestedEventReason json.RawMessage `json:"suggested_event_reason"`
	RelatedNoteIDs       json.RawMessage `json:"related_note_ids"`
	RelatedNoteReasons   json.RawMessage `json:"related_note_reasons"`
}

// ExtractJSON trả về JSON object nằm trong reply của model
func ExtractJSON(text string) (string, error) {
	match := jsonObject.FindString(text)
	if match == "" {
		return "", ErrNoJSON
	}
	return match, nil
}

func decodeOutput(text string) (*modelOutput, error) {
	raw, err := ExtractJSON(text)
	if err != nil {
		return nil, err
	}

	var out modelOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return &out, nil
}

// integerID đọc id là số nguyên JSON; string, float, null đều trả về false
func integerID(raw json.RawMessage) (int64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var id int64
	if err := json.Unmarshal(raw, &id); err != nil {
		return 0, false
	}
	return id, true
}

// eventID id event gợi ý, nil nếu thiếu hoặc sai kiểu
func (o *modelOutput) eventID() *int64 {
	id, ok := integerID(o.SuggestedEventID)
	if !ok {
		return nil
	}
	return &id
}

// noteIDs các id note hợp lệ theo thứ tự model trả về, bỏ phần tử sai kiểu
func (o *modelOutput) noteIDs() []int64 {
	var items []json.RawMessage
	if len(o.RelatedNoteIDs) == 0 || json.Unmarshal(o.RelatedNoteIDs, &items) != nil {
		return nil
	}
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		if id, ok := integerID(item); ok {
			ids = append(ids, id)
		}
	}
	return ids
}
