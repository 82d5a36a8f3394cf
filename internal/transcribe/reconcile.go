package transcribe

import (
	"strings"

	"teamhub/internal/models"
)

// SelectedPlayer player trong roster khớp với một tên được nhắc tới
type SelectedPlayer struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// normalize map output thô của model sang shape được lưu. List không bao giờ
// nil. Id chỉ resolve trong snapshot đã gửi, id lạ bị bỏ.
func normalize(out *modelOutput, c *AIContext) *models.AIParsedResult {
	result := &models.AIParsedResult{
		ExtractedText:    out.ExtractedText,
		PlayersMentioned: out.PlayersMentioned,
		KeyPoints:        out.KeyPoints,
		RelatedEvents:    ResolveEvent(out.eventID(), c.RecentEvents),
		RelatedNotes:     ResolveNotes(out.noteIDs(), c.RecentNotes),
	}
	if result.PlayersMentioned == nil {
		result.PlayersMentioned = []string{}
	}
	if result.KeyPoints == nil {
		result.KeyPoints = []string{}
	}
	return result
}

// ResolveEvent tìm id gợi ý trong snapshot events
func ResolveEvent(id *int64, events []EventRef) []models.RelatedRef {
	out := []models.RelatedRef{}
	if id == nil || *id == 0 {
		return out
	}
	for _, e := range events {
		if e.ID == *id {
			return append(out, models.RelatedRef{ID: e.ID, Title: e.Title})
		}
	}
	return out
}

// ResolveNotes giữ các id có trong snapshot notes, theo thứ tự model trả về
func ResolveNotes(ids []int64, notes []NoteRef) []models.RelatedRef {
	out := []models.RelatedRef{}
	for _, id := range ids {
		for _, n := range notes {
			if n.ID == id {
				out = append(out, models.RelatedRef{ID: n.ID, Title: n.Title})
				break
			}
		}
	}
	return out
}

// MatchPlayers map tên được nhắc tới sang id trong roster: so khớp nguyên
// full name, không phân biệt hoa thường, không match một phần. Tên không
// khớp bị bỏ. Hai player trùng tên thì lấy người đầu tiên, một player được
// nhắc hai lần chỉ chọn một lần.
func MatchPlayers(names []string, roster []PlayerRef) []SelectedPlayer {
	out := []SelectedPlayer{}
	seen := make(map[int64]bool)

	for _, name := range names {
		want := strings.ToLower(strings.TrimSpace(name))
		if want == "" {
			continue
		}
		for _, p := range roster {
			if strings.ToLower(p.FullName()) != want {
				continue
			}
			if !seen[p.ID] {
				seen[p.ID] = true
				out = append(out, SelectedPlayer{ID: p.ID, Name: p.FullName()})
			}
			break
		}
	}
	return out
}
