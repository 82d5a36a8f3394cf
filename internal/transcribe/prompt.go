package transcribe

import (
	"fmt"
	"strings"
)

// userInstruction phần text gửi kèm ảnh
const userInstruction = "Please parse the handwritten notes in these images."

const outputShape = `{
  "extracted_text": "full transcription of the handwritten notes",
  "players_mentioned": ["Full Name 1", "Full Name 2"],
  "key_points": ["point 1", "point 2"],
  "suggested_event_id": null,
  "suggested_event_reason": "",
  "related_note_ids": [],
  "related_note_reasons": []
}`

// BuildSystemPrompt trải snapshot thành các dòng có id ở đầu và yêu cầu
// model trả về một JSON object duy nhất.
func BuildSystemPrompt(c *AIContext) string {
	var b strings.Builder

	b.WriteString("You are an assistant for a college athletics team coaching app. You have access to the following context:\n\n")

	b.WriteString("TEAM ROSTER:\n")
	for _, p := range c.Players {
		classYear := "N/A"
		if p.ClassYear != nil && *p.ClassYear != "" {
			classYear = *p.ClassYear
		}
		fmt.Fprintf(&b, "%d: %s %s (%s, %s)\n", p.ID, p.FirstName, p.LastName, p.Gender, classYear)
	}

	b.WriteString("\nRECENT EVENTS:\n")
	for _, e := range c.RecentEvents {
		fmt.Fprintf(&b, "%d: %s (%s, %s)\n", e.ID, e.Title, e.EventType, e.EventDate.Format("2006-01-02"))
	}

	b.WriteString("\nRECENT NOTES BY THIS AUTHOR:\n")
	for _, n := range c.RecentNotes {
		fmt.Fprintf(&b, "%d: %q (%s) - Key points: %s\n", n.ID, n.Title, n.NoteType, strings.Join(n.KeyPoints, "; "))
	}

	b.WriteString("\nTASK: Parse the handwritten notes in the image(s). Return ONLY valid JSON with this structure:\n")
	b.WriteString(outputShape)
	b.WriteString("\n\nMatch player names to the roster above. If you see partial names or nicknames, match to the closest roster entry. Return the full name from the roster.")
	b.WriteString(" Use suggested_event_id only for an id listed under RECENT EVENTS and related_note_ids only for ids listed under RECENT NOTES.")

	return b.String()
}

// NormalizeImageURL giữ nguyên data URI, base64 thô được bọc thành JPEG
func NormalizeImageURL(img string) string {
	if strings.HasPrefix(img, "data:") {
		return img
	}
	return "data:image/jpeg;base64," + img
}
