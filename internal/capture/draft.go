package capture

import (
	"encoding/json"
	"errors"
	"slices"
	"strings"

	"teamhub/internal/models"
	"teamhub/internal/transcribe"

	"github.com/google/uuid"
)

// ===========================================================================
// Capture Draft
// Trạng thái tạo note: input -> review -> save
// Step là tagged variant, dữ liệu review chỉ tồn tại khi đang ở review
// ===========================================================================

var (
	ErrNoImages      = errors.New("at least one image is required to parse")
	ErrWrongStep     = errors.New("operation not allowed in current step")
	ErrTitleRequired = errors.New("title is required")
	ErrImageIndex    = errors.New("image index out of range")
	ErrKeyPointIndex = errors.New("key point index out of range")
	ErrUnknownPlayer = errors.New("player is not on the roster snapshot")
)

// StepKind tên của step
type StepKind string

const (
	StepInput  StepKind = "input"
	StepReview StepKind = "review"
)

// Step tagged variant: InputStep hoặc *ReviewStep
type Step interface {
	Kind() StepKind
}

// InputStep người dùng đang nhập tay hoặc chọn ảnh
type InputStep struct{}

func (InputStep) Kind() StepKind { return StepInput }

// ReviewStep kết quả AI cùng các chỉnh sửa của người dùng
type ReviewStep struct {
	// Parsed kết quả gốc, lưu vào ai_raw_output khi save
	Parsed *models.AIParsedResult `json:"parsed"`

	// Transcript text đã chỉnh sửa, khởi tạo từ extracted_text
	Transcript string `json:"transcript"`

	// KeyPoints đã chỉnh sửa, khởi tạo từ key_points
	KeyPoints []string `json:"key_points"`

	// Selected players được chọn, khởi tạo từ roster match
	Selected []transcribe.SelectedPlayer `json:"selected_players"`

	// Roster snapshot dùng để toggle player
	Roster []transcribe.PlayerRef `json:"roster"`
}

func (*ReviewStep) Kind() StepKind { return StepReview }

// Draft note đang soạn của một user
type Draft struct {
	NoteType   models.NoteType   `json:"note_type"`
	Title      string            `json:"title"`
	Content    string            `json:"content"`
	Visibility models.Visibility `json:"visibility"`
	EventID    *int64            `json:"event_id"`
	Images     []string          `json:"images"`
	Step       Step              `json:"-"`

	maxImages int
}

// NewDraft draft rỗng ở step input
func NewDraft() *Draft {
	return &Draft{
		NoteType:   models.NoteGeneral,
		Visibility: models.VisibilityPrivate,
		Images:     []string{},
		Step:       InputStep{},
		maxImages:  transcribe.MaxImages,
	}
}

// MaxImages số ảnh tối đa của draft
func (d *Draft) MaxImages() int {
	if d.maxImages <= 0 || d.maxImages > transcribe.MaxImages {
		return transcribe.MaxImages
	}
	return d.maxImages
}

// Clone deep copy để store không chia sẻ slice với caller
func (d *Draft) Clone() *Draft {
	out := *d
	out.Images = slices.Clone(d.Images)
	if out.Images == nil {
		out.Images = []string{}
	}
	if d.EventID != nil {
		id := *d.EventID
		out.EventID = &id
	}
	if r, ok := d.Step.(*ReviewStep); ok {
		out.Step = &ReviewStep{
			Parsed:     r.Parsed.Clone(),
			Transcript: r.Transcript,
			KeyPoints:  slices.Clone(r.KeyPoints),
			Selected:   slices.Clone(r.Selected),
			Roster:     r.Roster,
		}
	}
	return &out
}

// Review trả về review step nếu đang ở review
func (d *Draft) Review() (*ReviewStep, bool) {
	r, ok := d.Step.(*ReviewStep)
	return r, ok
}

func (d *Draft) review() (*ReviewStep, error) {
	r, ok := d.Review()
	if !ok {
		return nil, ErrWrongStep
	}
	return r, nil
}

// AttachImages thêm ảnh tới khi đủ MaxImages, phần dư bị bỏ qua.
// Trả về số ảnh đã thêm.
func (d *Draft) AttachImages(images []string) (int, error) {
	if d.Step.Kind() != StepInput {
		return 0, ErrWrongStep
	}
	added := 0
	for _, img := range images {
		if len(d.Images) >= d.MaxImages() {
			break
		}
		if strings.TrimSpace(img) == "" {
			continue
		}
		d.Images = append(d.Images, img)
		added++
	}
	return added, nil
}

// RemoveImage bỏ ảnh tại index
func (d *Draft) RemoveImage(index int) error {
	if d.Step.Kind() != StepInput {
		return ErrWrongStep
	}
	if index < 0 || index >= len(d.Images) {
		return ErrImageIndex
	}
	d.Images = slices.Delete(d.Images, index, index+1)
	return nil
}

// CanParse parse chỉ được phép ở input với ít nhất một ảnh
func (d *Draft) CanParse() error {
	if d.Step.Kind() != StepInput {
		return ErrWrongStep
	}
	if len(d.Images) == 0 {
		return ErrNoImages
	}
	return nil
}

// EnterReview chuyển sang review với kết quả parse.
// Event gợi ý đầu tiên (nếu có) được chọn làm event của note.
func (d *Draft) EnterReview(parsed *models.AIParsedResult, selected []transcribe.SelectedPlayer, roster []transcribe.PlayerRef) error {
	if err := d.CanParse(); err != nil {
		return err
	}

	if len(parsed.RelatedEvents) > 0 {
		id := parsed.RelatedEvents[0].ID
		d.EventID = &id
	}

	keyPoints := slices.Clone(parsed.KeyPoints)
	if keyPoints == nil {
		keyPoints = []string{}
	}
	if selected == nil {
		selected = []transcribe.SelectedPlayer{}
	}

	d.Step = &ReviewStep{
		Parsed:     parsed,
		Transcript: parsed.ExtractedText,
		KeyPoints:  keyPoints,
		Selected:   slices.Clone(selected),
		Roster:     roster,
	}
	return nil
}

// Back quay lại input, bỏ kết quả parse và các chỉnh sửa review
func (d *Draft) Back() error {
	if _, err := d.review(); err != nil {
		return err
	}
	d.Step = InputStep{}
	return nil
}

// SetTranscript sửa transcript
func (d *Draft) SetTranscript(text string) error {
	r, err := d.review()
	if err != nil {
		return err
	}
	r.Transcript = text
	return nil
}

// AddKeyPoint thêm key point (có thể rỗng, sẽ bị lọc khi save)
func (d *Draft) AddKeyPoint(point string) error {
	r, err := d.review()
	if err != nil {
		return err
	}
	r.KeyPoints = append(r.KeyPoints, point)
	return nil
}

// SetKeyPoint sửa key point tại index
func (d *Draft) SetKeyPoint(index int, point string) error {
	r, err := d.review()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(r.KeyPoints) {
		return ErrKeyPointIndex
	}
	r.KeyPoints[index] = point
	return nil
}

// RemoveKeyPoint bỏ key point tại index
func (d *Draft) RemoveKeyPoint(index int) error {
	r, err := d.review()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(r.KeyPoints) {
		return ErrKeyPointIndex
	}
	r.KeyPoints = slices.Delete(r.KeyPoints, index, index+1)
	return nil
}

// TogglePlayer chọn/bỏ chọn player trong roster snapshot
func (d *Draft) TogglePlayer(playerID int64) error {
	r, err := d.review()
	if err != nil {
		return err
	}

	if i := slices.IndexFunc(r.Selected, func(p transcribe.SelectedPlayer) bool { return p.ID == playerID }); i >= 0 {
		r.Selected = slices.Delete(r.Selected, i, i+1)
		return nil
	}

	for _, p := range r.Roster {
		if p.ID == playerID {
			r.Selected = append(r.Selected, transcribe.SelectedPlayer{ID: p.ID, Name: p.FullName()})
			return nil
		}
	}
	return ErrUnknownPlayer
}

// Finalize tạo note để lưu từ step hiện tại.
// Input: content nguyên văn, mentions và key points rỗng, không có ai_raw_output.
// Review: transcript đã sửa, player đã chọn, key points bỏ dòng trống.
func (d *Draft) Finalize(authorID uuid.UUID) (*models.Note, error) {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	note := &models.Note{
		AuthorID:       authorID,
		NoteType:       d.NoteType,
		Title:          title,
		Content:        d.Content,
		Visibility:     d.Visibility,
		PlayerMentions: models.Int64List{},
		KeyPoints:      models.StringList{},
	}
	if d.EventID != nil {
		id := *d.EventID
		note.EventID = &id
	}

	if r, ok := d.Review(); ok {
		note.Content = r.Transcript
		for _, p := range r.Selected {
			note.PlayerMentions = append(note.PlayerMentions, p.ID)
		}
		for _, kp := range r.KeyPoints {
			if strings.TrimSpace(kp) != "" {
				note.KeyPoints = append(note.KeyPoints, kp)
			}
		}
		note.AIRawOutput = r.Parsed.Clone()
	}

	note.Normalize()
	return note, nil
}

// MarshalJSON thêm step và dữ liệu review (nếu có)
func (d *Draft) MarshalJSON() ([]byte, error) {
	type plain Draft
	out := struct {
		*plain
		Step      StepKind    `json:"step"`
		MaxImages int         `json:"max_images"`
		Review    *ReviewStep `json:"review,omitempty"`
	}{plain: (*plain)(d), Step: d.Step.Kind(), MaxImages: d.MaxImages()}

	if r, ok := d.Review(); ok {
		out.Review = r
	}
	return json.Marshal(out)
}
