package capture

import (
	"encoding/json"
	"testing"

	"teamhub/internal/models"
	"teamhub/internal/transcribe"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var roster = []transcribe.PlayerRef{
	{ID: 1, FirstName: "Ana", LastName: "Lee"},
	{ID: 2, FirstName: "Ben", LastName: "Park"},
}

func parsedResult() *models.AIParsedResult {
	return &models.AIParsedResult{
		ExtractedText:    "Ana strong serve",
		PlayersMentioned: []string{"Ana Lee"},
		KeyPoints:        []string{"serve", "footwork"},
		RelatedEvents:    []models.RelatedRef{{ID: 42, Title: "Spring Invitational"}},
		RelatedNotes:     []models.RelatedRef{},
	}
}

func reviewDraft(t *testing.T) *Draft {
	t.Helper()
	d := NewDraft()
	d.Title = "Practice 5/1"
	_, err := d.AttachImages([]string{"img"})
	require.NoError(t, err)
	require.NoError(t, d.EnterReview(parsedResult(), []transcribe.SelectedPlayer{{ID: 1, Name: "Ana Lee"}}, roster))
	return d
}

func TestAttachImages_CapsAtMax(t *testing.T) {
	d := NewDraft()

	added, err := d.AttachImages([]string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, 3, added)

	added, err = d.AttachImages([]string{"d", "e", "f", "g"})
	require.NoError(t, err)
	assert.Equal(t, 2, added)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, d.Images)

	require.NoError(t, d.RemoveImage(0))
	assert.Equal(t, []string{"b", "c", "d", "e"}, d.Images)
	assert.ErrorIs(t, d.RemoveImage(9), ErrImageIndex)
}

func TestCanParse(t *testing.T) {
	d := NewDraft()
	assert.ErrorIs(t, d.CanParse(), ErrNoImages)

	_, _ = d.AttachImages([]string{"a"})
	assert.NoError(t, d.CanParse())

	require.NoError(t, d.EnterReview(parsedResult(), nil, roster))
	assert.ErrorIs(t, d.CanParse(), ErrWrongStep)
}

func TestEnterReview_SeedsFromParsed(t *testing.T) {
	d := reviewDraft(t)

	r, ok := d.Review()
	require.True(t, ok)
	assert.Equal(t, "Ana strong serve", r.Transcript)
	assert.Equal(t, []string{"serve", "footwork"}, r.KeyPoints)
	require.NotNil(t, d.EventID)
	assert.Equal(t, int64(42), *d.EventID)

	_, err := d.AttachImages([]string{"x"})
	assert.ErrorIs(t, err, ErrWrongStep)
}

func TestBack_DiscardsReview(t *testing.T) {
	d := reviewDraft(t)
	require.NoError(t, d.SetTranscript("edited"))

	require.NoError(t, d.Back())
	assert.Equal(t, StepInput, d.Step.Kind())
	assert.Len(t, d.Images, 1)

	note, err := d.Finalize(uuid.New())
	require.NoError(t, err)
	assert.Nil(t, note.AIRawOutput)
	assert.Empty(t, note.PlayerMentions)

	assert.ErrorIs(t, d.Back(), ErrWrongStep)
}

func TestReviewEdits(t *testing.T) {
	d := reviewDraft(t)

	require.NoError(t, d.AddKeyPoint(""))
	require.NoError(t, d.AddKeyPoint("  "))
	require.NoError(t, d.SetKeyPoint(1, "movement"))
	require.NoError(t, d.RemoveKeyPoint(0))
	assert.ErrorIs(t, d.SetKeyPoint(10, "x"), ErrKeyPointIndex)

	require.NoError(t, d.TogglePlayer(2))
	require.NoError(t, d.TogglePlayer(1))
	assert.ErrorIs(t, d.TogglePlayer(99), ErrUnknownPlayer)

	note, err := d.Finalize(uuid.New())
	require.NoError(t, err)
	assert.Equal(t, models.StringList{"movement"}, note.KeyPoints)
	assert.Equal(t, models.Int64List{2}, note.PlayerMentions)
	assert.Equal(t, "Ana strong serve", note.Content)
	require.NotNil(t, note.AIRawOutput)
	assert.Equal(t, []string{"serve", "footwork"}, note.AIRawOutput.KeyPoints)
}

func TestFinalize_Input(t *testing.T) {
	author := uuid.New()
	d := NewDraft()
	d.Content = "  verbatim  "
	_, _ = d.AttachImages([]string{"ignored"})

	_, err := d.Finalize(author)
	assert.ErrorIs(t, err, ErrTitleRequired)

	d.Title = "  Film  "
	note, err := d.Finalize(author)
	require.NoError(t, err)
	assert.Equal(t, "Film", note.Title)
	assert.Equal(t, "  verbatim  ", note.Content)
	assert.Equal(t, author, note.AuthorID)
	assert.NotNil(t, note.PlayerMentions)
	assert.Empty(t, note.PlayerMentions)
	assert.Empty(t, note.KeyPoints)
	assert.Nil(t, note.AIRawOutput)
	assert.Equal(t, models.NoteGeneral, note.NoteType)
	assert.Equal(t, models.VisibilityPrivate, note.Visibility)
}

func TestDraftJSON(t *testing.T) {
	raw, err := json.Marshal(reviewDraft(t))
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "review", out["step"])
	assert.Equal(t, "Practice 5/1", out["title"])
	review := out["review"].(map[string]any)
	assert.Equal(t, "Ana strong serve", review["transcript"])

	raw, err = json.Marshal(NewDraft())
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "input", out["step"])
}
