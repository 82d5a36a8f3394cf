package transcribe

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "https://models.test/api/v1"

func strPtr(s string) *string { return &s }

func testContext() *AIContext {
	return &AIContext{
		Players: []PlayerRef{
			{ID: 1, FirstName: "Ana", LastName: "Lee", Gender: "womens", ClassYear: strPtr("junior")},
			{ID: 2, FirstName: "Ben", LastName: "Park", Gender: "mens"},
		},
		RecentEvents: []EventRef{
			{ID: 42, Title: "Spring Invitational", EventType: "tournament", EventDate: time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)},
		},
		RecentNotes: []NoteRef{
			{ID: 7, Title: "Serve drills", NoteType: "practice", KeyPoints: []string{"toss", "follow through"}},
		},
	}
}

func newMockedClient(t *testing.T, key string) *Client {
	t.Helper()
	httpClient := &http.Client{}
	httpmock.ActivateNonDefault(httpClient)
	t.Cleanup(httpmock.DeactivateAndReset)

	return NewClient(Config{
		APIKey:     key,
		BaseURL:    testBaseURL,
		Model:      "test/model",
		Referer:    "https://team.test",
		Title:      "teamhub",
		HTTPClient: httpClient,
	}, nil)
}

func completion(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":     "cmpl-1",
		"object": "chat.completion",
		"model":  "test/model",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	})
	return string(body)
}

func TestParse_Success(t *testing.T) {
	client := newMockedClient(t, "sk-test")

	var captured map[string]any
	httpmock.RegisterResponder(http.MethodPost, testBaseURL+"/chat/completions",
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "Bearer sk-test", req.Header.Get("Authorization"))
			assert.Equal(t, "https://team.test", req.Header.Get("HTTP-Referer"))
			assert.Equal(t, "teamhub", req.Header.Get("X-Title"))

			raw, _ := io.ReadAll(req.Body)
			require.NoError(t, json.Unmarshal(raw, &captured))

			reply := "Here you go:\n```json\n" + `{
				"extracted_text": "Ana good serves",
				"players_mentioned": ["ana lee", "Chris Unknown", "Ana Lee"],
				"key_points": ["serve", "footwork"],
				"suggested_event_id": 42,
				"suggested_event_reason": "same weekend",
				"related_note_ids": [7, 99],
				"related_note_reasons": ["drills"]
			}` + "\n```"
			return httpmock.NewStringResponse(http.StatusOK, completion(reply)), nil
		})

	out, err := client.Parse(t.Context(), []string{"aGVsbG8=", "data:image/png;base64,AAAA"}, testContext())
	require.NoError(t, err)

	assert.Equal(t, "Ana good serves", out.Result.ExtractedText)
	assert.Equal(t, []string{"serve", "footwork"}, out.Result.KeyPoints)
	require.Len(t, out.Result.RelatedEvents, 1)
	assert.Equal(t, int64(42), out.Result.RelatedEvents[0].ID)
	assert.Equal(t, "Spring Invitational", out.Result.RelatedEvents[0].Title)
	require.Len(t, out.Result.RelatedNotes, 1)
	assert.Equal(t, int64(7), out.Result.RelatedNotes[0].ID)
	assert.Equal(t, []SelectedPlayer{{ID: 1, Name: "Ana Lee"}}, out.Selected)

	assert.Equal(t, 1, httpmock.GetTotalCallCount())

	messages := captured["messages"].([]any)
	require.Len(t, messages, 2)
	system := messages[0].(map[string]any)
	assert.Equal(t, "system", system["role"])
	assert.Contains(t, system["content"], "1: Ana Lee (womens, junior)")
	assert.Contains(t, system["content"], "2: Ben Park (mens, N/A)")
	assert.Contains(t, system["content"], "42: Spring Invitational (tournament, 2026-04-02)")

	user := messages[1].(map[string]any)
	parts := user["content"].([]any)
	require.Len(t, parts, 3)
	assert.Equal(t, "text", parts[0].(map[string]any)["type"])
	img1 := parts[1].(map[string]any)["image_url"].(map[string]any)
	assert.Equal(t, "data:image/jpeg;base64,aGVsbG8=", img1["url"])
	img2 := parts[2].(map[string]any)["image_url"].(map[string]any)
	assert.Equal(t, "data:image/png;base64,AAAA", img2["url"])
}

func TestParse_MissingKeyMakesNoCall(t *testing.T) {
	client := newMockedClient(t, "")
	httpmock.RegisterResponder(http.MethodPost, testBaseURL+"/chat/completions",
		httpmock.NewStringResponder(http.StatusOK, completion("{}")))

	_, err := client.Parse(t.Context(), []string{"aGVsbG8="}, testContext())
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Equal(t, 0, httpmock.GetTotalCallCount())
}

func TestParse_ImageCount(t *testing.T) {
	client := newMockedClient(t, "sk-test")

	_, err := client.Parse(t.Context(), nil, testContext())
	assert.ErrorIs(t, err, ErrImageCount)

	_, err = client.Parse(t.Context(), []string{"a", "b", "c", "d", "e", "f"}, testContext())
	assert.ErrorIs(t, err, ErrImageCount)
	assert.Equal(t, 0, httpmock.GetTotalCallCount())
}

func TestParse_UpstreamStatus(t *testing.T) {
	client := newMockedClient(t, "sk-test")
	httpmock.RegisterResponder(http.MethodPost, testBaseURL+"/chat/completions",
		httpmock.NewStringResponder(http.StatusInternalServerError, "upstream exploded"))

	_, err := client.Parse(t.Context(), []string{"aGVsbG8="}, testContext())
	require.Error(t, err)

	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusInternalServerError, upstream.StatusCode)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "upstream exploded")
}

func TestParse_UpstreamJSONError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"rate limited", http.StatusTooManyRequests, `{"error":{"message":"rate limited","code":429}}`},
		{"extra fields", http.StatusInternalServerError, `{"error":{"message":"boom","code":500},"user_id":"u"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newMockedClient(t, "sk-test")
			httpmock.RegisterResponder(http.MethodPost, testBaseURL+"/chat/completions",
				httpmock.NewStringResponder(tt.status, tt.body))

			_, err := client.Parse(t.Context(), []string{"aGVsbG8="}, testContext())

			var upstream *UpstreamError
			require.True(t, errors.As(err, &upstream))
			assert.Equal(t, tt.status, upstream.StatusCode)
			assert.Equal(t, tt.body, upstream.Body)
			assert.Contains(t, err.Error(), tt.body)
		})
	}
}

func TestParse_LooselyTypedIDs(t *testing.T) {
	tests := []struct {
		name   string
		reply  string
		events []int64
		notes  []int64
	}{
		{"string event id", `{"extracted_text":"Serve work","suggested_event_id":"42"}`, nil, nil},
		{"string note ids", `{"extracted_text":"Serve work","related_note_ids":["7"]}`, nil, nil},
		{"mixed note ids", `{"extracted_text":"Serve work","related_note_ids":["7", 7, null, 99]}`, nil, []int64{7}},
		{"float event id", `{"extracted_text":"Serve work","suggested_event_id":42.5}`, nil, nil},
		{"object ids", `{"extracted_text":"Serve work","suggested_event_id":{"id":42},"related_note_ids":"7"}`, nil, nil},
		{"integer ids", `{"extracted_text":"Serve work","suggested_event_id":42,"related_note_ids":[7]}`, []int64{42}, []int64{7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newMockedClient(t, "sk-test")
			httpmock.RegisterResponder(http.MethodPost, testBaseURL+"/chat/completions",
				httpmock.NewStringResponder(http.StatusOK, completion(tt.reply)))

			out, err := client.Parse(t.Context(), []string{"aGVsbG8="}, testContext())
			require.NoError(t, err)
			assert.Equal(t, "Serve work", out.Result.ExtractedText)

			var events, notes []int64
			for _, e := range out.Result.RelatedEvents {
				events = append(events, e.ID)
			}
			for _, n := range out.Result.RelatedNotes {
				notes = append(notes, n.ID)
			}
			assert.Equal(t, tt.events, events)
			assert.Equal(t, tt.notes, notes)
			assert.NotNil(t, out.Result.RelatedEvents)
			assert.NotNil(t, out.Result.RelatedNotes)
		})
	}
}

func TestParse_NoJSON(t *testing.T) {
	client := newMockedClient(t, "sk-test")
	httpmock.RegisterResponder(http.MethodPost, testBaseURL+"/chat/completions",
		httpmock.NewStringResponder(http.StatusOK, completion("I could not read these notes.")))

	_, err := client.Parse(t.Context(), []string{"aGVsbG8="}, testContext())
	assert.ErrorIs(t, err, ErrNoJSON)
}

func TestParse_BadJSON(t *testing.T) {
	client := newMockedClient(t, "sk-test")
	httpmock.RegisterResponder(http.MethodPost, testBaseURL+"/chat/completions",
		httpmock.NewStringResponder(http.StatusOK, completion(`{"extracted_text": "oops",}`)))

	_, err := client.Parse(t.Context(), []string{"aGVsbG8="}, testContext())

	var decodeErr *DecodeError
	assert.True(t, errors.As(err, &decodeErr))
	assert.False(t, errors.Is(err, ErrNoJSON))
}

func TestParse_EmptyFieldsDefault(t *testing.T) {
	client := newMockedClient(t, "sk-test")
	httpmock.RegisterResponder(http.MethodPost, testBaseURL+"/chat/completions",
		httpmock.NewStringResponder(http.StatusOK, completion(`{"suggested_event_id": 0}`)))

	out, err := client.Parse(t.Context(), []string{"aGVsbG8="}, testContext())
	require.NoError(t, err)

	assert.Equal(t, "", out.Result.ExtractedText)
	assert.NotNil(t, out.Result.PlayersMentioned)
	assert.NotNil(t, out.Result.KeyPoints)
	assert.Empty(t, out.Result.RelatedEvents)
	assert.NotNil(t, out.Result.RelatedEvents)
	assert.NotNil(t, out.Result.RelatedNotes)
	assert.Empty(t, out.Selected)
}
