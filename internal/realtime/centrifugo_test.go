package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCentrifugoClient_PublishNoteCreated(t *testing.T) {
	var got map[string]any
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api", r.URL.Path)
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewCentrifugoClient(srv.URL, "key-1", zap.NewNop())
	err := c.PublishNoteCreated(context.Background(), &NoteEvent{NoteID: 9, Title: "Film"})
	require.NoError(t, err)

	assert.Equal(t, "apikey key-1", auth)
	assert.Equal(t, "publish", got["method"])
	params := got["params"].(map[string]any)
	assert.Equal(t, ChannelNotes, params["channel"])
	data := params["data"].(map[string]any)
	assert.Equal(t, "note_created", data["type"])
	assert.Equal(t, float64(9), data["note_id"])
}

func TestCentrifugoClient_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewCentrifugoClient(srv.URL, "bad", zap.NewNop())
	err := c.PublishAnnouncement(context.Background(), &AnnouncementEvent{AnnouncementID: 1})
	assert.ErrorContains(t, err, "401")
}
