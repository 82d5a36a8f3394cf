package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"teamhub/internal/models"
	"teamhub/internal/realtime"
	"teamhub/internal/repositories"
	"teamhub/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNoteHandler_Visibility(t *testing.T) {
	env := newTestEnv(t)
	noteService := services.NewNoteService(repositories.NewNoteRepository(env.db), realtime.NewNoopPublisher(), nil, zap.NewNop())
	NewNoteHandler(noteService, zap.NewNop()).RegisterRoutes(env.api, env.authMW)

	_, coachToken := env.account(models.RoleCoach, nil)
	_, otherCoachToken := env.account(models.RoleCoach, nil)
	ana := env.player("Ana", models.GenderFemale)
	ben := env.player("Ben", models.GenderMale)
	_, anaToken := env.account(models.RolePlayer, ana)
	_, benToken := env.account(models.RolePlayer, ben)

	create := func(title, visibility string, mentions ...int64) models.Note {
		w := env.do(http.MethodPost, "/api/v1/notes", coachToken, map[string]interface{}{
			"note_type": "practice", "title": title, "content": "body",
			"visibility": visibility, "player_mentions": mentions,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var n models.Note
		decode(t, w, &n)
		return n
	}

	private := create("Private", "private", ana.ID)
	team := create("Team", "team", ana.ID, ben.ID)
	specific := create("Specific", "specific")

	w := env.do(http.MethodPut, fmt.Sprintf("/api/v1/notes/%d/shares", specific.ID), coachToken,
		map[string]interface{}{"player_ids": []int64{ana.ID}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	titles := func(token string) []string {
		w := env.do(http.MethodGet, "/api/v1/notes", token, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var notes []models.Note
		resp := decode(t, w, &notes)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(len(notes)), resp.Meta.Total)
		out := make([]string, 0, len(notes))
		for _, n := range notes {
			out = append(out, n.Title)
		}
		return out
	}

	assert.ElementsMatch(t, []string{"Private", "Team", "Specific"}, titles(coachToken))
	assert.ElementsMatch(t, []string{"Team", "Specific"}, titles(otherCoachToken))
	assert.ElementsMatch(t, []string{"Team", "Specific"}, titles(anaToken))
	assert.ElementsMatch(t, []string{"Team"}, titles(benToken))

	w = env.do(http.MethodGet, fmt.Sprintf("/api/v1/notes/%d", private.ID), anaToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = env.do(http.MethodGet, fmt.Sprintf("/api/v1/notes/%d", team.ID), benToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// player không được tạo note trực tiếp
	w = env.do(http.MethodPost, "/api/v1/notes", anaToken, map[string]interface{}{"title": "x"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// chỉ tác giả (hoặc admin) được sửa
	w = env.do(http.MethodPatch, fmt.Sprintf("/api/v1/notes/%d", team.ID), otherCoachToken, map[string]interface{}{"title": "Hijack"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(http.MethodGet, fmt.Sprintf("/api/v1/players/%d/notes/count", ana.ID), benToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var payload map[string]int64
	decode(t, w, &payload)
	assert.Equal(t, int64(1), payload["count"])
}
