package handlers

import (
	"net/http"
	"testing"

	"teamhub/internal/models"
	"teamhub/internal/repositories"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestAuthMiddleware_Rejections(t *testing.T) {
	env := newTestEnv(t)
	NewFormHandler(repositories.NewFormRepository(env.db), zap.NewNop()).RegisterRoutes(env.api, env.authMW)

	inactive, inactiveToken := env.account(models.RoleCoach, nil)
	inactive.IsActive = false
	assert.NoError(t, env.db.Save(inactive).Error)

	tests := []struct {
		name  string
		token string
		code  string
	}{
		{"missing token", "", "UNAUTHORIZED"},
		{"garbage token", "not-a-jwt", "INVALID_TOKEN"},
		{"inactive account", inactiveToken, "SESSION_INVALID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodGet, "/api/v1/forms", tt.token, nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.code, errorCode(t, w))
		})
	}
}

func TestRequireCoach(t *testing.T) {
	env := newTestEnv(t)
	NewFormHandler(repositories.NewFormRepository(env.db), zap.NewNop()).RegisterRoutes(env.api, env.authMW)

	body := map[string]interface{}{"title": "Availability"}

	_, playerToken := env.account(models.RolePlayer, env.player("Ana", models.GenderFemale))
	w := env.do(http.MethodPost, "/api/v1/forms", playerToken, body)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", errorCode(t, w))

	captain := env.player("Cap", models.GenderMale)
	captain.IsCaptain = true
	assert.NoError(t, env.db.Save(captain).Error)
	_, captainToken := env.account(models.RolePlayer, captain)
	w = env.do(http.MethodPost, "/api/v1/forms", captainToken, body)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	_, coachToken := env.account(models.RoleCoach, nil)
	w = env.do(http.MethodPost, "/api/v1/forms", coachToken, body)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}
