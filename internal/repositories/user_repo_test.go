package repositories

import (
	"context"
	"testing"

	apperrors "teamhub/internal/errors"
	"teamhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepo_RegisterFromRoster(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	jane := seedPlayer(t, db, "Jane", "Doe", "Jane@Team.edu", models.GenderFemale)
	require.NoError(t, NewStaffRepository(db).Create(ctx, &models.Staff{
		FirstName: "Pat", LastName: "Coach", Email: "head@team.edu", Role: models.StaffHeadCoach,
	}))
	require.NoError(t, NewStaffRepository(db).Create(ctx, &models.Staff{
		FirstName: "Ash", LastName: "Trainer", Email: "trainer@team.edu", Role: models.StaffTrainer,
	}))

	t.Run("player email links player", func(t *testing.T) {
		u := &models.User{Email: " JANE@team.edu ", Name: "Jane"}
		require.NoError(t, repo.RegisterFromRoster(ctx, u))
		assert.Equal(t, "jane@team.edu", u.Email)
		assert.Equal(t, models.RolePlayer, u.Role)
		require.NotNil(t, u.PlayerID)
		assert.Equal(t, jane.ID, *u.PlayerID)
	})

	t.Run("head coach becomes admin", func(t *testing.T) {
		u := &models.User{Email: "head@team.edu", Name: "Pat"}
		require.NoError(t, repo.RegisterFromRoster(ctx, u))
		assert.Equal(t, models.RoleAdmin, u.Role)
		assert.NotNil(t, u.StaffID)
	})

	t.Run("other staff becomes coach", func(t *testing.T) {
		u := &models.User{Email: "trainer@team.edu", Name: "Ash"}
		require.NoError(t, repo.RegisterFromRoster(ctx, u))
		assert.Equal(t, models.RoleCoach, u.Role)
	})

	t.Run("unknown email rejected", func(t *testing.T) {
		err := repo.RegisterFromRoster(ctx, &models.User{Email: "stranger@else.com", Name: "X"})
		assert.ErrorIs(t, err, apperrors.ErrNotWhitelisted)
	})

	t.Run("duplicate rejected", func(t *testing.T) {
		err := repo.RegisterFromRoster(ctx, &models.User{Email: "jane@team.edu", Name: "Jane"})
		assert.ErrorIs(t, err, apperrors.ErrDuplicateEntry)
	})

	found, err := repo.FindByEmail(ctx, "JANE@TEAM.EDU")
	require.NoError(t, err)
	require.NotNil(t, found.Player)
	assert.Equal(t, "Jane Doe", found.Player.FullName())
}
