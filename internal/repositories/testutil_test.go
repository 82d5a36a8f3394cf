package repositories

import (
	"context"
	"testing"

	"teamhub/internal/database"
	"teamhub/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func seedPlayer(t *testing.T, db *gorm.DB, first, last, email string, gender models.Gender) *models.Player {
	t.Helper()
	p := &models.Player{FirstName: first, LastName: last, Email: email, Gender: gender, IsActive: true}
	require.NoError(t, NewPlayerRepository(db).Create(context.Background(), p))
	return p
}

func seedUser(t *testing.T, db *gorm.DB, email string, role models.UserRole, playerID *int64) *models.User {
	t.Helper()
	u := &models.User{Email: email, Name: email, Role: role, PlayerID: playerID, IsActive: true}
	require.NoError(t, u.SetPassword("password123"))
	require.NoError(t, NewUserRepository(db).Create(context.Background(), u))
	require.NotEqual(t, uuid.Nil, u.ID)
	return u
}
