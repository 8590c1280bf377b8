package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"custodia/internal/models"
)

func TestCreateAndGetUser(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	org, _ := seedOrgAndUser(t, db)

	user := &models.User{
		OrganizationID: org.ID,
		FirstName:      "Maria",
		LastName:       "Sokolova",
		Email:          "maria@example.com",
		Role:           models.RoleSelfService,
	}
	require.NoError(t, db.CreateUser(ctx, user))
	require.NotEmpty(t, user.ID)

	got, err := db.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Maria", got.FirstName)
	assert.Equal(t, "Sokolova", got.LastName)
	assert.Equal(t, "maria@example.com", got.Email)
	assert.Equal(t, models.RoleSelfService, got.Role)
}

func TestCreateUser_DefaultRole(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	org, _ := seedOrgAndUser(t, db)

	user := &models.User{OrganizationID: org.ID, FirstName: "NoRole"}
	require.NoError(t, db.CreateUser(ctx, user))

	got, err := db.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleBase, got.Role)
}

func TestGetUserByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, err := db.GetUserByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
