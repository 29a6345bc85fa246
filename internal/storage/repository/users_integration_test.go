package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/parts-marketplace/internal/lib/errs"
	"github.com/magabrotheeeer/parts-marketplace/internal/models"
)

func TestStorage_RegisterUser_Roundtrip(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	uid, err := storage.RegisterUser(ctx, models.User{
		Email:        "seller@example.com",
		Username:     "seller",
		PasswordHash: "hashedpassword",
		FullName:     "Ivan Petrov",
		Phone:        "+70000000000",
		City:         "Moscow",
		Role:         models.RoleMerchant,
	})
	require.NoError(t, err)
	require.NotEmpty(t, uid)

	byName, err := storage.GetUserByUsername(ctx, "seller")
	require.NoError(t, err)
	assert.Equal(t, uid, byName.UID)
	assert.Equal(t, models.RoleMerchant, byName.Role)

	byUID, err := storage.GetUser(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, "seller@example.com", byUID.Email)
}

func TestStorage_GetUserByUsername_NotFound(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	_, err := storage.GetUserByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
