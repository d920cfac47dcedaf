package users

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Izumi-Yuya/shicecal-sub015/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

func setupTestService(t *testing.T) *UserService {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
	})
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(db))
	return NewUserService(NewUserRepository(db))
}

func TestAuthenticate(t *testing.T) {
	service := setupTestService(t)
	ctx := context.Background()

	created, err := service.CreateUser(ctx, CreateUserOptions{
		Name:     "山田太郎",
		Email:    "yamada@example.com",
		Password: "secret-password",
		Role:     model.RoleEditor,
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	user, err := service.Authenticate(ctx, "yamada@example.com", "secret-password")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.Equal(t, model.RoleEditor, user.Role)
}

func TestAuthenticateSameErrorForUnknownAndWrong(t *testing.T) {
	service := setupTestService(t)
	ctx := context.Background()

	_, err := service.CreateUser(ctx, CreateUserOptions{
		Name: "test", Email: "a@example.com", Password: "correct", Role: model.RoleViewer,
	})
	require.NoError(t, err)

	_, err = service.Authenticate(ctx, "a@example.com", "wrong")
	assert.ErrorIs(t, err, ErrWrongCredentials)

	_, err = service.Authenticate(ctx, "nobody@example.com", "correct")
	assert.ErrorIs(t, err, ErrWrongCredentials)
}

func TestAuthenticateDisabledAccount(t *testing.T) {
	service := setupTestService(t)
	ctx := context.Background()

	user, err := service.CreateUser(ctx, CreateUserOptions{
		Name: "test", Email: "b@example.com", Password: "secret", Role: model.RoleViewer,
	})
	require.NoError(t, err)
	require.NoError(t, service.SetDisabled(ctx, user.ID, true))

	_, err = service.Authenticate(ctx, "b@example.com", "secret")
	assert.ErrorIs(t, err, ErrUserDisabled)

	require.NoError(t, service.SetDisabled(ctx, user.ID, false))
	_, err = service.Authenticate(ctx, "b@example.com", "secret")
	assert.NoError(t, err)
}

func TestGetUserByID(t *testing.T) {
	service := setupTestService(t)
	ctx := context.Background()

	_, err := service.GetUserByID(ctx, 99999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
