package user

import (
	"context"
	"testing"

	"aurum-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupUsers(t *testing.T) *Service {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))
	return &Service{DB: db}
}

func TestLoad(t *testing.T) {
	s := setupUsers(t)
	ctx := context.Background()

	user := &domain.User{TenantID: uuid.New(), Email: "a@x.com", Role: domain.RoleUser}
	require.NoError(t, s.DB.Create(user).Error)

	got, err := s.Load(ctx, user.TenantID, user.UserID)
	require.NoError(t, err)
	assert.Equal(t, user.UserID, got.UserID)
	assert.Equal(t, "a@x.com", got.Email)

	// A valid user ID under the wrong tenant is not found.
	_, err = s.Load(ctx, uuid.New(), user.UserID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = s.Load(ctx, user.TenantID, uuid.New())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
