package auth

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitrin/store"
)

func newTestService() *Service {
	return NewService(store.NewUserStore(nil))
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	email := gofakeit.Email()
	name := gofakeit.Name()

	u, err := svc.Register(ctx, email, "s3cret-pass", name)
	require.NoError(t, err)
	assert.NotEmpty(t, u.UserID)
	assert.Equal(t, email, u.Email)
	assert.Equal(t, name, u.Name)
	assert.Empty(t, u.PasswordHash, "password hash must never leave the service")

	got, ok, err := svc.Login(ctx, email, "s3cret-pass")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, u.UserID, got.UserID)
	assert.Empty(t, got.PasswordHash)
	assert.Empty(t, got.RefreshToken)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	email := gofakeit.Email()
	_, err := svc.Register(ctx, email, "pass-one", "First")
	require.NoError(t, err)

	_, err = svc.Register(ctx, email, "pass-two", "Second")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestLogin_WrongCredentialsAreNotErrors(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	email := gofakeit.Email()
	_, err := svc.Register(ctx, email, "correct-pass", "User")
	require.NoError(t, err)

	_, ok, err := svc.Login(ctx, email, "wrong-pass")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = svc.Login(ctx, "nobody@example.com", "whatever")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLogin_SeededDemoUser(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewUserStore(store.SeedUsers()))

	u, ok, err := svc.Login(ctx, "demo@example.com", "demo123")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "demo@example.com", u.Email)
}

func TestGetUserByID_Sanitized(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	u, err := svc.Register(ctx, gofakeit.Email(), "pass", "User")
	require.NoError(t, err)

	got, err := svc.GetUserByID(ctx, u.UserID)
	require.NoError(t, err)
	assert.Empty(t, got.PasswordHash)
	assert.Empty(t, got.RefreshToken)
	assert.True(t, got.RefreshExpiry.IsZero())

	_, err = svc.GetUserByID(ctx, "absent")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
