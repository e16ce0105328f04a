package service_test

import (
	"context"
	"testing"

	"pamoja-backend/internal/domain"
	"pamoja-backend/internal/security"
	"pamoja-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	reg := service.Registration{Username: "wanjiru", Email: " Wanjiru@Example.com ", Password: "harambee-2026", FirstName: "Wanjiru"}

	t.Run("Success", func(t *testing.T) {
		f := newFixture()
		f.users.On("GetByUsername", mock.Anything, "wanjiru").Return(nil, domain.NotFoundf("user not found"))
		f.users.On("GetByEmail", mock.Anything, "wanjiru@example.com").Return(nil, domain.NotFoundf("user not found"))
		f.users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.User).ID = 7
		}).Return(nil)
		f.email.On("SendWelcome", mock.Anything, "wanjiru@example.com", "Wanjiru").Return(nil)

		session, err := f.auth().Register(ctx, reg)
		require.NoError(t, err)
		assert.True(t, session.User.IsActive)
		assert.False(t, session.User.IsActivated)
		assert.NotEqual(t, "harambee-2026", session.User.PasswordHash)

		claims, err := security.NewTokenManager(testSecret, 0, 0).ValidateToken(session.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, int32(7), claims.UserID)
		assert.Equal(t, security.TokenTypeAccess, claims.Type)
	})

	t.Run("Username Taken", func(t *testing.T) {
		f := newFixture()
		f.users.On("GetByUsername", mock.Anything, "wanjiru").Return(&domain.User{ID: 3, Username: "wanjiru"}, nil)

		_, err := f.auth().Register(ctx, reg)
		assert.ErrorIs(t, err, domain.ErrValidation)
		f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Short Password", func(t *testing.T) {
		f := newFixture()
		bad := reg
		bad.Password = "short"

		_, err := f.auth().Register(ctx, bad)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("By Email", func(t *testing.T) {
		f := newFixture()
		f.users.On("GetByEmail", mock.Anything, "wanjiru@example.com").
			Return(&domain.User{ID: 7, Username: "wanjiru", IsActive: true, PasswordHash: hashed(t, "harambee-2026")}, nil)

		session, err := f.auth().Login(ctx, "Wanjiru@example.com", "harambee-2026")
		require.NoError(t, err)
		assert.NotEmpty(t, session.RefreshToken)
	})

	t.Run("Wrong Password", func(t *testing.T) {
		f := newFixture()
		f.users.On("GetByUsername", mock.Anything, "wanjiru").
			Return(&domain.User{ID: 7, IsActive: true, PasswordHash: hashed(t, "harambee-2026")}, nil)

		_, err := f.auth().Login(ctx, "wanjiru", "guess")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("Unknown User", func(t *testing.T) {
		f := newFixture()
		f.users.On("GetByUsername", mock.Anything, "ghost").Return(nil, domain.NotFoundf("user not found"))

		_, err := f.auth().Login(ctx, "ghost", "whatever1")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("Deactivated", func(t *testing.T) {
		f := newFixture()
		f.users.On("GetByUsername", mock.Anything, "wanjiru").Return(&domain.User{
			ID: 7, IsActive: false, IsActivated: true, DeactivationReason: "arrears",
			PasswordHash: hashed(t, "harambee-2026"),
		}, nil)

		_, err := f.auth().Login(ctx, "wanjiru", "harambee-2026")
		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.Contains(t, err.Error(), "arrears")
	})
}

func TestAuthService_AccessForStaff(t *testing.T) {
	f := newFixture()
	f.users.On("GetByID", mock.Anything, int32(1)).Return(&domain.User{ID: 1, IsActive: true, IsStaff: true}, nil)

	_, decision, err := f.auth().Access(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	f.payments.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}
