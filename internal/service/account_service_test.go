package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/incident-report-service/internal/auth"
	"github.com/spec-kit/incident-report-service/internal/config"
	"github.com/spec-kit/incident-report-service/internal/domain"
	"github.com/spec-kit/incident-report-service/internal/repository"
	apperrors "github.com/spec-kit/incident-report-service/pkg/util/errorutil"
)

func newAccountService() (*AccountService, *repository.MemoryUserRepository) {
	users := repository.NewMemoryUserRepository()
	cfg := config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 60, BcryptCost: 4}
	return NewAccountService(cfg, users), users
}

func TestAccountService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user and issues token", func(t *testing.T) {
		svc, _ := newAccountService()

		user, token, exp, err := svc.Register(ctx, "Ada", "Ada@Example.com", "hunter2")
		require.NoError(t, err)
		assert.NotEmpty(t, user.ID)
		assert.Equal(t, "ada@example.com", user.Email)
		assert.False(t, user.IsAdmin)
		assert.NotEqual(t, "hunter2", user.PasswordHash)
		assert.False(t, exp.IsZero())

		claims, err := svc.TokenManager().ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, "Ada", claims.Name)
		assert.False(t, claims.IsAdmin)
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		svc, _ := newAccountService()
		_, _, _, err := svc.Register(ctx, "", "ada@example.com", "hunter2")
		assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		svc, _ := newAccountService()
		_, _, _, err := svc.Register(ctx, "Ada", "ada@example.com", "hunter2")
		require.NoError(t, err)

		_, _, _, err = svc.Register(ctx, "Other Ada", "ada@example.com", "different")
		assert.True(t, apperrors.IsCode(err, "CONFLICT"))
	})
}

func TestAccountService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials return token with admin flag", func(t *testing.T) {
		svc, users := newAccountService()

		hash, err := auth.HashPassword("s3cret", 4)
		require.NoError(t, err)
		admin := &domain.User{Name: "Root", Email: "root@example.com", PasswordHash: hash, IsAdmin: true}
		require.NoError(t, users.Create(ctx, admin))

		user, token, _, err := svc.Login(ctx, "root@example.com", "s3cret")
		require.NoError(t, err)
		assert.True(t, user.IsAdmin)

		claims, err := svc.TokenManager().ParseToken(token)
		require.NoError(t, err)
		assert.True(t, claims.IsAdmin)
		assert.Equal(t, user.ID, claims.UserID)
	})

	t.Run("unknown email unauthorized", func(t *testing.T) {
		svc, _ := newAccountService()
		_, _, _, err := svc.Login(ctx, "nobody@example.com", "whatever")
		assert.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))
	})

	t.Run("wrong password unauthorized", func(t *testing.T) {
		svc, _ := newAccountService()
		_, _, _, err := svc.Register(ctx, "Ada", "ada@example.com", "hunter2")
		require.NoError(t, err)

		_, _, _, err = svc.Login(ctx, "ada@example.com", "hunter3")
		assert.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))
	})
}
