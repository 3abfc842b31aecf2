package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/booking-service/internal/config"
	"github.com/spec-kit/booking-service/internal/domain"
)

// memRevocationStore is an in-memory token denylist.
type memRevocationStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func newMemRevocationStore() *memRevocationStore {
	return &memRevocationStore{revoked: make(map[string]time.Time)}
}

func (s *memRevocationStore) Revoke(_ context.Context, tokenID string, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[tokenID] = until
	return nil
}

func (s *memRevocationStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	until, ok := s.revoked[tokenID]
	return ok && time.Now().Before(until), nil
}

func authTestConfig() config.Config {
	var cfg config.Config
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.AccessTokenTTLMinutes = 15
	cfg.Auth.BcryptCost = 4
	return cfg
}

func TestAuthRegister(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("Should register a standard account with a token", func(t *testing.T) {
		t.Parallel()
		service := NewAuthService(authTestConfig(), newMemUserRepo(), newMemRevocationStore())

		user, token, expiresAt, err := service.Register(ctx, "Ana", "Ana@Example.com", "s3cret", "")
		require.NoError(t, err)
		assert.Equal(t, "ana@example.com", user.Email)
		assert.Equal(t, domain.RoleFuncionario, user.Role)
		assert.Equal(t, domain.AccountKindStandard, user.AccountKind)
		assert.NotEmpty(t, token)
		assert.True(t, expiresAt.After(time.Now()))
	})
	t.Run("Should honor an explicit role", func(t *testing.T) {
		t.Parallel()
		service := NewAuthService(authTestConfig(), newMemUserRepo(), newMemRevocationStore())

		user, _, _, err := service.Register(ctx, "Carla", "carla@example.com", "s3cret", domain.RoleGerente)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleGerente, user.Role)
	})
	t.Run("Should reject an unknown role", func(t *testing.T) {
		t.Parallel()
		service := NewAuthService(authTestConfig(), newMemUserRepo(), newMemRevocationStore())

		_, _, _, err := service.Register(ctx, "Eve", "eve@example.com", "s3cret", domain.Role("ESTAGIARIO"))
		assert.Equal(t, "VALIDATION_FAILED", errorCode(t, err))
	})
	t.Run("Should reject a duplicate email", func(t *testing.T) {
		t.Parallel()
		service := NewAuthService(authTestConfig(), newMemUserRepo(), newMemRevocationStore())

		_, _, _, err := service.Register(ctx, "Ana", "ana@example.com", "s3cret", "")
		require.NoError(t, err)
		_, _, _, err = service.Register(ctx, "Other", "ana@example.com", "s3cret", "")
		assert.Equal(t, "CONFLICT", errorCode(t, err))
	})
}

func TestAuthLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("Should log in with valid credentials", func(t *testing.T) {
		t.Parallel()
		service := NewAuthService(authTestConfig(), newMemUserRepo(), newMemRevocationStore())
		_, _, _, err := service.Register(ctx, "Ana", "ana@example.com", "s3cret", "")
		require.NoError(t, err)

		user, token, _, err := service.Login(ctx, "ANA@example.com", "s3cret")
		require.NoError(t, err)
		assert.Equal(t, "ana@example.com", user.Email)

		claims, err := service.TokenManager().ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, domain.RoleFuncionario, claims.Role)
	})
	t.Run("Should reject a wrong password", func(t *testing.T) {
		t.Parallel()
		service := NewAuthService(authTestConfig(), newMemUserRepo(), newMemRevocationStore())
		_, _, _, err := service.Register(ctx, "Ana", "ana@example.com", "s3cret", "")
		require.NoError(t, err)

		_, _, _, err = service.Login(ctx, "ana@example.com", "wrong")
		assert.Equal(t, "UNAUTHORIZED", errorCode(t, err))
	})
	t.Run("Should reject an unknown email", func(t *testing.T) {
		t.Parallel()
		service := NewAuthService(authTestConfig(), newMemUserRepo(), newMemRevocationStore())

		_, _, _, err := service.Login(ctx, "ghost@example.com", "s3cret")
		assert.Equal(t, "UNAUTHORIZED", errorCode(t, err))
	})
}

func TestAuthLogout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("Should denylist the token until expiry", func(t *testing.T) {
		t.Parallel()
		revoked := newMemRevocationStore()
		service := NewAuthService(authTestConfig(), newMemUserRepo(), revoked)
		_, token, expiresAt, err := service.Register(ctx, "Ana", "ana@example.com", "s3cret", "")
		require.NoError(t, err)

		claims, err := service.TokenManager().ParseToken(token)
		require.NoError(t, err)

		require.NoError(t, service.Logout(ctx, claims.ID, expiresAt))
		isRevoked, err := revoked.IsRevoked(ctx, claims.ID)
		require.NoError(t, err)
		assert.True(t, isRevoked)
	})
}
