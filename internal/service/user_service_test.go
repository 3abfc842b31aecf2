package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/booking-service/internal/domain"
)

func seedUsers(t *testing.T, repo *memUserRepo) (admin, alice, bob *domain.User) {
	t.Helper()
	ctx := context.Background()
	admin = &domain.User{Name: "root", Email: "root@example.com", Role: domain.RoleDiretor, AccountKind: domain.AccountKindAdmin}
	alice = &domain.User{Name: "alice", Email: "alice@example.com", Role: domain.RoleFuncionario, AccountKind: domain.AccountKindStandard}
	bob = &domain.User{Name: "bob", Email: "bob@example.com", Role: domain.RoleCoordenador, AccountKind: domain.AccountKindStandard}
	for _, user := range []*domain.User{admin, alice, bob} {
		require.NoError(t, repo.Create(ctx, user))
	}
	return admin, alice, bob
}

func TestUserManagement(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("Should list users for an admin", func(t *testing.T) {
		t.Parallel()
		repo := newMemUserRepo()
		admin, _, _ := seedUsers(t, repo)
		service := NewUserService(repo, 4)

		users, err := service.List(ctx, admin)
		require.NoError(t, err)
		assert.Len(t, users, 3)
	})
	t.Run("Should forbid listing for a standard account", func(t *testing.T) {
		t.Parallel()
		repo := newMemUserRepo()
		_, alice, _ := seedUsers(t, repo)
		service := NewUserService(repo, 4)

		_, err := service.List(ctx, alice)
		assert.Equal(t, "FORBIDDEN", errorCode(t, err))
	})
	t.Run("Should let a user read their own profile", func(t *testing.T) {
		t.Parallel()
		repo := newMemUserRepo()
		_, alice, _ := seedUsers(t, repo)
		service := NewUserService(repo, 4)

		got, err := service.Get(ctx, alice, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, alice.Email, got.Email)
	})
	t.Run("Should forbid reading another user's profile", func(t *testing.T) {
		t.Parallel()
		repo := newMemUserRepo()
		_, alice, bob := seedUsers(t, repo)
		service := NewUserService(repo, 4)

		_, err := service.Get(ctx, alice, bob.ID)
		assert.Equal(t, "FORBIDDEN", errorCode(t, err))
	})
	t.Run("Should let a user rename themselves", func(t *testing.T) {
		t.Parallel()
		repo := newMemUserRepo()
		_, alice, _ := seedUsers(t, repo)
		service := NewUserService(repo, 4)

		name := "Alice Souza"
		updated, err := service.Update(ctx, alice, alice.ID, UserUpdateInput{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, name, updated.Name)
	})
	t.Run("Should forbid a standard account changing its own role", func(t *testing.T) {
		t.Parallel()
		repo := newMemUserRepo()
		_, alice, _ := seedUsers(t, repo)
		service := NewUserService(repo, 4)

		role := domain.RoleDiretor
		_, err := service.Update(ctx, alice, alice.ID, UserUpdateInput{Role: &role})
		assert.Equal(t, "FORBIDDEN", errorCode(t, err))
	})
	t.Run("Should let an admin promote a user", func(t *testing.T) {
		t.Parallel()
		repo := newMemUserRepo()
		admin, alice, _ := seedUsers(t, repo)
		service := NewUserService(repo, 4)

		role := domain.RoleGerente
		updated, err := service.Update(ctx, admin, alice.ID, UserUpdateInput{Role: &role})
		require.NoError(t, err)
		assert.Equal(t, domain.RoleGerente, updated.Role)
	})
	t.Run("Should reject an unknown role", func(t *testing.T) {
		t.Parallel()
		repo := newMemUserRepo()
		admin, alice, _ := seedUsers(t, repo)
		service := NewUserService(repo, 4)

		role := domain.Role("ESTAGIARIO")
		_, err := service.Update(ctx, admin, alice.ID, UserUpdateInput{Role: &role})
		assert.Equal(t, "VALIDATION_FAILED", errorCode(t, err))
	})
	t.Run("Should let an admin delete another user", func(t *testing.T) {
		t.Parallel()
		repo := newMemUserRepo()
		admin, alice, _ := seedUsers(t, repo)
		service := NewUserService(repo, 4)

		require.NoError(t, service.Delete(ctx, admin, alice.ID))
		_, err := service.Get(ctx, admin, alice.ID)
		assert.Equal(t, "NOT_FOUND", errorCode(t, err))
	})
	t.Run("Should block an admin deleting their own account", func(t *testing.T) {
		t.Parallel()
		repo := newMemUserRepo()
		admin, _, _ := seedUsers(t, repo)
		service := NewUserService(repo, 4)

		err := service.Delete(ctx, admin, admin.ID)
		assert.Equal(t, "FORBIDDEN", errorCode(t, err))
	})
	t.Run("Should forbid a standard account deleting users", func(t *testing.T) {
		t.Parallel()
		repo := newMemUserRepo()
		_, alice, bob := seedUsers(t, repo)
		service := NewUserService(repo, 4)

		err := service.Delete(ctx, alice, bob.ID)
		assert.Equal(t, "FORBIDDEN", errorCode(t, err))
	})
}
