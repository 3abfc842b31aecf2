package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/booking-service/pkg/util"
)

// RequireAuthenticated ensures a user principal is present.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := UserFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireManagerTier ensures the caller holds Gerente or Diretor rank.
func RequireManagerTier() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := UserFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !user.Role.ManagerTier() {
			return apperrors.NewForbidden("Gerente or Diretor role required")
		}
		return c.Next()
	}
}

// RequireAdmin ensures the caller holds an elevated account, independent of
// organizational rank.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := UserFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !user.IsAdmin() {
			return apperrors.NewForbidden("admin account required")
		}
		return c.Next()
	}
}
