package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-desk/internal/domain"
	apperrors "github.com/spec-kit/complaint-desk/pkg/util/errorutil"
)

// RequireRole admits principals holding one of the allowed roles. It must run after
// AuthMiddleware.Handle.
func RequireRole(allowed ...domain.UserRole) fiber.Handler {
	required := make([]string, 0, len(allowed))
	for _, role := range allowed {
		required = append(required, string(role))
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !hasRole(principal.Role(), allowed) {
			return apperrors.NewDomainError("FORBIDDEN", "insufficient role", fiber.StatusForbidden,
				map[string]any{"required": required, "role": principal.Role()})
		}
		return c.Next()
	}
}

// RequireAnyRole admits any authenticated principal.
func RequireAnyRole() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

func hasRole(role domain.UserRole, allowed []domain.UserRole) bool {
	for _, candidate := range allowed {
		if candidate == role {
			return true
		}
	}
	return false
}
