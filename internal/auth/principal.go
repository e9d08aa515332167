package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/task-tracker/internal/domain"
)

const principalKey = "auth_principal"

// Principal is the authenticated identity for one request. A nil
// *Principal means anonymous. It is derived from a verified token and
// never persisted.
type Principal struct {
	Subject string
	Role    domain.Role
}

// StorePrincipal stashes the principal in the request context.
func StorePrincipal(c *fiber.Ctx, p *Principal) {
	if p != nil {
		c.Locals(principalKey, p)
	}
}

// PrincipalFromContext retrieves the authenticated identity, if any.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
