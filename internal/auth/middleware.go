package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/task-tracker/pkg/util"
)

// Guard authenticates and authorizes every inbound request before the
// business handler runs. Anonymous callers pass through to the policy
// engine, which decides whether the route is public.
type Guard struct {
	authenticator *Authenticator
	policy        *PolicyEngine
}

// NewGuard constructs the request guard.
func NewGuard(authenticator *Authenticator, policy *PolicyEngine) *Guard {
	return &Guard{authenticator: authenticator, policy: policy}
}

// Handle runs the authenticate/authorize pair and stores the principal
// for downstream handlers. Denials surface as the fixed unauthenticated
// or forbidden error, nothing more specific.
func (g *Guard) Handle(c *fiber.Ctx) error {
	principal := g.authenticator.Authenticate(c.UserContext(), c.Get(fiber.HeaderAuthorization))

	decision := g.policy.Authorize(principal, c.Method(), c.Path())
	if !decision.Allowed {
		if principal == nil {
			return apperrors.NewUnauthorized(nil)
		}
		return apperrors.NewForbidden(nil)
	}

	StorePrincipal(c, principal)
	return c.Next()
}
