package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/idea-portal/internal/domain"
	apperrors "github.com/spec-kit/idea-portal/pkg/util"
)

const identityKey = "auth_identity"

// Gate enforces authentication and role admission inside API handlers, independently of
// the edge matcher.
type Gate struct {
	resolver IdentityResolver
	cookie   *SessionCookie
}

// NewGate constructs the access gate.
func NewGate(resolver IdentityResolver, cookie *SessionCookie) *Gate {
	return &Gate{resolver: resolver, cookie: cookie}
}

// Authenticate returns the identity behind raw, or a 401 DomainError. Absent and invalid
// credentials produce the same rejection.
func (g *Gate) Authenticate(raw string) (domain.Identity, error) {
	identity, ok := g.resolver.ResolveIdentity(raw)
	if !ok {
		return domain.Identity{}, apperrors.NewUnauthorized("Unauthorized")
	}
	return identity, nil
}

// Authorize applies Authenticate and then requires an exact role match (403 otherwise).
func (g *Gate) Authorize(raw string, role domain.Role) (domain.Identity, error) {
	identity, err := g.Authenticate(raw)
	if err != nil {
		return domain.Identity{}, err
	}
	if identity.Role != role {
		return domain.Identity{}, apperrors.NewForbidden("Forbidden")
	}
	return identity, nil
}

// RequireAuthenticated admits any caller holding a valid credential.
func (g *Gate) RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, err := g.Authenticate(g.cookie.Credential(c))
		if err != nil {
			return err
		}
		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// RequireRole admits only callers whose credential carries role.
func (g *Gate) RequireRole(role domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, err := g.Authorize(g.cookie.Credential(c), role)
		if err != nil {
			return err
		}
		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// Credential exposes the raw credential of the current request.
func (g *Gate) Credential(c *fiber.Ctx) string {
	return g.cookie.Credential(c)
}

// IdentityFromContext retrieves the identity stored by the gate.
func IdentityFromContext(c *fiber.Ctx) (domain.Identity, bool) {
	identity, ok := c.Locals(identityKey).(domain.Identity)
	return identity, ok
}
