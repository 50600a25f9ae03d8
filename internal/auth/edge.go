package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/idea-portal/internal/domain"
)

// RootPath is the landing page and the fallback redirect target.
const RootPath = "/"

// Decision is the outcome of the edge matcher for one request.
type Decision struct {
	// RedirectTo is empty when the request may proceed to its handler.
	RedirectTo string
}

// Allowed reports whether the request proceeds without a redirect.
func (d Decision) Allowed() bool {
	return d.RedirectTo == ""
}

var (
	allow  = Decision{}
	toRoot = Decision{RedirectTo: RootPath}
)

func redirect(path string) Decision {
	return Decision{RedirectTo: path}
}

// publicPaths maps each exact-match public page to the role area it belongs to. The root
// page belongs to every area, represented by the empty role.
var publicPaths = map[string]domain.Role{
	RootPath:            "",
	"/student/login":    domain.RoleStudent,
	"/student/register": domain.RoleStudent,
	"/staff/login":      domain.RoleStaff,
	"/staff/register":   domain.RoleStaff,
}

// RouteMatcher gates page requests before any handler runs, redirecting instead of
// returning errors. It only needs claims, never storage.
type RouteMatcher struct {
	resolver IdentityResolver
	cookie   *SessionCookie
}

// NewRouteMatcher constructs the edge matcher.
func NewRouteMatcher(resolver IdentityResolver, cookie *SessionCookie) *RouteMatcher {
	return &RouteMatcher{resolver: resolver, cookie: cookie}
}

// Applies reports whether path falls under the matcher: the root page and the student
// and staff areas. API, health and metrics routes are gated elsewhere.
func (m *RouteMatcher) Applies(path string) bool {
	path = normalizePath(path)
	if path == RootPath {
		return true
	}
	_, ok := areaOf(path)
	return ok
}

// Decide classifies path and the raw credential into a single terminal decision.
func (m *RouteMatcher) Decide(path, raw string) Decision {
	path = normalizePath(path)
	if area, public := publicPaths[path]; public {
		return m.decidePublic(area, raw)
	}
	return m.decideProtected(path, raw)
}

func (m *RouteMatcher) decidePublic(area domain.Role, raw string) Decision {
	if raw == "" {
		return allow
	}
	identity, ok := m.resolver.ResolveIdentity(raw)
	if !ok {
		return allow
	}
	if area == "" || area == identity.Role {
		return redirect(identity.Role.DashboardPath())
	}
	return allow
}

func (m *RouteMatcher) decideProtected(path, raw string) Decision {
	area, known := areaOf(path)
	if raw == "" {
		if known {
			return redirect(area.LoginPath())
		}
		return toRoot
	}

	identity, ok := m.resolver.ResolveIdentity(raw)
	if !ok {
		return toRoot
	}
	if known && identity.Role != area {
		return redirect(identity.Role.DashboardPath())
	}
	return allow
}

// Handle is the fiber middleware form of Decide.
func (m *RouteMatcher) Handle(c *fiber.Ctx) error {
	path := c.Path()
	if !m.Applies(path) {
		return c.Next()
	}
	decision := m.Decide(path, m.cookie.Read(c))
	if decision.Allowed() {
		return c.Next()
	}
	return c.Redirect(decision.RedirectTo, fiber.StatusFound)
}

// normalizePath folds path the way the router matches it: case-insensitive, with one
// optional trailing slash.
func normalizePath(path string) string {
	path = strings.ToLower(path)
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		path = path[:len(path)-1]
	}
	return path
}

// areaOf maps the leading path segment to the role owning that area.
func areaOf(path string) (domain.Role, bool) {
	segment := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(segment, '/'); i >= 0 {
		segment = segment[:i]
	}
	role, err := domain.ParseRole(segment)
	if err != nil {
		return "", false
	}
	return role, true
}
