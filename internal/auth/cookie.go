package auth

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// DefaultCookieName is the cookie carrying the session token.
const DefaultCookieName = "token"

// SessionCookie reads and writes the session credential on a request.
type SessionCookie struct {
	Name   string
	Secure bool
}

// NewSessionCookie returns a cookie helper, defaulting the name to DefaultCookieName.
func NewSessionCookie(name string, secure bool) *SessionCookie {
	if name == "" {
		name = DefaultCookieName
	}
	return &SessionCookie{Name: name, Secure: secure}
}

// Read returns the raw credential stored in the cookie, or "" if absent.
func (s *SessionCookie) Read(c *fiber.Ctx) string {
	return c.Cookies(s.Name)
}

// Credential returns the cookie value, falling back to an Authorization bearer token for
// API clients that do not keep cookies.
func (s *SessionCookie) Credential(c *fiber.Ctx) string {
	if raw := s.Read(c); raw != "" {
		return raw
	}
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// Set stores token on the response until expiresAt.
func (s *SessionCookie) Set(c *fiber.Ctx, token string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     s.Name,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   s.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Clear expires the cookie on the client.
func (s *SessionCookie) Clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     s.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   s.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
