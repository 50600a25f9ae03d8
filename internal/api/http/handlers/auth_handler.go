package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/idea-portal/internal/api/dto"
	"github.com/spec-kit/idea-portal/internal/auth"
	"github.com/spec-kit/idea-portal/internal/domain"
	"github.com/spec-kit/idea-portal/internal/service"
	apperrors "github.com/spec-kit/idea-portal/pkg/util"
)

// AuthFlows is the account workflow used by AuthHandler.
type AuthFlows interface {
	Register(ctx context.Context, role domain.Role, name, email, password string) (*domain.User, service.Session, error)
	Login(ctx context.Context, role domain.Role, email, password string) (*domain.User, service.Session, error)
}

// AuthHandler exposes account endpoints for both roles.
type AuthHandler struct {
	auth     AuthFlows
	sessions auth.CurrentUserResolver
	cookie   *auth.SessionCookie
}

// NewAuthHandler constructs handler.
func NewAuthHandler(flows AuthFlows, sessions auth.CurrentUserResolver, cookie *auth.SessionCookie) *AuthHandler {
	return &AuthHandler{auth: flows, sessions: sessions, cookie: cookie}
}

// Register handles POST /api/auth/{role}/register.
func (h *AuthHandler) Register(role domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req dto.RegisterRequest
		if err := dto.Bind(c, &req); err != nil {
			return err
		}

		user, session, err := h.auth.Register(c.UserContext(), role, req.Name, req.Email, req.Password)
		if err != nil {
			return serviceError(err)
		}
		h.cookie.Set(c, session.Token, session.ExpiresAt)
		return c.Status(http.StatusCreated).JSON(authBody(user, session))
	}
}

// Login handles POST /api/auth/{role}/login.
func (h *AuthHandler) Login(role domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req dto.LoginRequest
		if err := dto.Bind(c, &req); err != nil {
			return err
		}

		user, session, err := h.auth.Login(c.UserContext(), role, req.Email, req.Password)
		if err != nil {
			return serviceError(err)
		}
		h.cookie.Set(c, session.Token, session.ExpiresAt)
		return c.JSON(authBody(user, session))
	}
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.cookie.Clear(c)
	return c.SendStatus(http.StatusNoContent)
}

// Me handles GET /api/auth/me, returning the stored account behind the session.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, ok := h.sessions.ResolveCurrentUser(c.UserContext(), h.cookie.Credential(c))
	if !ok {
		return apperrors.NewNotFound("user", nil)
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

func authBody(user *domain.User, session service.Session) fiber.Map {
	return fiber.Map{
		"data": fiber.Map{
			"user": dto.NewUserResponse(user),
			"auth": dto.AuthResponse{Token: session.Token, ExpiresAt: session.ExpiresAt},
		},
	}
}
