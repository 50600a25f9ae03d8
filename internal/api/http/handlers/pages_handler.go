package handlers

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/idea-portal/internal/auth"
	"github.com/spec-kit/idea-portal/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type pageData struct {
	Title         string
	Role          domain.Role
	Next          string
	Email         string
	IdeasEndpoint string
}

// PagesHandler renders the server-side pages. Access to them is decided by the edge
// route matcher before these handlers run.
type PagesHandler struct {
	identities auth.IdentityResolver
	cookie     *auth.SessionCookie
}

// NewPagesHandler constructs handler.
func NewPagesHandler(identities auth.IdentityResolver, cookie *auth.SessionCookie) *PagesHandler {
	return &PagesHandler{identities: identities, cookie: cookie}
}

// Home GET /.
func (h *PagesHandler) Home(c *fiber.Ctx) error {
	return render(c, "home", pageData{Title: "Project Ideas"})
}

// Login GET /{role}/login.
func (h *PagesHandler) Login(role domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return render(c, "login", pageData{
			Title: roleTitle(role) + " login",
			Role:  role,
			Next:  role.DashboardPath(),
		})
	}
}

// Register GET /{role}/register.
func (h *PagesHandler) Register(role domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return render(c, "register", pageData{
			Title: roleTitle(role) + " registration",
			Role:  role,
			Next:  role.DashboardPath(),
		})
	}
}

// Dashboard GET /{role}/dashboard.
func (h *PagesHandler) Dashboard(role domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := h.identities.ResolveIdentity(h.cookie.Read(c))
		if !ok || identity.Role != role {
			return c.Redirect(role.LoginPath(), fiber.StatusFound)
		}
		return render(c, "dashboard", pageData{
			Title:         roleTitle(role) + " dashboard",
			Role:          role,
			Email:         identity.Email,
			IdeasEndpoint: "/api/" + string(role) + "/ideas",
		})
	}
}

func render(c *fiber.Ctx, name string, data pageData) error {
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

func roleTitle(role domain.Role) string {
	if role == domain.RoleStaff {
		return "Staff"
	}
	return "Student"
}
